package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hangrmap/hangrmap-backend/api/routes"
	"github.com/hangrmap/hangrmap-backend/internal/analytics"
	"github.com/hangrmap/hangrmap-backend/internal/appstate"
	"github.com/hangrmap/hangrmap-backend/internal/auth"
	"github.com/hangrmap/hangrmap-backend/internal/billing"
	"github.com/hangrmap/hangrmap-backend/internal/campaigns"
	"github.com/hangrmap/hangrmap-backend/internal/companies"
	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/internal/insights"
	"github.com/hangrmap/hangrmap-backend/internal/leads"
	"github.com/hangrmap/hangrmap-backend/internal/users"
	stripewebhook "github.com/hangrmap/hangrmap-backend/internal/webhooks/stripe"
	"github.com/hangrmap/hangrmap-backend/pkg/auth/session"
	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/db"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
	"github.com/hangrmap/hangrmap-backend/pkg/maps"
	"github.com/hangrmap/hangrmap-backend/pkg/metrics"
	"github.com/hangrmap/hangrmap-backend/pkg/migrate"
	"github.com/hangrmap/hangrmap-backend/pkg/qr"
	"github.com/hangrmap/hangrmap-backend/pkg/redis"
	"github.com/hangrmap/hangrmap-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create stripe client", err)
		os.Exit(1)
	}

	qrGen, err := qr.NewGenerator(cfg.QR)
	if err != nil {
		logg.Error(context.Background(), "failed to create qr generator", err)
		os.Exit(1)
	}

	userRepo := users.NewRepository(dbClient.DB())
	companyRepo := companies.NewRepository(dbClient.DB())
	campaignRepo := campaigns.NewRepository(dbClient.DB())
	dropRepo := drops.NewRepository(dbClient.DB())
	leadRepo := leads.NewRepository(dbClient.DB())

	selectionStore, err := appstate.NewSelectionStore(redisClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create selection store", err)
		os.Exit(1)
	}

	campaignParams := campaigns.ServiceParams{
		Repo:      campaignRepo,
		Drops:     dropRepo,
		Selection: selectionStore,
		QRGen:     qrGen,
		DB:        dbClient,
	}
	var mapsClient *maps.Client
	if cfg.GoogleMaps.APIKey != "" {
		client, mapsErr := maps.NewClient(cfg.GoogleMaps.APIKey)
		if mapsErr != nil {
			logg.Error(context.Background(), "failed to create maps client", mapsErr)
			os.Exit(1)
		}
		mapsClient = client
		renderer, rendererErr := campaigns.NewGoogleMapRenderer(mapsClient)
		if rendererErr != nil {
			logg.Error(context.Background(), "failed to create map renderer", rendererErr)
			os.Exit(1)
		}
		campaignParams.Renderer = renderer
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	inviteService, err := auth.NewInviteService(userRepo, cfg.Password)
	if err != nil {
		logg.Error(context.Background(), "failed to create invite service", err)
		os.Exit(1)
	}

	campaignService, err := campaigns.NewService(campaignParams)
	if err != nil {
		logg.Error(context.Background(), "failed to create campaign service", err)
		os.Exit(1)
	}

	dropService, err := drops.NewService(drops.ServiceParams{
		Repo:      dropRepo,
		Stats:     campaignRepo,
		Campaigns: campaignRepo,
		Selection: selectionStore,
		DB:        dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create drop service", err)
		os.Exit(1)
	}

	leadService, err := leads.NewService(leads.ServiceParams{
		Repo:      leadRepo,
		Campaigns: campaignRepo,
		Companies: companyRepo,
		DB:        dbClient,
		ScanCfg:   cfg.Scan,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create lead service", err)
		os.Exit(1)
	}

	appStateService, err := appstate.NewService(appstate.ServiceParams{
		Users:     userRepo,
		Companies: companyRepo,
		Campaigns: campaignRepo,
		Drops:     dropRepo,
		Leads:     leadRepo,
		Selection: selectionStore,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create app state service", err)
		os.Exit(1)
	}

	analyticsService, err := analytics.NewService(dropRepo, leadRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create analytics service", err)
		os.Exit(1)
	}

	billingService, err := billing.NewService(billing.ServiceParams{
		Companies: companyRepo,
		Stripe:    billing.NewStripeClient(stripeClient),
		Cfg:       cfg.Stripe,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create billing service", err)
		os.Exit(1)
	}

	insightService, err := insights.NewService(insights.ServiceParams{
		Campaigns: campaignRepo,
		Drops:     dropRepo,
		LLM:       insights.NewGeminiClient(cfg.Gemini.APIKey, cfg.Gemini.Model),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create insight service", err)
		os.Exit(1)
	}

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Companies: companyRepo,
		StripeCfg: cfg.Stripe,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Stripe.WebhookTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Cfg:                cfg,
			Logger:             logg,
			DB:                 dbClient,
			Redis:              redisClient,
			SessionManager:     sessionManager,
			HTTPMetrics:        httpMetrics,
			AuthService:        authService,
			RegisterService:    registerService,
			InviteService:      inviteService,
			AppStateService:    appStateService,
			CampaignService:    campaignService,
			DropService:        dropService,
			LeadService:        leadService,
			AnalyticsService:   analyticsService,
			BillingService:     billingService,
			InsightService:     insightService,
			Geocoder:           mapsClient,
			StripeClient:       stripeClient,
			StripeWebhookSvc:   webhookService,
			StripeWebhookGuard: webhookGuard,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(ctx, "signal", sig.String()), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}
