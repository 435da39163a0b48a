package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hangrmap/hangrmap-backend/api/controllers"
	webhookcontrollers "github.com/hangrmap/hangrmap-backend/api/controllers/webhooks"
	"github.com/hangrmap/hangrmap-backend/api/middleware"
	"github.com/hangrmap/hangrmap-backend/internal/analytics"
	"github.com/hangrmap/hangrmap-backend/internal/appstate"
	"github.com/hangrmap/hangrmap-backend/internal/auth"
	"github.com/hangrmap/hangrmap-backend/internal/billing"
	"github.com/hangrmap/hangrmap-backend/internal/campaigns"
	"github.com/hangrmap/hangrmap-backend/internal/drops"
	"github.com/hangrmap/hangrmap-backend/internal/insights"
	"github.com/hangrmap/hangrmap-backend/internal/leads"
	stripewebhook "github.com/hangrmap/hangrmap-backend/internal/webhooks/stripe"
	pkgauth "github.com/hangrmap/hangrmap-backend/pkg/auth"
	"github.com/hangrmap/hangrmap-backend/pkg/auth/session"
	"github.com/hangrmap/hangrmap-backend/pkg/config"
	"github.com/hangrmap/hangrmap-backend/pkg/enums"
	"github.com/hangrmap/hangrmap-backend/pkg/logger"
	"github.com/hangrmap/hangrmap-backend/pkg/metrics"
	"github.com/hangrmap/hangrmap-backend/pkg/redis"
	"github.com/hangrmap/hangrmap-backend/pkg/stripe"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// RouterParams bundles everything the HTTP tree needs.
type RouterParams struct {
	Cfg                *config.Config
	Logger             *logger.Logger
	DB                 pinger
	Redis              *redis.Client
	SessionManager     sessionManager
	HTTPMetrics        *metrics.HTTPMetrics
	AuthService        auth.Service
	RegisterService    auth.RegisterService
	InviteService      auth.InviteService
	AppStateService    appstate.Service
	CampaignService    campaigns.Service
	DropService        drops.Service
	LeadService        leads.Service
	AnalyticsService   analytics.Service
	BillingService     billing.Service
	InsightService     insights.Service
	Geocoder           controllers.Geocoder
	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Cfg
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	parseAccessID := func(token string) (string, error) {
		claims, err := pkgauth.ParseAccessTokenAllowExpired(cfg.JWT, token)
		if err != nil {
			return "", err
		}
		return claims.ID, nil
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, p.DB, p.Redis, logg))
	})

	r.Handle("/metrics", promhttp.Handler())

	// QR scans arrive from anonymous phones; no auth, no JSON envelope on
	// the happy path, just a 302 to the landing page.
	r.Route("/api/v1/public", func(r chi.Router) {
		r.Get("/scan/{qrToken}", controllers.Scan(p.LeadService, logg))
	})

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.StripeWebhookSvc, p.StripeClient, p.StripeWebhookGuard, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg), middleware.Idempotency(p.Redis, logg)).Post("/register", controllers.Register(p.RegisterService, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.AuthService, parseAccessID, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Get("/bootstrap", controllers.Bootstrap(p.AppStateService, logg))

		r.Route("/campaigns", func(r chi.Router) {
			r.Get("/", controllers.CampaignList(p.CampaignService, logg))
			r.Put("/current", controllers.CampaignSelect(p.CampaignService, logg))
			r.Get("/{campaignID}", controllers.CampaignGet(p.CampaignService, logg))
			r.Get("/{campaignID}/map", controllers.CampaignMap(p.CampaignService, logg))
			r.Get("/{campaignID}/insights", controllers.CampaignInsights(p.InsightService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/", controllers.CampaignCreate(p.CampaignService, logg))
				r.Patch("/{campaignID}", controllers.CampaignUpdate(p.CampaignService, logg))
				r.Delete("/{campaignID}", controllers.CampaignDelete(p.CampaignService, logg))
			})
		})

		r.Route("/drops", func(r chi.Router) {
			r.Post("/", controllers.DropRecord(p.DropService, logg))
			r.Get("/", controllers.DropList(p.DropService, logg))
		})

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", controllers.LeadList(p.LeadService, logg))
			r.Patch("/{leadID}", controllers.LeadUpdate(p.LeadService, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/dashboard", controllers.AnalyticsDashboard(p.AnalyticsService, logg))
		})

		r.Route("/geo", func(r chi.Router) {
			r.Get("/reverse-geocode", controllers.ReverseGeocode(p.Geocoder, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
			r.Post("/invite", controllers.InviteUser(p.InviteService, logg))
		})

		r.Route("/billing", func(r chi.Router) {
			r.Get("/plans", controllers.BillingPlans(p.BillingService, logg))
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
				r.Post("/checkout", controllers.BillingCheckout(p.BillingService, logg))
				r.Get("/subscription", controllers.BillingSubscription(p.BillingService, logg))
			})
		})
	})

	return r
}
