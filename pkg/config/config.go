package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Stripe        StripeConfig
	GoogleMaps    GoogleMapsConfig
	Gemini        GeminiConfig
	QR            QRConfig
	Scan          ScanConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"HANGRMAP_APP_ENV" required:"true"`
	Port         string `envconfig:"HANGRMAP_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"HANGRMAP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"HANGRMAP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"HANGRMAP_DB_DSN"`
	Driver string `envconfig:"HANGRMAP_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"HANGRMAP_DB_HOST"`
	LegacyPort     int    `envconfig:"HANGRMAP_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"HANGRMAP_DB_USER"`
	LegacyPassword string `envconfig:"HANGRMAP_DB_PASSWORD"`
	LegacyName     string `envconfig:"HANGRMAP_DB_NAME"`
	LegacySSLMode  string `envconfig:"HANGRMAP_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"HANGRMAP_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"HANGRMAP_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"HANGRMAP_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"HANGRMAP_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"HANGRMAP_REDIS_URL" required:"true"`
	Address      string        `envconfig:"HANGRMAP_REDIS_ADDR"`
	Password     string        `envconfig:"HANGRMAP_REDIS_PASSWORD"`
	DB           int           `envconfig:"HANGRMAP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"HANGRMAP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"HANGRMAP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"HANGRMAP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"HANGRMAP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"HANGRMAP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"HANGRMAP_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"HANGRMAP_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"HANGRMAP_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"HANGRMAP_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"HANGRMAP_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"HANGRMAP_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"HANGRMAP_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"HANGRMAP_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"HANGRMAP_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"HANGRMAP_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"HANGRMAP_AUTO_MIGRATE" default:"false"`
}

type StripeConfig struct {
	APIKey        string        `envconfig:"HANGRMAP_STRIPE_API_KEY"`
	Secret        string        `envconfig:"HANGRMAP_STRIPE_SECRET"`
	Env           string        `envconfig:"HANGRMAP_STRIPE_ENV" default:"test"`
	PriceIDSolo   string        `envconfig:"HANGRMAP_STRIPE_PRICE_ID_SOLO"`
	PriceIDCrew   string        `envconfig:"HANGRMAP_STRIPE_PRICE_ID_CREW"`
	PriceIDAgency string        `envconfig:"HANGRMAP_STRIPE_PRICE_ID_AGENCY"`
	SuccessURL    string        `envconfig:"HANGRMAP_STRIPE_SUCCESS_URL" default:"https://hangrmap.app/billing/success"`
	CancelURL     string        `envconfig:"HANGRMAP_STRIPE_CANCEL_URL" default:"https://hangrmap.app/billing"`
	WebhookTTL    time.Duration `envconfig:"HANGRMAP_STRIPE_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"HANGRMAP_GOOGLE_MAPS_API_KEY"`
}

type GeminiConfig struct {
	APIKey string `envconfig:"HANGRMAP_GEMINI_API_KEY"`
	Model  string `envconfig:"HANGRMAP_GEMINI_MODEL" default:"gemini-1.5-flash"`
}

type QRConfig struct {
	ImageEndpoint string `envconfig:"HANGRMAP_QR_IMAGE_ENDPOINT" default:"https://api.qrserver.com/v1/create-qr-code/"`
	ImageSize     string `envconfig:"HANGRMAP_QR_IMAGE_SIZE" default:"150x150"`
	ScanBaseURL   string `envconfig:"HANGRMAP_QR_SCAN_BASE_URL" default:"https://hangrmap.app/scan"`
}

type ScanConfig struct {
	RedirectBaseURL string `envconfig:"HANGRMAP_SCAN_REDIRECT_BASE_URL" default:"https://hangrmap.app/offer"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
