package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is everything the server reads from the environment (or a .env
// file next to the binary).
type Config struct {
	Port      int      `env:"PORT" envDefault:"8080"`
	Prod      bool     `env:"PROD"`
	UseHTTPS  bool     `env:"USE_HTTPS"`
	CertFile  string   `env:"TLS_CERT_FILE"`
	KeyFile   string   `env:"TLS_KEY_FILE"`
	SiteURL   string   `env:"SITE_URL" envDefault:"http://localhost:3000"`
	Origins   []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	StaticDir string   `env:"STATIC_DIR"`
	LogLevel  string   `env:"LOG_LEVEL" envDefault:"info"`

	SessionKey string `env:"SESSION_KEY"`

	DatabaseURL     string `env:"DATABASE_URL"`
	MigratePostgres bool   `env:"MIGRATE_POSTGRES"`
	VerbosePostgres bool   `env:"VERBOSE_POSTGRES"`

	RedisURL       string        `env:"REDIS_URL"`
	GameSessionTTL time.Duration `env:"GAME_SESSION_TTL" envDefault:"6h"`

	Supabase Supabase `envPrefix:"SUPABASE_"`
	Stripe   Stripe   `envPrefix:"STRIPE_"`
}

type Supabase struct {
	URL       string `env:"URL"`
	AnonKey   string `env:"ANON_KEY"`
	JWTSecret string `env:"JWT_SECRET"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	// plan id -> Stripe price id, e.g. "pro_monthly:price_123,pack_party:price_456"
	Prices map[string]string `env:"PRICES"`
}

// Load reads .env (when present) and parses the environment into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return errors.New("both TLS_CERT_FILE and TLS_KEY_FILE must be provided together")
	}
	if c.UseHTTPS && c.CertFile == "" {
		return errors.New("USE_HTTPS requires TLS_CERT_FILE and TLS_KEY_FILE")
	}
	if c.Prod {
		if c.SessionKey == "" {
			return errors.New("SESSION_KEY is required in production")
		}
		if c.Supabase.JWTSecret == "" {
			return errors.New("SUPABASE_JWT_SECRET is required in production")
		}
	}
	if c.GameSessionTTL <= 0 {
		return fmt.Errorf("invalid GAME_SESSION_TTL: %s", c.GameSessionTTL)
	}
	return nil
}

// Scheme is the URL scheme the server listens with.
func (c *Config) Scheme() string {
	if c.UseHTTPS {
		return "https"
	}
	return "http"
}
