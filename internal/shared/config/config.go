package config

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	SessionBackendCookie   = "cookie"
	SessionBackendRedis    = "redis"
	SessionBackendPostgres = "postgres"
)

// Config holds application configuration
type Config struct {
	Version     string `env:"VERSION" envDefault:"0.1.0"`
	Port        int    `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN   string `env:"SENTRY_DSN"`

	// APIURL is the base URL of the recipe REST API, including its /api prefix.
	APIURL string `env:"API_URL" envDefault:"http://localhost:5000/api"`
	// APITimeout of zero leaves timeouts to the transport.
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`

	SessionSecret  string `env:"SESSION_SECRET"`
	SessionBackend string `env:"SESSION_BACKEND" envDefault:"cookie"`
	SecureCookies  bool   `env:"SECURE_COOKIES" envDefault:"true"`

	// CORSOrigins lists origins allowed to call the server with credentials. Empty means same-origin only.
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	RedisURL    string `env:"REDIS_URL"`
	DatabaseURL string `env:"DATABASE_URL"`
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every inconsistent setting at once.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("API_URL %q is not an absolute URL", c.APIURL))
	}

	if c.APITimeout < 0 {
		errs = append(errs, errors.New("API_TIMEOUT must not be negative"))
	}

	if slices.Contains(c.CORSOrigins, "*") {
		errs = append(errs, errors.New("CORS_ORIGINS must list origins, not *"))
	}

	switch c.SessionBackend {
	case SessionBackendCookie:
	case SessionBackendRedis:
		if c.RedisURL == "" {
			errs = append(errs, errors.New("REDIS_URL is required for the redis session backend"))
		}
	case SessionBackendPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres session backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown SESSION_BACKEND %q", c.SessionBackend))
	}

	return errors.Join(errs...)
}

func (c *Config) IsEnvProd() bool {
	if c.Environment == "prod" && c.SentryDSN != "" {
		return true
	}
	return false
}
