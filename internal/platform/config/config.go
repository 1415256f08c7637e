// Package config loads the BFF configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the full process configuration.
type Config struct {
	Server       Server
	Identity     Identity
	Redis        RedisConfig
	Session      Session
	Registration Registration
	Log          Log
	Tracing      Tracing
	RateLimit    RateLimit
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"BFF_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Identity points at the Identity Service.
type Identity struct {
	BaseURL string        `env:"IDENTITY_BASE_URL" envDefault:"http://localhost:8000/api/v1"`
	Timeout time.Duration `env:"IDENTITY_TIMEOUT" envDefault:"10s"`
}

// RedisConfig is optional. An empty URL keeps sessions in memory.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// Session configures browser sessions.
type Session struct {
	TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	SecureCookie bool          `env:"COOKIE_SECURE" envDefault:"false"`
}

// Registration configures workflow retention.
type Registration struct {
	IdleTTL       time.Duration `env:"REGISTRATION_IDLE_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
}

// Log selects the slog level and handler.
type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

// RateLimit budgets requests per client IP over Window. A zero budget turns
// that class off.
type RateLimit struct {
	Disabled bool          `env:"RATE_LIMIT_DISABLED" envDefault:"false"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
	Identity int           `env:"RATE_LIMIT_IDENTITY" envDefault:"30"`
	Login    int           `env:"RATE_LIMIT_LOGIN" envDefault:"10"`
}

// Tracing is off unless an OTLP/HTTP endpoint is given.
type Tracing struct {
	Endpoint    string `env:"OTEL_ENDPOINT"`
	ServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"ddinvest-bff"`
}

// FromEnv builds the config from environment variables so main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Identity.BaseURL) == "" {
		errs = append(errs, errors.New("IDENTITY_BASE_URL is required"))
	}
	if c.Identity.Timeout <= 0 {
		errs = append(errs, errors.New("IDENTITY_TIMEOUT must be positive"))
	}
	if c.Session.TTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.Registration.IdleTTL <= 0 {
		errs = append(errs, errors.New("REGISTRATION_IDLE_TTL must be positive"))
	}
	if c.Registration.SweepInterval <= 0 {
		errs = append(errs, errors.New("SWEEP_INTERVAL must be positive"))
	}
	if !c.RateLimit.Disabled && c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or text, got %q", c.Log.Format))
	}
	return errors.Join(errs...)
}
