package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the counterdesk service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"COUNTERDESK_HTTP_PORT" envDefault:"8090"`

	// Caixa backend
	BackendBaseURL        string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000"`
	BackendCookie         string `env:"BACKEND_COOKIE"`
	BackendTimeoutSeconds int    `env:"BACKEND_TIMEOUT_SECONDS" envDefault:"10"`
	BackendReadRetries    int    `env:"BACKEND_READ_RETRIES" envDefault:"2"`

	// Circuit breaker settings for backend calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.5"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Operator sessions; a zero TTL keeps workspaces until discarded
	SessionIdleTTLMinutes       int `env:"SESSION_IDLE_TTL_MINUTES" envDefault:"480"`
	SessionSweepIntervalSeconds int `env:"SESSION_SWEEP_INTERVAL_SECONDS" envDefault:"60"`

	// Kafka audit events
	KafkaEnabled bool     `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Origins allowed to call the API from the counter page
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("load counterdesk config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.BackendBaseURL == "" {
		return fmt.Errorf("BACKEND_BASE_URL is required")
	}
	u, err := url.ParseRequestURI(c.BackendBaseURL)
	if err != nil {
		return fmt.Errorf("invalid BACKEND_BASE_URL %q: %w", c.BackendBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("BACKEND_BASE_URL must be http or https, got %q", u.Scheme)
	}
	if c.BackendTimeoutSeconds < 1 {
		return fmt.Errorf("BACKEND_TIMEOUT_SECONDS must be positive, got %d", c.BackendTimeoutSeconds)
	}
	if c.BackendReadRetries < 0 {
		return fmt.Errorf("BACKEND_READ_RETRIES must not be negative, got %d", c.BackendReadRetries)
	}
	if c.CBFailureRatio <= 0 || c.CBFailureRatio > 1.0 {
		return fmt.Errorf("CB_FAILURE_RATIO must be in (0.0, 1.0], got %f", c.CBFailureRatio)
	}
	if c.SessionIdleTTLMinutes < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL_MINUTES must not be negative, got %d", c.SessionIdleTTLMinutes)
	}
	if c.SessionIdleTTLMinutes > 0 && c.SessionSweepIntervalSeconds < 1 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL_SECONDS must be positive, got %d", c.SessionSweepIntervalSeconds)
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// BackendTimeout returns the per-request timeout for backend calls.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

// SessionIdleTTL returns how long an unused workspace survives.
func (c *Config) SessionIdleTTL() time.Duration {
	return time.Duration(c.SessionIdleTTLMinutes) * time.Minute
}

// SessionSweepInterval returns how often idle workspaces are swept.
func (c *Config) SessionSweepInterval() time.Duration {
	return time.Duration(c.SessionSweepIntervalSeconds) * time.Second
}
