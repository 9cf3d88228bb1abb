package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/tokenmeter/internal/backend"
	"github.com/davidbz/tokenmeter/internal/domain"
	"github.com/davidbz/tokenmeter/internal/metrics"
	"github.com/davidbz/tokenmeter/internal/observability"
)

// Config represents the gateway configuration.
type Config struct {
	Server  ServerConfig
	CORS    CORSConfig
	Pricing PricingConfig
	Backend backend.Config
	Metrics metrics.Config
	Log     observability.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int `env:"SERVER_PORT"             envDefault:"8080"`
	ReadTimeout     int `env:"SERVER_READ_TIMEOUT"     envDefault:"30"`
	WriteTimeout    int `env:"SERVER_WRITE_TIMEOUT"    envDefault:"60"`
	ShutdownTimeout int `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"10"`
}

// CORSConfig contains the CORS policy for the chat UI. The request and trace
// id headers must be allowed and exposed for browser callers to correlate logs.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,X-Request-Id"`
	ExposedHeaders   []string `env:"CORS_EXPOSED_HEADERS"   envSeparator:"," envDefault:"X-Request-Id,X-Trace-Id"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"false"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// PricingConfig contains the fallbacks used when the model directory cannot help.
type PricingConfig struct {
	DefaultInput          float64 `env:"PRICING_DEFAULT_INPUT"           envDefault:"3"`
	DefaultOutput         float64 `env:"PRICING_DEFAULT_OUTPUT"          envDefault:"15"`
	DefaultConversionRate float64 `env:"PRICING_DEFAULT_CONVERSION_RATE" envDefault:"0.92"`
}

// ResolverOptions converts the pricing settings for the resolver.
// The configured pair is always passed through, so zero prices stay zero.
func (c *PricingConfig) ResolverOptions() domain.ResolverOptions {
	return domain.ResolverOptions{
		DefaultPricing: &domain.PricingPair{
			Input:  c.DefaultInput,
			Output: c.DefaultOutput,
		},
		DefaultConversionRate: c.DefaultConversionRate,
	}
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server  *ServerConfig
	CORS    *CORSConfig
	Pricing *PricingConfig
	Backend *backend.Config
	Metrics *metrics.Config
	Log     *observability.Config
}

// Load loads environment files and parses configuration.
func Load() (*Config, error) {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Out:     dig.Out{},
		Server:  &cfg.Server,
		CORS:    &cfg.CORS,
		Pricing: &cfg.Pricing,
		Backend: &cfg.Backend,
		Metrics: &cfg.Metrics,
		Log:     &cfg.Log,
	}
}
