package main

import (
	"fmt"

	"go.uber.org/dig"

	"github.com/davidbz/tokenmeter/internal/backend"
	"github.com/davidbz/tokenmeter/internal/config"
	"github.com/davidbz/tokenmeter/internal/domain"
	"github.com/davidbz/tokenmeter/internal/http"
	"github.com/davidbz/tokenmeter/internal/http/middleware"
	"github.com/davidbz/tokenmeter/internal/metrics"
	"github.com/davidbz/tokenmeter/internal/observability"
)

func buildContainer() (*dig.Container, error) {
	container := dig.New()

	providers := []struct {
		name        string
		constructor any
	}{
		// Configuration
		{"config", config.Load},
		{"config dependencies", config.ParseDependenciesConfig},

		// Observability
		{"logger", observability.InitLogger},
		{"metrics collector", metrics.NewCollector},
		{"metrics recorder", func(c *metrics.Collector) domain.MetricsRecorder {
			return c
		}},

		// Backend
		{"backend client", backend.NewClient},
		{"directory source", func(c *backend.Client) domain.DirectorySource {
			return c
		}},
		{"chat backend", func(c *backend.Client) domain.ChatBackend {
			return c
		}},

		// Domain Services
		{"pricing resolver", func(
			source domain.DirectorySource,
			pricing *config.PricingConfig,
			recorder domain.MetricsRecorder,
		) *domain.PricingResolver {
			return domain.NewPricingResolver(source, pricing.ResolverOptions(), recorder)
		}},
		{"chat service", domain.NewChatService},

		// HTTP Layer
		{"middleware chain", middleware.BuildMiddlewareChain},
		{"HTTP handler", http.NewHandler},
		{"HTTP server", http.NewServer},
	}

	for _, p := range providers {
		if err := container.Provide(p.constructor); err != nil {
			return nil, fmt.Errorf("failed to provide %s: %w", p.name, err)
		}
	}

	return container, nil
}
