// Package metrics exposes pricing and cost counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidbz/tokenmeter/internal/domain"
)

const defaultNamespace = "tokenmeter"

// Collector implements domain.MetricsRecorder on a private registry.
// A nil or disabled Collector records nothing.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	directoryFetches *prometheus.CounterVec
	pricingFallbacks *prometheus.CounterVec
	costTotal        *prometheus.CounterVec
	tokensTotal      *prometheus.CounterVec
}

// NewCollector creates and registers the metrics (DI constructor).
func NewCollector(cfg *Config) *Collector {
	namespace := defaultNamespace
	enabled := true
	if cfg != nil {
		enabled = cfg.Enabled
		if cfg.Namespace != "" {
			namespace = cfg.Namespace
		}
	}

	c := &Collector{
		enabled:  enabled,
		registry: prometheus.NewRegistry(),

		directoryFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "directory_fetches_total",
				Help:      "Model directory fetches by outcome",
			},
			[]string{"outcome"},
		),
		pricingFallbacks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pricing_fallbacks_total",
				Help:      "Pricing resolutions that used the default pricing, by reason",
			},
			[]string{"reason"},
		),
		costTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cost_total",
				Help:      "Estimated chat cost in display currency by model",
			},
			[]string{"model"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_total",
				Help:      "Tokens reported by the backend by model and direction",
			},
			[]string{"model", "direction"},
		),
	}

	c.registry.MustRegister(
		c.directoryFetches,
		c.pricingFallbacks,
		c.costTotal,
		c.tokensTotal,
	)

	return c
}

// Enabled reports whether observations are recorded.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// RecordDirectoryFetch counts a directory fetch by outcome.
func (c *Collector) RecordDirectoryFetch(outcome string) {
	if !c.Enabled() {
		return
	}
	c.directoryFetches.WithLabelValues(outcome).Inc()
}

// RecordPricingFallback counts a resolution that fell back to defaults.
func (c *Collector) RecordPricingFallback(reason string) {
	if !c.Enabled() {
		return
	}
	c.pricingFallbacks.WithLabelValues(reason).Inc()
}

// RecordCost accumulates the cost and tokens of a chat turn.
func (c *Collector) RecordCost(model string, usage domain.TokenUsage, cost domain.CostResult) {
	if !c.Enabled() {
		return
	}

	if model == "" {
		model = "default"
	}

	c.costTotal.WithLabelValues(model).Add(cost.TotalCost)
	c.tokensTotal.WithLabelValues(model, "input").Add(float64(max(usage.InputTokens, 0)))
	c.tokensTotal.WithLabelValues(model, "output").Add(float64(max(usage.OutputTokens, 0)))
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

var _ domain.MetricsRecorder = (*Collector)(nil)
