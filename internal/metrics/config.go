package metrics

// Config contains Prometheus metrics settings.
type Config struct {
	Enabled   bool   `env:"METRICS_ENABLED"   envDefault:"true"`
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"tokenmeter"`
}
