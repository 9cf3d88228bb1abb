package backend

// Config contains chat backend settings.
//   - BaseURL: prefix for /health, /models and /chat
//   - Timeout: per-request timeout in seconds
type Config struct {
	BaseURL string `env:"BACKEND_BASE_URL" envDefault:"http://localhost:8000/api"`
	Timeout int    `env:"BACKEND_TIMEOUT"  envDefault:"30"`
}
