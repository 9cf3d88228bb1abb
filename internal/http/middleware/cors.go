package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/rs/cors"

	"github.com/davidbz/tokenmeter/internal/config"
)

// CORS lets the chat UI call the gateway from another origin.
// The request id header is always accepted and both trace headers are always
// exposed, whatever the configured lists say.
func CORS(cfg *config.CORSConfig) Middleware {
	if cfg == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   withHeaders(cfg.AllowedHeaders, RequestIDHeader),
		ExposedHeaders:   withHeaders(cfg.ExposedHeaders, RequestIDHeader, TraceIDHeader),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})

	return c.Handler
}

func withHeaders(configured []string, required ...string) []string {
	headers := slices.Clone(configured)
	for _, header := range required {
		if !slices.ContainsFunc(headers, func(h string) bool { return strings.EqualFold(h, header) }) {
			headers = append(headers, header)
		}
	}
	return headers
}
