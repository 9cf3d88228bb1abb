package middleware

import (
	"net/http"
	"time"

	"github.com/davidbz/tokenmeter/internal/observability"
)

const (
	// RequestIDHeader carries the request id. An incoming value is kept.
	RequestIDHeader = "X-Request-Id"
	// TraceIDHeader carries the trace id generated for each request.
	TraceIDHeader = "X-Trace-Id"
)

// Trace creates a middleware that injects trace ID and request ID into every request.
// An incoming X-Request-Id is kept so the UI and backend logs line up.
func Trace() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			started := time.Now()

			traceID := observability.GenerateTraceID()
			ctx = observability.WithTraceID(ctx, traceID)

			spanID := observability.GenerateSpanID()
			ctx = observability.WithSpanID(ctx, spanID)

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = observability.GenerateRequestID()
			}
			ctx = observability.WithRequestID(ctx, requestID)

			w.Header().Set(TraceIDHeader, traceID)
			w.Header().Set(RequestIDHeader, requestID)

			contextLogger := observability.FromContext(ctx)
			contextLogger.Info("request started",
				observability.String("method", r.Method),
				observability.String("path", r.URL.Path),
				observability.String("remote_addr", r.RemoteAddr),
			)

			next.ServeHTTP(w, r.WithContext(ctx))

			contextLogger.Info("request completed",
				observability.Duration("duration", time.Since(started)),
			)
		})
	}
}
