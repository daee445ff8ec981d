package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// Logging middleware logs completed HTTP requests. Health and readiness
// probes are skipped to keep poller traffic from drowning the logs.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/ready" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		// Wrap response writer
		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		// Get correlation ID from context
		correlationID := GetCorrelationID(r.Context())

		// Call next handler
		next.ServeHTTP(rw, r)

		// Log response
		duration := time.Since(start)
		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "HTTP request completed",
			"method", r.Method,
			"path", sanitizePath(r.URL.Path),
			"status_code", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"bytes_written", rw.written,
			"correlation_id", correlationID,
		)
	})
}

// sanitizePath collapses job-status lookups to a single log key so
// per-job IDs don't explode log cardinality.
func sanitizePath(path string) string {
	if strings.HasPrefix(path, "/job-status/") {
		return "/job-status/{jobId}"
	}
	if strings.HasPrefix(path, "/episodes/") {
		return "/episodes/{jobId}"
	}
	return path
}
