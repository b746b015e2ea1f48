package monitoring

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type HTTPMetricsMiddleware struct {
	next http.Handler
}

func WrapHandler(next http.Handler) http.Handler {
	return &HTTPMetricsMiddleware{next: next}
}

func (m *HTTPMetricsMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	wrapped := &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}

	handlerName := extractHandlerName(r.URL.Path)

	m.next.ServeHTTP(wrapped, r)

	status := strconv.Itoa(wrapped.statusCode)
	HTTPRequestsTotal.WithLabelValues(handlerName, r.Method, status).Inc()
	HTTPRequestDuration.WithLabelValues(handlerName, r.Method, status).Observe(time.Since(start).Seconds())
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// extractHandlerName collapses paths to their first segment so metric
// cardinality stays bounded.
func extractHandlerName(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "root"
	}
	if idx := strings.Index(trimmed, "/"); idx > 0 {
		return trimmed[:idx]
	}
	return trimmed
}
