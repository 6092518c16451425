package middleware

import (
	"net/http"
	"strconv"
	"time"

	"goodplace/internal/metrics"
)

const unmatchedRoute = "unmatched"

// routeLabel returns the ServeMux pattern that served r. ServeMux sets
// r.Pattern on the request it was handed, so this only works when no
// middleware between here and the mux replaced the request.
func routeLabel(r *http.Request) string {
	if r.Pattern == "" {
		return unmatchedRoute
	}
	return r.Pattern
}

// Metrics records a Prometheus request counter and latency histogram per route.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		metrics.ObserveRequest(r.Method, routeLabel(r), strconv.Itoa(wrapped.status), time.Since(start).Seconds())
	})
}
