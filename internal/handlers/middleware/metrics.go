package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/pcarvalho/editassist/internal/metrics"
)

// routeResolver reports which registered pattern a request matches.
// Satisfied by *http.ServeMux.
type routeResolver interface {
	Handler(r *http.Request) (h http.Handler, pattern string)
}

// MetricsMiddleware records request counts and latency per registered route.
// Requests that match no pattern are collapsed into one "unmatched" label,
// so scanner traffic can not mint unbounded label values.
func MetricsMiddleware(routes routeResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := newStatusWriter(w)

			next.ServeHTTP(sw, r)

			_, route := routes.Handler(r)
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
			metrics.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
