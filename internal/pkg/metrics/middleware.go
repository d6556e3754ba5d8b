package metrics

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	// MetricsPath is the default path for the metrics endpoint
	MetricsPath = "/metrics"
)

// PrometheusMiddleware records request count, latency and in-flight gauge
// for every request except those to skipPaths (MetricsPath when empty).
func PrometheusMiddleware(registry Registry, skipPaths ...string) func(http.Handler) http.Handler {
	if len(skipPaths) == 0 {
		skipPaths = []string{MetricsPath}
	}
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			registry.IncHTTPRequestsInFlight()
			defer registry.DecHTTPRequestsInFlight()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			// The chi route pattern is only complete once routing has run.
			registry.RecordHTTPRequest(r.Method, GetRoutePath(r), FormatStatusCode(status), time.Since(start).Seconds())
		})
	}
}
