package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpswagger "github.com/swaggo/http-swagger"

	"github.com/sp3dr4/wren/config"
	"github.com/sp3dr4/wren/internal/pkg/metrics"
)

const defaultRequestTimeout = 60 * time.Second

func NewRouter(handlers *Handlers, logger *slog.Logger, cfg *config.Config, metricsRegistry metrics.Registry) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(metrics.PrometheusMiddleware(metricsRegistry, metricsPath(cfg)))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout(cfg.Server.RequestTimeout)))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg.Server.AllowedOrigins),
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id", traceHeader},
		ExposedHeaders: []string{traceHeader, "Location"},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.HandleHealth)
	r.Get("/ready", handlers.HandleReady)

	if cfg.Metrics.Enabled {
		if h := metricsRegistry.GetHandler(); h != nil {
			r.Handle(metricsPath(cfg), h)
		}
	}

	r.Get("/swagger/*", httpswagger.Handler(
		httpswagger.URL(cfg.App.BaseURL+"/swagger/doc.json"),
	))
	r.Get("/redoc", handleRedoc)

	r.Post("/shorten", handlers.HandleShorten)
	r.Get("/api/urls/{shortCode}", handlers.HandleStats)

	r.Get("/{shortCode}", handlers.HandleRedirect)
	r.Head("/{shortCode}", handlers.HandleRedirect)

	return r
}

func metricsPath(cfg *config.Config) string {
	if cfg.Metrics.Path == "" {
		return metrics.MetricsPath
	}
	return cfg.Metrics.Path
}

func requestTimeout(raw string) time.Duration {
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	return defaultRequestTimeout
}

func allowedOrigins(origins []string) []string {
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func handleRedoc(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	redocHTML := `<!DOCTYPE html>
<html>
<head>
    <title>Wren API Documentation - Redoc</title>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body {
            margin: 0;
            padding: 0;
        }
    </style>
</head>
<body>
    <redoc spec-url='/swagger/doc.json'></redoc>
    <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`
	_, _ = w.Write([]byte(redocHTML))
}
