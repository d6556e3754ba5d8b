package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sp3dr4/wren/config"
)

// PrometheusRegistry implements the Registry interface using Prometheus metrics
type PrometheusRegistry struct {
	registry *prometheus.Registry
	config   config.MetricsConfig

	// HTTP Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business Metrics
	urlsCreatedTotal    prometheus.Counter
	urlsRedirectedTotal prometheus.Counter
	urlsExpiredTotal    prometheus.Counter
	shortCodeCollisions prometheus.Counter

	// Cache Metrics, nil unless CollectCache is set
	cacheLookupsTotal   *prometheus.CounterVec
	cacheEvictionsTotal *prometheus.CounterVec
	cacheSize           prometheus.Gauge
}

// NewPrometheusRegistry creates a new Prometheus metrics registry
func NewPrometheusRegistry(cfg config.MetricsConfig) (Registry, error) {
	registry := prometheus.NewRegistry()

	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		})
	}

	p := &PrometheusRegistry{
		registry: registry,
		config:   cfg,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{LabelMethod, LabelPath, LabelStatusCode},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{LabelMethod, LabelPath, LabelStatusCode},
		),
		httpRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		urlsCreatedTotal:    counter("urls_created_total", "Total number of URLs created"),
		urlsRedirectedTotal: counter("urls_redirected_total", "Total number of URL redirects"),
		urlsExpiredTotal:    counter("urls_expired_total", "Total number of resolves rejected because the link expired"),
		shortCodeCollisions: counter("short_code_collisions_total", "Total number of generated short codes that were already taken"),
	}

	metricsCollectors := []prometheus.Collector{
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.httpRequestsInFlight,
		p.urlsCreatedTotal,
		p.urlsRedirectedTotal,
		p.urlsExpiredTotal,
		p.shortCodeCollisions,
	}

	if cfg.CollectCache {
		p.cacheLookupsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_lookups_total",
				Help:      "Total number of cache lookups by result",
			},
			[]string{LabelCacheResult},
		)
		p.cacheEvictionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of cache entries removed by capacity or expiry",
			},
			[]string{LabelReason},
		)
		p.cacheSize = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "cache_entries",
				Help:      "Number of entries currently held by the URL cache",
			},
		)
		metricsCollectors = append(metricsCollectors, p.cacheLookupsTotal, p.cacheEvictionsTotal, p.cacheSize)
	}

	for _, collector := range metricsCollectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	// Register Go runtime metrics if enabled
	if cfg.CollectRuntime {
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return p, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration
func (p *PrometheusRegistry) RecordHTTPRequest(method, path, statusCode string, duration float64) {
	labels := prometheus.Labels{
		LabelMethod:     method,
		LabelPath:       path,
		LabelStatusCode: statusCode,
	}
	p.httpRequestsTotal.With(labels).Inc()
	p.httpRequestDuration.With(labels).Observe(duration)
}

// IncHTTPRequestsInFlight increments the in-flight HTTP requests counter
func (p *PrometheusRegistry) IncHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight HTTP requests counter
func (p *PrometheusRegistry) DecHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Dec()
}

// IncURLsCreated increments the URLs created counter
func (p *PrometheusRegistry) IncURLsCreated() {
	p.urlsCreatedTotal.Inc()
}

// IncURLsRedirected increments the URLs redirected counter
func (p *PrometheusRegistry) IncURLsRedirected() {
	p.urlsRedirectedTotal.Inc()
}

func (p *PrometheusRegistry) IncURLsExpired() {
	p.urlsExpiredTotal.Inc()
}

func (p *PrometheusRegistry) IncShortCodeCollisions() {
	p.shortCodeCollisions.Inc()
}

func (p *PrometheusRegistry) IncCacheHits() {
	if p.cacheLookupsTotal != nil {
		p.cacheLookupsTotal.WithLabelValues("hit").Inc()
	}
}

func (p *PrometheusRegistry) IncCacheMisses() {
	if p.cacheLookupsTotal != nil {
		p.cacheLookupsTotal.WithLabelValues("miss").Inc()
	}
}

func (p *PrometheusRegistry) IncCacheEvictions(reason string) {
	if p.cacheEvictionsTotal != nil {
		p.cacheEvictionsTotal.WithLabelValues(SanitizeLabel(reason)).Inc()
	}
}

func (p *PrometheusRegistry) SetCacheSize(size int) {
	if p.cacheSize != nil {
		p.cacheSize.Set(float64(size))
	}
}

// GetRegistry returns the underlying Prometheus registry
func (p *PrometheusRegistry) GetRegistry() *prometheus.Registry {
	return p.registry
}

// GetHandler returns an HTTP handler for the metrics endpoint
func (p *PrometheusRegistry) GetHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
