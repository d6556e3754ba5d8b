package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry defines the interface for metrics collection
type Registry interface {
	// HTTP Metrics
	RecordHTTPRequest(method, path, statusCode string, duration float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()

	// Business Metrics
	IncURLsCreated()
	IncURLsRedirected()
	IncURLsExpired()
	IncShortCodeCollisions()

	// Cache Metrics
	IncCacheHits()
	IncCacheMisses()
	IncCacheEvictions(reason string)
	SetCacheSize(size int)

	// Prometheus-specific methods
	GetRegistry() *prometheus.Registry
	GetHandler() http.Handler
}

// NoOpRegistry provides a no-op implementation for when metrics are disabled
type NoOpRegistry struct{}

func NewNoOpRegistry() Registry {
	return &NoOpRegistry{}
}

func (n *NoOpRegistry) RecordHTTPRequest(method, path, statusCode string, duration float64) {}
func (n *NoOpRegistry) IncHTTPRequestsInFlight()                                            {}
func (n *NoOpRegistry) DecHTTPRequestsInFlight()                                            {}
func (n *NoOpRegistry) IncURLsCreated()                                                     {}
func (n *NoOpRegistry) IncURLsRedirected()                                                  {}
func (n *NoOpRegistry) IncURLsExpired()                                                     {}
func (n *NoOpRegistry) IncShortCodeCollisions()                                             {}
func (n *NoOpRegistry) IncCacheHits()                                                       {}
func (n *NoOpRegistry) IncCacheMisses()                                                     {}
func (n *NoOpRegistry) IncCacheEvictions(reason string)                                     {}
func (n *NoOpRegistry) SetCacheSize(size int)                                               {}
func (n *NoOpRegistry) GetRegistry() *prometheus.Registry                                   { return nil }
func (n *NoOpRegistry) GetHandler() http.Handler                                            { return nil }

// Common label names as constants
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatusCode  = "status_code"
	LabelReason      = "reason"
	LabelCacheResult = "result"
)
