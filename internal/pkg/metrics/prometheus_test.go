package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/wren/config"
)

func TestNewPrometheusRegistry(t *testing.T) {
	tests := []struct {
		name   string
		config config.MetricsConfig
		want   bool // whether we expect success
	}{
		{
			name: "valid config",
			config: config.MetricsConfig{
				Enabled:         true,
				Path:            "/metrics",
				Namespace:       "wren",
				Subsystem:       "urlshortener",
				CollectRuntime:  true,
				CollectDatabase: true,
				CollectCache:    true,
			},
			want: true,
		},
		{
			name: "minimal config",
			config: config.MetricsConfig{
				Enabled:   true,
				Path:      "/metrics",
				Namespace: "test",
				Subsystem: "test",
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry, err := NewPrometheusRegistry(tt.config)

			if tt.want {
				require.NoError(t, err)
				assert.NotNil(t, registry)

				// Test that we can get the underlying registry
				promRegistry := registry.GetRegistry()
				assert.NotNil(t, promRegistry)

				// Test that we can get the handler
				handler := registry.GetHandler()
				assert.NotNil(t, handler)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestPrometheusRegistry_HTTPMetrics(t *testing.T) {
	config := config.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "test",
		Subsystem: "test",
	}

	registry, err := NewPrometheusRegistry(config)
	require.NoError(t, err)

	// Test HTTP request recording
	registry.RecordHTTPRequest("GET", "/test", "200", 0.1)
	registry.RecordHTTPRequest("POST", "/shorten", "201", 0.05)
	registry.RecordHTTPRequest("GET", "/abc123", "301", 0.02)

	// Test in-flight requests
	registry.IncHTTPRequestsInFlight()
	registry.IncHTTPRequestsInFlight()
	registry.DecHTTPRequestsInFlight()

	// We can't easily test the actual metric values without exposing them,
	// but we can verify the methods don't panic
	assert.NotPanics(t, func() {
		registry.RecordHTTPRequest("GET", "/test", "404", 0.01)
	})
}

func TestPrometheusRegistry_BusinessMetrics(t *testing.T) {
	config := config.MetricsConfig{
		Enabled:   true,
		Path:      "/metrics",
		Namespace: "test",
		Subsystem: "test",
	}

	registry, err := NewPrometheusRegistry(config)
	require.NoError(t, err)

	// Test business metrics
	assert.NotPanics(t, func() {
		registry.IncURLsCreated()
		registry.IncURLsCreated()
		registry.IncURLsRedirected()
		registry.IncURLsExpired()
		registry.IncShortCodeCollisions()
	})
}

func TestPrometheusRegistry_CacheMetrics(t *testing.T) {
	registry, err := NewPrometheusRegistry(config.MetricsConfig{
		Namespace:    "test",
		CollectCache: true,
	})
	require.NoError(t, err)

	registry.IncCacheHits()
	registry.IncCacheHits()
	registry.IncCacheMisses()
	registry.IncCacheEvictions("capacity")
	registry.SetCacheSize(42)

	families, err := registry.GetRegistry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				key := mf.GetName()
				for _, l := range m.GetLabel() {
					key += "/" + l.GetValue()
				}
				values[key] = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				values[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}

	assert.Equal(t, 2.0, values["test_cache_lookups_total/hit"])
	assert.Equal(t, 1.0, values["test_cache_lookups_total/miss"])
	assert.Equal(t, 1.0, values["test_cache_evictions_total/capacity"])
	assert.Equal(t, 42.0, values["test_cache_entries"])
}

func TestPrometheusRegistry_CacheMetricsDisabled(t *testing.T) {
	registry, err := NewPrometheusRegistry(config.MetricsConfig{Namespace: "test"})
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		registry.IncCacheHits()
		registry.IncCacheMisses()
		registry.IncCacheEvictions("expired")
		registry.SetCacheSize(1)
	})
}

func TestNoOpRegistry(t *testing.T) {
	registry := NewNoOpRegistry()

	// All methods should be safe to call and not panic
	assert.NotPanics(t, func() {
		registry.RecordHTTPRequest("GET", "/test", "200", 0.1)
		registry.IncHTTPRequestsInFlight()
		registry.DecHTTPRequestsInFlight()
		registry.IncURLsCreated()
		registry.IncURLsRedirected()
		registry.IncURLsExpired()
		registry.IncShortCodeCollisions()
		registry.IncCacheHits()
		registry.IncCacheMisses()
		registry.IncCacheEvictions("capacity")
		registry.SetCacheSize(3)

		// These should return nil for NoOp
		assert.Nil(t, registry.GetRegistry())
		assert.Nil(t, registry.GetHandler())
	})
}
