package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	method, path, status string
}

// recordingRegistry captures RecordHTTPRequest calls on top of the no-op registry.
type recordingRegistry struct {
	NoOpRegistry
	requests []recordedRequest
	inFlight int
}

func (r *recordingRegistry) RecordHTTPRequest(method, path, statusCode string, _ float64) {
	r.requests = append(r.requests, recordedRequest{method, path, statusCode})
}

func (r *recordingRegistry) IncHTTPRequestsInFlight() { r.inFlight++ }
func (r *recordingRegistry) DecHTTPRequestsInFlight() { r.inFlight-- }

func TestPrometheusMiddleware(t *testing.T) {
	registry := &recordingRegistry{}

	router := chi.NewRouter()
	router.Use(PrometheusMiddleware(registry, "/internal/metrics"))
	router.Get("/{shortCode}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "https://example.com", http.StatusFound)
	})
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	router.Get("/internal/metrics", func(w http.ResponseWriter, _ *http.Request) {})

	for _, path := range []string{"/abc12345", "/health", "/internal/metrics"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	require.Len(t, registry.requests, 2)
	assert.Equal(t, recordedRequest{"GET", "/{shortCode}", "302"}, registry.requests[0])
	assert.Equal(t, recordedRequest{"GET", "/health", "200"}, registry.requests[1])
	assert.Equal(t, 0, registry.inFlight)
}
