package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// unmatchedPath labels requests chi could not route, so stray paths do not
// create new series.
const unmatchedPath = "unmatched"

var staticRoutes = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
	"/shorten": {},
	"/redoc":   {},
}

// GetRoutePath returns the chi route pattern for r, falling back to
// NormalizePath when routing has not produced one.
func GetRoutePath(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return NormalizePath(r.URL.Path)
}

// NormalizePath maps a raw request path onto one of the router's patterns.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	if _, ok := staticRoutes[path]; ok {
		return path
	}
	if strings.HasPrefix(path, "/swagger/") {
		return "/swagger/*"
	}
	if rest, ok := strings.CutPrefix(path, "/api/urls/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/api/urls/{shortCode}"
	}
	if rest := strings.TrimPrefix(path, "/"); !strings.Contains(rest, "/") {
		return "/{shortCode}"
	}
	return unmatchedPath
}

func FormatStatusCode(statusCode int) string {
	return strconv.Itoa(statusCode)
}

// SanitizeLabel strips quoting and line breaks and caps the value at 100 bytes.
func SanitizeLabel(value string) string {
	value = strings.NewReplacer("\"", "", "\\", "", "\n", "", "\r", "").Replace(value)
	if len(value) > 100 {
		value = value[:100]
	}
	return value
}
