package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/sp3dr4/wren/internal/application"
	"github.com/sp3dr4/wren/internal/domain"
	"github.com/sp3dr4/wren/internal/pkg/logging"
	"github.com/sp3dr4/wren/internal/pkg/shortcode"
)

type Handlers struct {
	service *application.URLService
	repo    domain.URLRepository
}

func NewHandlers(service *application.URLService, repo domain.URLRepository) *Handlers {
	return &Handlers{
		service: service,
		repo:    repo,
	}
}

// HandleHealth handles the health check endpoint.
//
//	@Summary		Health check endpoint
//	@Description	Check if the service is running
//	@Tags			health
//	@Produce		plain
//	@Success		200	{string}	string	"OK"
//	@Router			/health [get]
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// HandleReady handles the readiness check endpoint.
//
//	@Summary		Readiness check endpoint
//	@Description	Check if the service is ready to serve requests (includes store connectivity)
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	object{status=string,timestamp=string}	"Service is ready"
//	@Failure		503	{object}	ErrorResponse							"Service is not ready"
//	@Router			/ready [get]
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.HealthCheck(ctx); err != nil {
		logging.FromContext(ctx).Error("Readiness check failed", "error", err)
		respondWithError(w, http.StatusServiceUnavailable, "Service not ready: store unavailable")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"status":    "ready",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// HandleShorten handles the URL shortening endpoint.
//
//	@Summary		Create a short URL
//	@Description	Create a shortened URL from an http or https URL, optionally expiring after ttlDays
//	@Tags			urls
//	@Accept			json
//	@Produce		json
//	@Param			request	body		application.ShortenRequest	true	"URL to shorten"
//	@Success		201		{object}	application.ShortenResponse	"Successfully created short URL"
//	@Failure		400		{object}	ValidationErrorResponse		"Invalid request or validation error"
//	@Failure		503		{object}	ErrorResponse				"No unique short code could be generated"
//	@Router			/shorten [post]
func (h *Handlers) HandleShorten(w http.ResponseWriter, r *http.Request) {
	var req application.ShortenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logging.FromContext(r.Context()).Warn("Failed to decode request", "error", err)
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.service.Shorten(r.Context(), req)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			handleValidationError(w, domain.MessageOf(err), validationErrors)
			return
		}
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, response)
}

// HandleRedirect handles the redirect endpoint.
//
//	@Summary		Redirect to original URL
//	@Description	Redirect to the original URL using the short code and count the visit
//	@Tags			urls
//	@Param			shortCode	path	string	true	"Short code"
//	@Success		302			"Redirect to original URL"
//	@Failure		404			{object}	ErrorResponse	"Short URL not found"
//	@Failure		410			{object}	ErrorResponse	"Short URL has expired"
//	@Router			/{shortCode} [get]
func (h *Handlers) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if !shortcode.IsValid(shortCode) {
		respondWithDomainError(w, domain.NewError(domain.KindNotFound, "Short URL not found.", domain.ErrInvalidShortCode))
		return
	}

	originalURL, err := h.service.Resolve(r.Context(), shortCode)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	logging.FromContext(r.Context()).Info("Redirecting", "short_code", shortCode, "original_url", originalURL)
	http.Redirect(w, r, originalURL, http.StatusFound)
}

// HandleStats returns the stored record for a short code.
//
//	@Summary		Short URL statistics
//	@Description	Return the stored record, including the click count, without counting a visit
//	@Tags			urls
//	@Produce		json
//	@Param			shortCode	path		string		true	"Short code"
//	@Success		200			{object}	domain.URL	"Stored record"
//	@Failure		404			{object}	ErrorResponse	"Short URL not found"
//	@Router			/api/urls/{shortCode} [get]
func (h *Handlers) HandleStats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")
	if !shortcode.IsValid(shortCode) {
		respondWithDomainError(w, domain.NewError(domain.KindNotFound, "Short URL not found.", domain.ErrInvalidShortCode))
		return
	}

	record, err := h.service.Stats(r.Context(), shortCode)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, record)
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error     map[string]string `json:"error"`
	Timestamp string            `json:"timestamp" example:"2024-01-31T12:00:00Z"`
}

// ValidationErrorResponse represents a validation error response.
type ValidationErrorResponse struct {
	Error     map[string]string `json:"error"`
	Details   map[string]string `json:"details"`
	Timestamp string            `json:"timestamp" example:"2024-01-31T12:00:00Z"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindBadInput:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindExpired:
		return http.StatusGone
	case domain.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondWithDomainError(w http.ResponseWriter, err error) {
	respondWithError(w, statusFor(domain.KindOf(err)), domain.MessageOf(err))
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{
		Error:     map[string]string{"message": message},
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

func handleValidationError(w http.ResponseWriter, message string, validationErrors validator.ValidationErrors) {
	errorMessages := make(map[string]string)
	for _, e := range validationErrors {
		field := e.Field()
		switch e.Tag() {
		case "required":
			errorMessages[field] = fmt.Sprintf("%s is required", field)
		case "url":
			errorMessages[field] = fmt.Sprintf("%s must be a valid URL", field)
		case "max":
			errorMessages[field] = fmt.Sprintf("%s must be at most %s", field, e.Param())
		default:
			errorMessages[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	respondWithJSON(w, http.StatusBadRequest, ValidationErrorResponse{
		Error:     map[string]string{"message": message},
		Details:   errorMessages,
		Timestamp: time.Now().Format(time.RFC3339),
	})
}
