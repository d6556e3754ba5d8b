package application

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"

	"github.com/sp3dr4/wren/internal/domain"
	"github.com/sp3dr4/wren/internal/pkg/logging"
	"github.com/sp3dr4/wren/internal/pkg/metrics"
	"github.com/sp3dr4/wren/internal/pkg/shortcode"
)

const (
	DefaultShortCodeLength     = 8
	DefaultMaxCollisionRetries = 5
	// MaxTTLDays keeps expiry instants inside the range every store can hold.
	MaxTTLDays = 1_000_000
)

const (
	msgInvalidURL      = "Invalid URL. Only HTTP/HTTPS URLs are allowed."
	msgInvalidTTL      = "ttlDays must not exceed 1000000."
	msgNoUniqueCode    = "Could not generate unique short code. Please retry."
	msgExpired         = "Short URL has expired."
	msgNotFound        = "Short URL not found."
	msgInternalFailure = "Internal server error"
)

// Config holds the service settings that do not come from collaborators.
type Config struct {
	BaseURL         string
	ShortCodeLength int
	// MaxCollisionRetries is the number of extra attempts after the first
	// generated code turns out to be taken.
	MaxCollisionRetries int
}

// URLService coordinates the code generator, the in-process cache and the
// repository for shorten and resolve.
type URLService struct {
	repo     domain.URLRepository
	cache    domain.Cache
	cfg      Config
	generate shortcode.Generator
	now      func() time.Time
	validate *validator.Validate
	logger   *slog.Logger
	metrics  metrics.Registry
	lookups  singleflight.Group
}

type Option func(*URLService)

// WithCodeGenerator replaces the crypto/rand backed generator.
func WithCodeGenerator(g shortcode.Generator) Option {
	return func(s *URLService) {
		s.generate = g
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *URLService) {
		s.now = now
	}
}

func NewURLService(
	repo domain.URLRepository,
	cache domain.Cache,
	cfg Config,
	logger *slog.Logger,
	registry metrics.Registry,
	opts ...Option,
) *URLService {
	if cfg.ShortCodeLength <= 0 {
		cfg.ShortCodeLength = DefaultShortCodeLength
	}
	if cfg.MaxCollisionRetries <= 0 {
		cfg.MaxCollisionRetries = DefaultMaxCollisionRetries
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}

	s := &URLService{
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		generate: shortcode.Generate,
		now:      time.Now,
		validate: newValidator(),
		logger:   logger,
		metrics:  registry,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type ShortenRequest struct {
	OriginalURL string `json:"originalUrl" validate:"required,url"`
	// TTLDays is only honoured when it is a positive whole number.
	TTLDays *int `json:"ttlDays,omitempty" validate:"omitempty,max=1000000"`
}

// UnmarshalJSON drops a ttlDays that is not a whole JSON number, so values
// like 1.5 or "3" create a link that never expires instead of failing the
// request.
func (r *ShortenRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		OriginalURL string `json:"originalUrl"`
		TTLDays     any    `json:"ttlDays"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.OriginalURL = raw.OriginalURL
	r.TTLDays = wholeDays(raw.TTLDays)
	return nil
}

func wholeDays(v any) *int {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || f <= 0 {
		return nil
	}
	// Anything past the cap is clamped just above it so validation rejects it.
	if f > MaxTTLDays {
		f = MaxTTLDays + 1
	}
	days := int(f)
	return &days
}

type ShortenResponse struct {
	ShortCode   string     `json:"shortCode"`
	ShortURL    string     `json:"shortUrl"`
	OriginalURL string     `json:"originalUrl"`
	ExpiresAt   *time.Time `json:"expiresAt"`
}

// Shorten allocates an unused short code for req.OriginalURL, persists it
// and primes the cache with the new record.
func (s *URLService) Shorten(ctx context.Context, req ShortenRequest) (*ShortenResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.NewError(domain.KindBadInput, validationMessage(err), err)
	}
	if !isHTTPURL(req.OriginalURL) {
		return nil, domain.NewError(domain.KindBadInput, msgInvalidURL, domain.ErrInvalidURL)
	}

	var expiresAt *time.Time
	if req.TTLDays != nil && *req.TTLDays > 0 {
		t := s.now().UTC().AddDate(0, 0, *req.TTLDays)
		expiresAt = &t
	}

	log := logging.FromContextOr(ctx, s.logger)

	for attempt := 0; attempt <= s.cfg.MaxCollisionRetries; attempt++ {
		code, err := s.generate(s.cfg.ShortCodeLength)
		if err != nil {
			return nil, s.internal(ctx, "generate short code", err)
		}

		_, err = s.repo.FindByShortCode(ctx, code)
		if err == nil {
			s.metrics.IncShortCodeCollisions()
			log.Debug("Short code collision", "short_code", code, "attempt", attempt+1)
			continue
		}
		if !errors.Is(err, domain.ErrURLNotFound) {
			return nil, s.internal(ctx, "check short code", err)
		}

		record, err := domain.NewURL(code, req.OriginalURL, expiresAt)
		if err != nil {
			return nil, domain.NewError(domain.KindBadInput, msgInvalidURL, err)
		}

		created, err := s.repo.Create(ctx, record)
		if errors.Is(err, domain.ErrShortCodeExists) {
			// Another writer claimed the code between lookup and insert.
			s.metrics.IncShortCodeCollisions()
			log.Debug("Short code taken on insert", "short_code", code, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, s.internal(ctx, "create url", err)
		}

		cached := created.Clone()
		cached.Clicks = 0
		cached.ExpiresAt = expiresAt
		s.cache.Set(cached)
		s.metrics.IncURLsCreated()

		log.Info("Created short URL", "short_code", code, "original_url", req.OriginalURL)
		return &ShortenResponse{
			ShortCode:   code,
			ShortURL:    s.cfg.BaseURL + "/" + code,
			OriginalURL: req.OriginalURL,
			ExpiresAt:   expiresAt,
		}, nil
	}

	log.Warn("Exhausted short code attempts", "attempts", s.cfg.MaxCollisionRetries+1)
	return nil, domain.NewError(domain.KindUnavailable, msgNoUniqueCode, nil)
}

// Resolve returns the original URL for shortCode and records the visit.
// The click increment is awaited; its failure fails the resolve.
func (s *URLService) Resolve(ctx context.Context, shortCode string) (string, error) {
	if cached, ok := s.cache.Get(shortCode); ok {
		if cached.IsExpired(s.now()) {
			s.metrics.IncURLsExpired()
			return "", domain.NewError(domain.KindExpired, msgExpired, nil)
		}

		if err := s.repo.IncrementClicks(ctx, cached.ID); err != nil {
			return "", s.internal(ctx, "increment clicks", err)
		}
		s.metrics.IncURLsRedirected()
		return cached.OriginalURL, nil
	}

	record, err := s.lookup(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrURLNotFound) {
			return "", domain.NewError(domain.KindNotFound, msgNotFound, err)
		}
		return "", s.internal(ctx, "find url", err)
	}

	if record.IsExpired(s.now()) {
		s.metrics.IncURLsExpired()
		return "", domain.NewError(domain.KindExpired, msgExpired, nil)
	}

	s.cache.Set(record)

	if err := s.repo.IncrementClicks(ctx, record.ID); err != nil {
		return "", s.internal(ctx, "increment clicks", err)
	}
	s.metrics.IncURLsRedirected()
	return record.OriginalURL, nil
}

// Stats reads a record straight from the repository without touching the
// cache or the click counter.
func (s *URLService) Stats(ctx context.Context, shortCode string) (*domain.URL, error) {
	record, err := s.repo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, domain.ErrURLNotFound) {
			return nil, domain.NewError(domain.KindNotFound, msgNotFound, err)
		}
		return nil, s.internal(ctx, "find url", err)
	}
	return record, nil
}

// lookup collapses concurrent cache misses for the same code into a single
// repository query. Each caller gets its own copy of the record.
func (s *URLService) lookup(ctx context.Context, shortCode string) (*domain.URL, error) {
	v, err, _ := s.lookups.Do(shortCode, func() (interface{}, error) {
		return s.repo.FindByShortCode(ctx, shortCode)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.URL).Clone(), nil
}

func (s *URLService) internal(ctx context.Context, op string, err error) error {
	logging.FromContextOr(ctx, s.logger).Error("URL service failure", "operation", op, "error", err)
	return domain.NewError(domain.KindInternal, msgInternalFailure, err)
}

func validationMessage(err error) string {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			if e.Field() == "originalUrl" {
				return msgInvalidURL
			}
		}
		return msgInvalidTTL
	}
	return msgInvalidURL
}

// newValidator reports field errors under their JSON names so callers can
// return them to clients as-is.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func isHTTPURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return scheme == "http" || scheme == "https"
}
