package domain

import (
	"errors"
	"time"
)

var (
	ErrURLNotFound      = errors.New("url not found")
	ErrShortCodeExists  = errors.New("short code already exists")
	ErrInvalidURL       = errors.New("invalid url")
	ErrInvalidShortCode = errors.New("invalid short code")
)

// URL is a single shortening as persisted by a URLRepository.
type URL struct {
	ID          int64      `db:"id" json:"id"`
	ShortCode   string     `db:"short_code" json:"shortCode"`
	OriginalURL string     `db:"original_url" json:"originalUrl"`
	Clicks      int64      `db:"clicks" json:"clicks"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	ExpiresAt   *time.Time `db:"expires_at" json:"expiresAt,omitempty"`
}

func NewURL(shortCode, originalURL string, expiresAt *time.Time) (*URL, error) {
	if shortCode == "" {
		return nil, ErrInvalidShortCode
	}
	if originalURL == "" {
		return nil, ErrInvalidURL
	}

	return &URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		Clicks:      0,
		CreatedAt:   time.Now().UTC(),
		ExpiresAt:   expiresAt,
	}, nil
}

// IsExpired reports whether the link has passed its expiry. The expiry instant
// itself counts as expired. A nil ExpiresAt never expires.
func (u *URL) IsExpired(now time.Time) bool {
	if u.ExpiresAt == nil {
		return false
	}
	return !u.ExpiresAt.After(now)
}

// Clone returns a deep copy so callers can hand records across goroutines
// without sharing the ExpiresAt pointer.
func (u *URL) Clone() *URL {
	if u == nil {
		return nil
	}
	c := *u
	if u.ExpiresAt != nil {
		t := *u.ExpiresAt
		c.ExpiresAt = &t
	}
	return &c
}
