package domain

import "context"

// URLRepository is the durable store behind the cache. It is the source of
// truth for every short code.
type URLRepository interface {
	// Create persists url and returns it with ID and CreatedAt assigned.
	// A duplicate short code yields ErrShortCodeExists.
	Create(ctx context.Context, url *URL) (*URL, error)
	// FindByShortCode returns ErrURLNotFound when no record matches.
	FindByShortCode(ctx context.Context, shortCode string) (*URL, error)
	// IncrementClicks returns ErrURLNotFound for an unknown id.
	IncrementClicks(ctx context.Context, id int64) error
	Close() error
	HealthCheck(ctx context.Context) error
}
