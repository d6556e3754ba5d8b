package memory

import (
	"context"
	"sync"
	"time"

	"github.com/sp3dr4/wren/internal/domain"
)

// URLRepository keeps records in process memory. Records are copied on the
// way in and out so callers never share state with the store.
type URLRepository struct {
	mu     sync.RWMutex
	urls   map[string]*domain.URL
	byID   map[int64]string
	nextID int64
	now    func() time.Time
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		urls: make(map[string]*domain.URL),
		byID: make(map[int64]string),
		now:  time.Now,
	}
}

func (r *URLRepository) Create(ctx context.Context, url *domain.URL) (*domain.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.urls[url.ShortCode]; exists {
		return nil, domain.ErrShortCodeExists
	}

	r.nextID++
	created := url.Clone()
	created.ID = r.nextID
	created.Clicks = 0
	created.CreatedAt = r.now().UTC()

	r.urls[created.ShortCode] = created
	r.byID[created.ID] = created.ShortCode
	return created.Clone(), nil
}

func (r *URLRepository) FindByShortCode(ctx context.Context, shortCode string) (*domain.URL, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	url, exists := r.urls[shortCode]
	if !exists {
		return nil, domain.ErrURLNotFound
	}
	return url.Clone(), nil
}

func (r *URLRepository) IncrementClicks(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	code, exists := r.byID[id]
	if !exists {
		return domain.ErrURLNotFound
	}
	r.urls[code].Clicks++
	return nil
}

// Len reports the number of stored records.
func (r *URLRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.urls)
}

func (r *URLRepository) Close() error {
	return nil
}

func (r *URLRepository) HealthCheck(ctx context.Context) error {
	return nil
}
