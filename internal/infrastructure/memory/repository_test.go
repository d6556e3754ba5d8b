package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sp3dr4/wren/internal/domain"
)

func TestMemoryRepository_Create(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	url := &domain.URL{ShortCode: "test1234", OriginalURL: "https://example.com", Clicks: 7}

	created, err := repo.Create(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, int64(0), created.Clicks)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, int64(0), url.ID, "input is not mutated")

	_, err = repo.Create(ctx, url)
	assert.ErrorIs(t, err, domain.ErrShortCodeExists)

	second, err := repo.Create(ctx, &domain.URL{ShortCode: "other123", OriginalURL: "https://example.org"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 2, repo.Len())
}

func TestMemoryRepository_FindByShortCode(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	expires := time.Now().Add(time.Hour).UTC()
	_, err := repo.Create(ctx, &domain.URL{ShortCode: "test1234", OriginalURL: "https://example.com", ExpiresAt: &expires})
	require.NoError(t, err)

	found, err := repo.FindByShortCode(ctx, "test1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", found.OriginalURL)
	require.NotNil(t, found.ExpiresAt)
	assert.True(t, expires.Equal(*found.ExpiresAt))

	// Mutating the returned copy does not leak into the store.
	found.OriginalURL = "https://changed.example.com"
	again, err := repo.FindByShortCode(ctx, "test1234")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", again.OriginalURL)

	_, err = repo.FindByShortCode(ctx, "notfound")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}

func TestMemoryRepository_IncrementClicks(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.URL{ShortCode: "test1234", OriginalURL: "https://example.com"})
	require.NoError(t, err)

	require.NoError(t, repo.IncrementClicks(ctx, created.ID))
	require.NoError(t, repo.IncrementClicks(ctx, created.ID))

	found, err := repo.FindByShortCode(ctx, "test1234")
	require.NoError(t, err)
	assert.Equal(t, int64(2), found.Clicks)

	assert.ErrorIs(t, repo.IncrementClicks(ctx, 999), domain.ErrURLNotFound)
}

func TestMemoryRepository_ConcurrentIncrements(t *testing.T) {
	repo := NewURLRepository()
	ctx := context.Background()

	created, err := repo.Create(ctx, &domain.URL{ShortCode: "hot12345", OriginalURL: "https://example.com"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.IncrementClicks(ctx, created.ID)
		}()
	}
	wg.Wait()

	found, err := repo.FindByShortCode(ctx, "hot12345")
	require.NoError(t, err)
	assert.Equal(t, int64(50), found.Clicks)
}

func TestMemoryRepository_HealthCheck(t *testing.T) {
	repo := NewURLRepository()
	assert.NoError(t, repo.HealthCheck(context.Background()))
	assert.NoError(t, repo.Close())
}
