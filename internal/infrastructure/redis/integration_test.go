//go:build integration

package redis

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/sp3dr4/wren/internal/domain"
)

func setupRepository(t *testing.T) *URLRepository {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	repo := NewURLRepository(redis.NewClient(&redis.Options{Addr: endpoint}), nil)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.HealthCheck(ctx))
	return repo
}

func TestRedisRepository_Integration(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	url, err := domain.NewURL("abc12345", "https://example.com", nil)
	require.NoError(t, err)

	created, err := repo.Create(ctx, url)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = repo.Create(ctx, url)
	assert.ErrorIs(t, err, domain.ErrShortCodeExists)

	require.NoError(t, repo.IncrementClicks(ctx, created.ID))
	assert.ErrorIs(t, repo.IncrementClicks(ctx, 999), domain.ErrURLNotFound)

	found, err := repo.FindByShortCode(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, int64(1), found.Clicks)
	assert.Equal(t, "https://example.com", found.OriginalURL)

	_, err = repo.FindByShortCode(ctx, "missing0")
	assert.ErrorIs(t, err, domain.ErrURLNotFound)
}

func TestRedisRepository_ConcurrentCreateClaimsOnce(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		rejected int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			url, _ := domain.NewURL("race0000", "https://example.com", nil)
			_, err := repo.Create(ctx, url)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if assert.ErrorIs(t, err, domain.ErrShortCodeExists) {
				rejected++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 19, rejected)
}
