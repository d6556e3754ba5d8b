package cache

import (
	"github.com/sp3dr4/wren/internal/domain"
)

// NoOpCache never stores anything. Used when caching is disabled so every
// resolve goes to the repository.
type NoOpCache struct{}

func NewNoOpCache() *NoOpCache {
	return &NoOpCache{}
}

func (c *NoOpCache) Get(_ string) (*domain.URL, bool) {
	return nil, false
}

func (c *NoOpCache) Set(_ *domain.URL) {}

func (c *NoOpCache) Delete(_ string) {}

func (c *NoOpCache) Clear() {}

func (c *NoOpCache) Len() int {
	return 0
}
