package cache

import (
	"log/slog"
	"time"

	"github.com/sp3dr4/wren/internal/domain"
	"github.com/sp3dr4/wren/internal/pkg/lru"
	"github.com/sp3dr4/wren/internal/pkg/metrics"
)

// LRUCache adapts the generic lru.Cache to domain.Cache. Records are copied
// on the way in and out so cached entries are only ever replaced wholesale.
type LRUCache struct {
	store   *lru.Cache[*domain.URL]
	metrics metrics.Registry
	logger  *slog.Logger
}

type LRUConfig struct {
	MaxItems      int
	TTL           time.Duration
	SweepInterval time.Duration
}

func NewLRUCache(cfg LRUConfig, registry metrics.Registry, logger *slog.Logger) (*LRUCache, error) {
	if registry == nil {
		registry = metrics.NewNoOpRegistry()
	}

	c := &LRUCache{metrics: registry, logger: logger}

	store, err := lru.New[*domain.URL](cfg.MaxItems, cfg.TTL,
		lru.WithSweepInterval(cfg.SweepInterval),
		lru.WithOnEvict(c.onEvict),
	)
	if err != nil {
		return nil, err
	}
	c.store = store

	return c, nil
}

func (c *LRUCache) Get(shortCode string) (*domain.URL, bool) {
	url, ok := c.store.Get(shortCode)
	if !ok {
		c.metrics.IncCacheMisses()
		return nil, false
	}
	c.metrics.IncCacheHits()
	return url.Clone(), true
}

func (c *LRUCache) Set(url *domain.URL) {
	if url == nil {
		return
	}
	c.store.Set(url.ShortCode, url.Clone())
	c.metrics.SetCacheSize(c.store.Len())
}

func (c *LRUCache) Delete(shortCode string) {
	c.store.Delete(shortCode)
	c.metrics.SetCacheSize(c.store.Len())
}

func (c *LRUCache) Clear() {
	c.store.Clear()
	c.metrics.SetCacheSize(0)
}

func (c *LRUCache) Len() int {
	return c.store.Len()
}

// Close stops the background sweeper, if one was configured.
func (c *LRUCache) Close() error {
	return c.store.Close()
}

func (c *LRUCache) onEvict(key string, reason lru.EvictReason) {
	c.metrics.IncCacheEvictions(reason.String())
	if c.logger != nil {
		c.logger.Debug("Cache entry evicted", "short_code", key, "reason", reason.String())
	}
}
