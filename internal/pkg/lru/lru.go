package lru

import (
	"container/list"
	"errors"
	"sync"
	"time"
)

var ErrInvalidConfig = errors.New("lru: max items and ttl must be positive")

// EvictReason tells an eviction callback why an entry left the cache.
type EvictReason int

const (
	// EvictCapacity means the entry was the least recently used one when
	// the cache grew past its bound.
	EvictCapacity EvictReason = iota
	// EvictExpired means the entry's ttl elapsed.
	EvictExpired
)

func (r EvictReason) String() string {
	if r == EvictExpired {
		return "expired"
	}
	return "capacity"
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits        uint64
	Misses      uint64
	Evictions   uint64
	Expirations uint64
}

type entry[V any] struct {
	key       string
	value     V
	expiresAt time.Time
}

// Cache maps string keys to values of type V.
type Cache[V any] struct {
	mu sync.Mutex

	maxItems int
	ttl      time.Duration
	items    map[string]*list.Element
	order    *list.List

	now     func() time.Time
	onEvict func(key string, reason EvictReason)
	stats   Stats

	sweepEvery time.Duration
	stop       chan struct{}
	done       chan struct{}
	closeOnce  sync.Once
}

// New builds a cache holding at most maxItems entries, each living for ttl
// after its last Set.
func New[V any](maxItems int, ttl time.Duration, opts ...Option) (*Cache[V], error) {
	if maxItems <= 0 || ttl <= 0 {
		return nil, ErrInvalidConfig
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		maxItems:   maxItems,
		ttl:        ttl,
		items:      make(map[string]*list.Element),
		order:      list.New(),
		now:        o.now,
		onEvict:    o.onEvict,
		sweepEvery: o.sweepEvery,
	}

	if c.sweepEvery > 0 {
		c.stop = make(chan struct{})
		c.done = make(chan struct{})
		go c.sweepLoop()
	}

	return c, nil
}

// Get returns the value stored under key. An entry whose expiry is at or
// before the current time is removed and reported as absent. A hit marks
// the entry most recently used.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	now := c.now()

	c.mu.Lock()
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		c.mu.Unlock()
		return zero, false
	}

	e := el.Value.(*entry[V])
	if !e.expiresAt.After(now) {
		c.removeLocked(el)
		c.stats.Misses++
		c.stats.Expirations++
		c.mu.Unlock()
		c.notify(key, EvictExpired)
		return zero, false
	}

	c.order.MoveToFront(el)
	c.stats.Hits++
	value := e.value
	c.mu.Unlock()

	return value, true
}

// Set inserts or replaces key with a fresh ttl and marks it most recently
// used. If the cache then exceeds its bound, the least recently used entry
// is evicted.
func (c *Cache[V]) Set(key string, value V) {
	expiresAt := c.now().Add(c.ttl)

	c.mu.Lock()
	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[V])
		e.value = value
		e.expiresAt = expiresAt
		c.order.MoveToFront(el)
		c.mu.Unlock()
		return
	}

	c.items[key] = c.order.PushFront(&entry[V]{key: key, value: value, expiresAt: expiresAt})

	var (
		evicted    string
		hasEvicted bool
	)
	if len(c.items) > c.maxItems {
		if back := c.order.Back(); back != nil {
			evicted, hasEvicted = back.Value.(*entry[V]).key, true
			c.removeLocked(back)
			c.stats.Evictions++
		}
	}
	c.mu.Unlock()

	if hasEvicted {
		c.notify(evicted, EvictCapacity)
	}
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.order.Init()
}

// Len includes expired entries that have not been read or swept yet.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Keys returns keys from most to least recently used.
func (c *Cache[V]) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, c.order.Len())
	for el := c.order.Front(); el != nil; el = el.Next() {
		keys = append(keys, el.Value.(*entry[V]).key)
	}
	return keys
}

func (c *Cache[V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// Close stops the sweeper, if any. It is safe to call more than once and
// the cache stays usable afterwards.
func (c *Cache[V]) Close() error {
	c.closeOnce.Do(func() {
		if c.stop != nil {
			close(c.stop)
			<-c.done
		}
	})
	return nil
}

func (c *Cache[V]) removeLocked(el *list.Element) {
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}

// notify runs outside the lock so callbacks may call back into the cache.
func (c *Cache[V]) notify(key string, reason EvictReason) {
	if c.onEvict != nil {
		c.onEvict(key, reason)
	}
}
