package lru

import "time"

func (c *Cache[V]) sweepLoop() {
	defer close(c.done)

	ticker := time.NewTicker(c.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

// Sweep removes every expired entry and returns how many were dropped. It
// is O(n) in the number of entries.
func (c *Cache[V]) Sweep() int {
	now := c.now()

	c.mu.Lock()
	var expired []string
	for el := c.order.Back(); el != nil; {
		prev := el.Prev()
		e := el.Value.(*entry[V])
		if !e.expiresAt.After(now) {
			expired = append(expired, e.key)
			c.removeLocked(el)
			c.stats.Expirations++
		}
		el = prev
	}
	c.mu.Unlock()

	for _, key := range expired {
		c.notify(key, EvictExpired)
	}
	return len(expired)
}
