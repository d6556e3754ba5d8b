package lru

import "time"

type options struct {
	now        func() time.Time
	onEvict    func(key string, reason EvictReason)
	sweepEvery time.Duration
}

// Option customises a Cache.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithOnEvict registers fn to be called after an entry is evicted for
// capacity or dropped because it expired. Delete and Clear do not fire it.
func WithOnEvict(fn func(key string, reason EvictReason)) Option {
	return func(o *options) {
		o.onEvict = fn
	}
}

// WithSweepInterval starts a goroutine that removes expired entries every d.
// A zero or negative d leaves expiry purely lazy.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) {
		o.sweepEvery = d
	}
}
