// Package lru implements a bounded, time-aware least-recently-used cache.
//
// A map gives O(1) lookup and a doubly linked list keeps recency order
// (front = most recently used, back = least recently used). Every entry
// carries its own expiry instant, set to now+ttl on each Set. Expiry is
// enforced lazily on Get; an optional sweeper goroutine can reclaim expired
// entries that are never read again.
//
// All state is guarded by a single mutex, so concurrent Get and Set calls can
// never corrupt the recency order or leave more than maxItems entries.
package lru
