package client

import (
	"context"
	"sync"
	"time"
)

// ExpiringCache is a TTL cache with in-flight coalescing: concurrent callers
// of GetOrCompute for one key share a single computation instead of issuing
// redundant network calls. Entries expire strictly by wall clock, never by
// access count.
//
// Used for short-lived memoization such as gas-price estimates.
type ExpiringCache[T any] struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*cacheEntry[T]
}

// cacheEntry is one computed or in-flight value. done is closed when the
// computation finishes; value, err, and expiresAt are valid only after.
type cacheEntry[T any] struct {
	done      chan struct{}
	value     T
	err       error
	expiresAt time.Time
}

// NewExpiringCache creates a cache whose entries live for ttl after their
// computation completes.
func NewExpiringCache[T any](ttl time.Duration) *ExpiringCache[T] {
	return &ExpiringCache[T]{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*cacheEntry[T]),
	}
}

// withClock injects a clock. Test hook.
func (c *ExpiringCache[T]) withClock(now func() time.Time) *ExpiringCache[T] {
	c.now = now
	return c
}

// GetOrCompute returns the cached value for key, or runs compute to produce
// it. While a computation is in flight every caller for the same key blocks
// on that one computation and shares its result. A failed computation is
// shared with its waiters but never cached beyond them.
func (c *ExpiringCache[T]) GetOrCompute(ctx context.Context, key string, compute func(context.Context) (T, error)) (T, error) {
	c.mu.Lock()
	if entry, ok := c.entries[key]; ok {
		select {
		case <-entry.done:
			// Computed. Serve it unless expired.
			if c.now().Before(entry.expiresAt) {
				c.mu.Unlock()
				return entry.value, entry.err
			}
		default:
			// In flight: wait for the shared computation.
			c.mu.Unlock()
			select {
			case <-entry.done:
				return entry.value, entry.err
			case <-ctx.Done():
				var zero T
				return zero, ctx.Err()
			}
		}
	}

	entry := &cacheEntry[T]{done: make(chan struct{})}
	c.entries[key] = entry
	c.mu.Unlock()

	value, err := compute(ctx)

	c.mu.Lock()
	entry.value, entry.err = value, err
	entry.expiresAt = c.now().Add(c.ttl)
	if err != nil {
		// Errors serve current waiters only; the next caller recomputes.
		delete(c.entries, key)
	}
	close(entry.done)
	c.mu.Unlock()

	return value, err
}

// Invalidate drops the cached value for key, if any. An in-flight
// computation is left to finish for its current waiters.
func (c *ExpiringCache[T]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry, ok := c.entries[key]; ok {
		select {
		case <-entry.done:
			delete(c.entries, key)
		default:
		}
	}
}
