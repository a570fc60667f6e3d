// Package cache memoizes read-heavy backend fetches per resource key.
// Concurrent callers for the same key share one underlying request, and a
// failed fetch is never remembered: the next caller starts fresh.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kedikian/admin-gateway/internal/api/metrics"
	"github.com/kedikian/admin-gateway/internal/core/domain"
)

const (
	defaultFetchTimeout = 15 * time.Second
	defaultRetries      = 2
)

// FetchFunc loads the value for a key from the backend.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Cache is a keyed single-flight memo over an asynchronous fetch. The owning
// service must call Invalidate after any mutation that could change the
// underlying resource.
type Cache[T any] struct {
	timeout time.Duration
	retries int

	group singleflight.Group

	mu       sync.RWMutex
	resolved map[string]T
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	timeout time.Duration
	retries int
}

// WithTimeout bounds a single fetch attempt.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRetries sets how many additional attempts follow a failed fetch.
func WithRetries(n int) Option {
	return func(o *options) { o.retries = n }
}

func New[T any](opts ...Option) *Cache[T] {
	o := options{timeout: defaultFetchTimeout, retries: defaultRetries}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[T]{
		timeout:  o.timeout,
		retries:  o.retries,
		resolved: make(map[string]T),
	}
}

// Get returns the memoized value for key, or runs fetch (once, shared across
// concurrent callers) with the configured timeout and bounded retries. A
// fetch that still fails after the retries is reported as
// domain.ErrFetchFailed and leaves no entry behind.
func (c *Cache[T]) Get(ctx context.Context, key string, fetch FetchFunc[T]) (T, error) {
	c.mu.RLock()
	if v, ok := c.resolved[key]; ok {
		c.mu.RUnlock()
		metrics.CacheRequestsTotal.WithLabelValues("hit").Inc()
		return v, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Re-check under the flight: another caller may have resolved the key
		// between the read above and this flight starting.
		c.mu.RLock()
		if v, ok := c.resolved[key]; ok {
			c.mu.RUnlock()
			return v, nil
		}
		c.mu.RUnlock()

		val, err := c.fetchWithRetry(ctx, fetch)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.resolved[key] = val
		c.mu.Unlock()
		return val, nil
	})

	// Forget the flight either way: resolved values are served from the memo
	// map, and failures must not be replayed to later callers.
	c.group.Forget(key)

	if err != nil {
		metrics.CacheRequestsTotal.WithLabelValues("error").Inc()
		var zero T
		return zero, err
	}
	metrics.CacheRequestsTotal.WithLabelValues("miss").Inc()
	return v.(T), nil
}

func (c *Cache[T]) fetchWithRetry(ctx context.Context, fetch FetchFunc[T]) (T, error) {
	var (
		val     T
		lastErr error
	)
	for attempt := 0; attempt <= c.retries; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		val, lastErr = fetch(attemptCtx)
		cancel()

		if lastErr == nil {
			return val, nil
		}
		if ctx.Err() != nil {
			break
		}
	}
	var zero T
	return zero, fmt.Errorf("%w: %w", domain.ErrFetchFailed, lastErr)
}

// Invalidate drops the entry for key.
func (c *Cache[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.resolved, key)
	c.mu.Unlock()
}

// InvalidateAll drops every entry.
func (c *Cache[T]) InvalidateAll() {
	c.mu.Lock()
	c.resolved = make(map[string]T)
	c.mu.Unlock()
}
