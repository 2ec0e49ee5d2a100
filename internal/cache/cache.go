// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the freshness window used when no WithTTL option is given.
const DefaultTTL = 5 * time.Minute

// Metrics receives cache events. Implementations must be safe for concurrent
// use.
type Metrics interface {
	Hit(key string)
	Miss(key string)
	Store(key string)
	Invalidate(key string)
}

// NoopMetrics discards every event.
type NoopMetrics struct{}

func (NoopMetrics) Hit(string)        {}
func (NoopMetrics) Miss(string)       {}
func (NoopMetrics) Store(string)      {}
func (NoopMetrics) Invalidate(string) {}

// Entry is a stored value and the time it was stored.
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

// Cache maps keys to the most recently loaded value. A value is fresh while
// now - StoredAt < TTL. Stale entries stay in place until they are replaced
// by a successful load or invalidated.
type Cache[V any] struct {
	mu      sync.Mutex
	entries map[string]Entry[V]

	ttl      time.Duration
	now      func() time.Time
	metrics  Metrics
	coalesce bool
	group    singleflight.Group
}

// Option configures a Cache.
type Option func(*options)

type options struct {
	ttl      time.Duration
	now      func() time.Time
	metrics  Metrics
	coalesce bool
}

// WithTTL sets the freshness window. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now. Tests use it to step time deterministically.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMetrics sets the event sink.
func WithMetrics(m Metrics) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithCoalescing makes concurrent misses for the same key share one load.
// Without it every miss runs its own loader.
func WithCoalescing() Option {
	return func(o *options) {
		o.coalesce = true
	}
}

// New returns an empty cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{
		ttl:     DefaultTTL,
		now:     time.Now,
		metrics: NoopMetrics{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Cache[V]{
		entries:  make(map[string]Entry[V]),
		ttl:      o.ttl,
		now:      o.now,
		metrics:  o.metrics,
		coalesce: o.coalesce,
	}
}

// TTL returns the configured freshness window.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// GetOrFetch returns the cached value for key when it is fresh. Otherwise it
// runs loader, stores the result under key and returns it. A failed load
// stores nothing and leaves any existing entry untouched. The cache lock is
// never held while loader runs.
func (c *Cache[V]) GetOrFetch(
	ctx context.Context,
	key string,
	loader func(context.Context) (V, error),
) (V, error) {
	if v, ok := c.fresh(key); ok {
		c.metrics.Hit(key)
		log.Debugf("cache hit: %s", key)
		return v, nil
	}

	if !c.coalesce {
		c.metrics.Miss(key)
		log.Debugf("cache miss: %s", key)
		return c.load(ctx, key, loader)
	}

	ch := c.group.DoChan(key, func() (any, error) {
		// Another caller may have stored the key while we waited to get here.
		if v, ok := c.fresh(key); ok {
			c.metrics.Hit(key)
			return v, nil
		}
		c.metrics.Miss(key)
		log.Debugf("cache miss: %s", key)
		return c.load(ctx, key, loader)
	})

	select {
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero V
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[V]) load(
	ctx context.Context,
	key string,
	loader func(context.Context) (V, error),
) (V, error) {
	v, err := loader(ctx)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu.Lock()
	c.entries[key] = Entry[V]{Value: v, StoredAt: c.now()}
	c.mu.Unlock()

	c.metrics.Store(key)
	return v, nil
}

func (c *Cache[V]) fresh(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.StoredAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.Value, true
}

// Peek returns the entry stored under key, fresh or not, without loading.
func (c *Cache[V]) Peek(key string) (Entry[V], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	return e, ok
}

// Invalidate removes key. Removing an absent key is a no-op.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	_, ok := c.entries[key]
	delete(c.entries, key)
	c.mu.Unlock()

	if ok {
		c.metrics.Invalidate(key)
	}
}

// InvalidateAll removes every entry.
func (c *Cache[V]) InvalidateAll() {
	c.mu.Lock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	c.entries = make(map[string]Entry[V])
	c.mu.Unlock()

	for _, k := range keys {
		c.metrics.Invalidate(k)
	}
}

// Len reports the number of stored entries, including stale ones.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
