// Package cache keeps role-scoped lists fetched from the backend so that
// repeated page, sort and filter requests do not refetch them.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"slices"
	"sync"
	"time"

	"github.com/megomed/marketplace/internal/observability/metrics"
	gocache "github.com/patrickmn/go-cache"
)

const defaultListTTL = 30 * time.Second

// ListCache caches one list per key. A fetch that started before an
// Invalidate never repopulates the cache.
type ListCache[T any] struct {
	kind    string
	ttl     func() time.Duration
	store   *gocache.Cache
	metrics *metrics.Metrics

	mu          sync.Mutex
	generations map[string]uint64
}

// NewListCache reads ttl on every store so config reloads apply immediately.
func NewListCache[T any](kind string, ttl func() time.Duration, m *metrics.Metrics) *ListCache[T] {
	if ttl == nil {
		ttl = func() time.Duration { return defaultListTTL }
	}
	return &ListCache[T]{
		kind:        kind,
		ttl:         ttl,
		store:       gocache.New(defaultListTTL, time.Minute),
		metrics:     m,
		generations: make(map[string]uint64),
	}
}

// Load returns the cached list for key or fetches and stores it.
func (c *ListCache[T]) Load(ctx context.Context, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	if cached, ok := c.store.Get(key); ok {
		c.metrics.RecordListCache(c.kind, true)
		return slices.Clone(cached.([]T)), nil
	}
	c.metrics.RecordListCache(c.kind, false)

	generation := c.generation(key)
	items, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generations[key] == generation {
		if ttl := c.ttl(); ttl > 0 {
			c.store.Set(key, slices.Clone(items), ttl)
		}
	}
	c.mu.Unlock()
	return items, nil
}

// Refetch drops the cached list and loads it again.
func (c *ListCache[T]) Refetch(ctx context.Context, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	c.Invalidate(key)
	return c.Load(ctx, key, fetch)
}

func (c *ListCache[T]) Invalidate(key string) {
	c.mu.Lock()
	c.generations[key]++
	c.store.Delete(key)
	c.mu.Unlock()
}

func (c *ListCache[T]) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.generations[key]
}

// Key scopes a cached list to one session without keeping the raw token.
func Key(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
