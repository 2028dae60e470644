package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const defaultMaxEntries = 128

type item[V any] struct {
	value     V
	expiresAt time.Time
}

func (it item[V]) expired(now time.Time) bool {
	return !it.expiresAt.IsZero() && now.After(it.expiresAt)
}

// Memory is a small in-memory TTL cache. It backs the SNS signing
// certificate store, where the working set is a handful of certificate URLs
// and the interesting property is deduplicating concurrent fetches.
type Memory[V any] struct {
	items      map[string]item[V]
	group      singleflight.Group
	mu         sync.Mutex
	defaultTTL time.Duration
	maxEntries int
}

// Option configures a Memory cache.
type Option func(*options)

type options struct {
	defaultTTL time.Duration
	maxEntries int
}

// WithDefaultTTL sets the TTL applied when Set receives a zero duration.
func WithDefaultTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.defaultTTL = d
		}
	}
}

// WithMaxEntries caps the number of cached entries. Default: 128.
func WithMaxEntries(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxEntries = n
		}
	}
}

// New creates an empty Memory cache.
func New[V any](opts ...Option) *Memory[V] {
	o := &options{maxEntries: defaultMaxEntries}
	for _, opt := range opts {
		opt(o)
	}

	return &Memory[V]{
		items:      make(map[string]item[V]),
		defaultTTL: o.defaultTTL,
		maxEntries: o.maxEntries,
	}
}

// Get retrieves a value by key. Returns ErrNotFound when the key is absent
// or expired.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.items[key]
	if !ok || it.expired(time.Now()) {
		delete(m.items, key)
		var zero V
		return zero, ErrNotFound
	}

	return it.value, nil
}

// Set stores a value. A zero ttl uses the configured default; a negative ttl
// means the entry never expires.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.items[key]; !exists && len(m.items) >= m.maxEntries {
		m.evict()
	}

	m.items[key] = item[V]{value: value, expiresAt: expiresAt}
	return nil
}

// Delete removes a key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

// Len reports the number of live entries.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	n := 0
	for _, it := range m.items {
		if !it.expired(now) {
			n++
		}
	}
	return n
}

// GetOrSet returns the cached value for key, or calls fn once to compute it.
// Concurrent callers with the same key share a single fn invocation.
func (m *Memory[V]) GetOrSet(ctx context.Context, key string, fn func(ctx context.Context) (V, time.Duration, error)) (V, error) {
	if v, err := m.Get(ctx, key); err == nil {
		return v, nil
	}

	type result struct {
		val V
		ttl time.Duration
	}

	v, err, _ := m.group.Do(key, func() (any, error) {
		val, ttl, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		return result{val: val, ttl: ttl}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}

	r := v.(result)
	_ = m.Set(ctx, key, r.val, r.ttl)

	return r.val, nil
}

// evict drops expired entries, falling back to removing the entry closest to
// expiry when everything is still live. Caller must hold the mutex.
func (m *Memory[V]) evict() {
	now := time.Now()
	for key, it := range m.items {
		if it.expired(now) {
			delete(m.items, key)
		}
	}

	if len(m.items) < m.maxEntries {
		return
	}

	var (
		oldestKey string
		oldestAt  time.Time
		found     bool
	)
	for key, it := range m.items {
		if it.expiresAt.IsZero() {
			continue
		}
		if !found || it.expiresAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = it.expiresAt
			found = true
		}
	}
	if !found {
		// Only never-expiring entries remain. Drop an arbitrary one.
		for key := range m.items {
			oldestKey = key
			break
		}
	}
	delete(m.items, oldestKey)
}
