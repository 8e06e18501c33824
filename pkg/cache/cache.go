package cache

import (
  "sync"
  "time"
)

type entry[V any] struct {
  value     V
  expiresAt time.Time
}

// Cache is a map guarded by a mutex whose values expire after ttl. Expired values are dropped on read.
type Cache[K comparable, V any] struct {
  mu     sync.Mutex
  ttl    time.Duration
  now    func() time.Time
  values map[K]entry[V]
}

type Option[K comparable, V any] func(c *Cache[K, V])

// WithClock replaces time.Now, mostly for tests.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
  return func(c *Cache[K, V]) {
    c.now = now
  }
}

func NewCache[K comparable, V any](ttl time.Duration, opts ...Option[K, V]) *Cache[K, V] {
  c := &Cache[K, V]{
    ttl:    ttl,
    now:    time.Now,
    values: make(map[K]entry[V]),
  }
  for _, opt := range opts {
    opt(c)
  }
  return c
}

func (c *Cache[K, V]) Set(key K, value V) {
  c.mu.Lock()
  defer c.mu.Unlock()

  c.values[key] = entry[V]{
    value:     value,
    expiresAt: c.now().Add(c.ttl),
  }
}

func (c *Cache[K, V]) Get(key K) (value V, ok bool) {
  c.mu.Lock()
  defer c.mu.Unlock()

  e, ok := c.values[key]
  if !ok {
    return value, false
  }

  if !c.now().Before(e.expiresAt) {
    delete(c.values, key)
    return value, false
  }

  return e.value, true
}
