// Package reqcache caches the results of remote reads. Concurrent fetches of
// the same key share one call, successes live for the configured TTL and
// failures are remembered for a shorter error TTL so a failing endpoint is
// not hammered.
package reqcache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"
)

// Config sets the cache lifetimes.
type Config struct {
	// TTL is how long a successful result is served.
	TTL time.Duration `mapstructure:"ttl" validate:"gte=0"`

	// ErrorTTL is how long a failure is served before the fetch is retried.
	// Zero disables error caching.
	ErrorTTL time.Duration `mapstructure:"error_ttl" validate:"gte=0"`

	// MaxEntries bounds the number of stored keys; the oldest are evicted
	// first. Zero means unbounded.
	MaxEntries int `mapstructure:"max_entries" validate:"gte=0"`
}

// Hooks observe cache traffic. Each callback receives the scope of the key,
// the part before the first colon.
type Hooks struct {
	OnHit    func(scope string)
	OnMiss   func(scope string)
	OnError  func(scope string)
	OnShared func(scope string)
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithHooks installs metrics hooks.
func WithHooks(h Hooks) Option {
	return func(c *Cache) { c.hooks = h }
}

type entry struct {
	value     any
	err       error
	expiresAt time.Time
}

// Cache is a TTL cache with in-flight de-duplication. The zero value is not
// usable; construct one with New and share it by reference.
type Cache struct {
	mu    sync.Mutex
	items map[string]*entry
	order []string
	cfg   Config
	now   func() time.Time
	hooks Hooks
	sf    singleflight.Group
}

// New creates a cache.
func New(cfg Config, opts ...Option) *Cache {
	c := &Cache{
		items: make(map[string]*entry),
		order: make([]string, 0, 64),
		cfg:   cfg,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key builds the request signature scope:url:paramsJSON:extraJSON. Nil
// params or extra encode as {}. Map keys are encoded in sorted order, so
// equal maps always produce equal keys.
func Key(scope, url string, params, extra any) string {
	return scope + ":" + url + ":" + encodeKeyPart(params) + ":" + encodeKeyPart(extra)
}

func encodeKeyPart(v any) string {
	if v == nil {
		return "{}"
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}

// Get returns the live successful value stored under key.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.live(key)
	if !ok || e.err != nil {
		return nil, false
	}
	return e.value, true
}

// Set stores value under key for ttl. A ttl of zero or less falls back to
// the configured TTL.
func (c *Cache) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.cfg.TTL
	}
	c.put(key, &entry{value: value, expiresAt: c.now().Add(ttl)})
}

// Invalidate removes key and reports whether it was present.
func (c *Cache) Invalidate(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.items[key]; !ok {
		return false
	}
	c.remove(key)
	return true
}

// InvalidatePrefix removes every key starting with prefix and returns how
// many were removed.
func (c *Cache) InvalidatePrefix(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var victims []string
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			victims = append(victims, key)
		}
	}
	for _, key := range victims {
		c.remove(key)
	}
	return len(victims)
}

// Len returns the number of stored entries, expired ones included until
// they are next touched.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Fetch returns the cached result for key, calling fn on a miss. A cached
// failure younger than the error TTL is returned without calling fn.
// Concurrent callers with the same key share a single fn call. The call runs
// detached from ctx's cancellation, so every waiter receives its eventual
// outcome.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	scope := scopeOf(key)

	c.mu.Lock()
	e, ok := c.live(key)
	c.mu.Unlock()
	if ok {
		if e.err != nil {
			c.hook(c.hooks.OnHit, scope)
			return zero, e.err
		}
		if v, isT := e.value.(T); isT {
			c.hook(c.hooks.OnHit, scope)
			return v, nil
		}
	}

	c.hook(c.hooks.OnMiss, scope)
	detached := context.WithoutCancel(ctx)
	v, err, shared := c.sf.Do(key, func() (any, error) {
		v, err := fn(detached)
		if err != nil {
			c.hook(c.hooks.OnError, scope)
			if c.cfg.ErrorTTL > 0 {
				c.put(key, &entry{err: err, expiresAt: c.now().Add(c.cfg.ErrorTTL)})
			}
			return nil, err
		}
		c.put(key, &entry{value: v, expiresAt: c.now().Add(c.cfg.TTL)})
		return v, nil
	})
	if shared {
		c.hook(c.hooks.OnShared, scope)
	}
	if err != nil {
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// live returns the unexpired entry for key, dropping it if it has expired.
// The caller must hold c.mu.
func (c *Cache) live(key string) (*entry, bool) {
	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		c.remove(key)
		return nil, false
	}
	return e, true
}

func (c *Cache) put(key string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.items[key]; !exists {
		c.order = append(c.order, key)
	}
	c.items[key] = e
	c.evictIfNeeded()
}

// remove deletes key. The caller must hold c.mu.
func (c *Cache) remove(key string) {
	delete(c.items, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			return
		}
	}
}

// evictIfNeeded drops the oldest keys beyond MaxEntries. The caller must
// hold c.mu.
func (c *Cache) evictIfNeeded() {
	if c.cfg.MaxEntries <= 0 {
		return
	}
	for len(c.items) > c.cfg.MaxEntries && len(c.order) > 0 {
		victim := c.order[0]
		c.order = c.order[1:]
		delete(c.items, victim)
	}
}

func (c *Cache) hook(fn func(string), scope string) {
	if fn != nil {
		fn(scope)
	}
}

func scopeOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i]
	}
	return key
}
