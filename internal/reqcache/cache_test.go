package reqcache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func TestKey(t *testing.T) {
	assert.Equal(t, "analytics:/analytics/daily:{}:{}", Key("analytics", "/analytics/daily", nil, nil))
	assert.Equal(t,
		`analytics:/x:{"a":1,"b":2}:{"token":"t"}`,
		Key("analytics", "/x", map[string]int{"b": 2, "a": 1}, map[string]string{"token": "t"}),
	)
	assert.Equal(t,
		Key("s", "/u", map[string]any{"days": 30, "limit": 5}, nil),
		Key("s", "/u", map[string]any{"limit": 5, "days": 30}, nil),
		"map order must not change the key",
	)
}

func TestCacheSetGetExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute}, WithClock(clock.Now))

	c.Set("a", "value", 0)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "value", v)

	clock.Advance(59 * time.Second)
	_, ok = c.Get("a")
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok, "entry expires at exactly TTL")
	assert.Equal(t, 0, c.Len())
}

func TestCacheInvalidate(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	c.Set("a", 1, 0)
	assert.True(t, c.Invalidate("a"))
	assert.False(t, c.Invalidate("a"))
}

func TestCacheInvalidatePrefix(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	c.Set("analytics:/daily:{}:{}", 1, 0)
	c.Set("analytics:/hourly:{}:{}", 2, 0)
	c.Set("profile:/me:{}:{}", 3, 0)

	assert.Equal(t, 2, c.InvalidatePrefix("analytics:"))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("profile:/me:{}:{}")
	assert.True(t, ok, "non-matching key must survive")
	assert.Equal(t, 0, c.InvalidatePrefix("analytics:"))
}

func TestCacheMaxEntriesEvictsOldest(t *testing.T) {
	c := New(Config{TTL: time.Minute, MaxEntries: 2})
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestFetchCachesSuccess(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute}, WithClock(clock.Now))
	var calls int
	fn := func(context.Context) (int, error) {
		calls++
		return calls * 10, nil
	}

	v, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 10, v)
	assert.Equal(t, 1, calls)

	clock.Advance(time.Minute)
	v, err = Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 20, v)
}

func TestFetchDeduplicatesConcurrentCalls(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "shared", nil
	}

	const callers = 8
	var started, done sync.WaitGroup
	results := make([]string, callers)
	started.Add(callers)
	done.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			v, err := Fetch(context.Background(), c, "k", fn)
			if err == nil {
				results[i] = v
			}
		}(i)
	}
	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestFetchErrorTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(Config{TTL: time.Minute, ErrorTTL: 10 * time.Second}, WithClock(clock.Now))
	boom := errors.New("boom")
	var calls int
	fn := func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, boom
		}
		return 7, nil
	}

	_, err := Fetch(context.Background(), c, "k", fn)
	require.ErrorIs(t, err, boom)

	clock.Advance(9 * time.Second)
	_, err = Fetch(context.Background(), c, "k", fn)
	require.ErrorIs(t, err, boom, "error is served until the error TTL passes")
	assert.Equal(t, 1, calls)

	_, ok := c.Get("k")
	assert.False(t, ok, "Get never returns a cached failure")

	clock.Advance(time.Second)
	v, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, 2, calls)
}

func TestFetchWithoutErrorTTLRetries(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	var calls int
	fn := func(context.Context) (int, error) {
		calls++
		return 0, errors.New("down")
	}
	_, _ = Fetch(context.Background(), c, "k", fn)
	_, _ = Fetch(context.Background(), c, "k", fn)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 0, c.Len())
}

func TestFetchIgnoresCallerCancellation(t *testing.T) {
	c := New(Config{TTL: time.Minute})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	v, err := Fetch(ctx, c, "k", func(ctx context.Context) (int, error) {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 3, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(Config{TTL: time.Minute}, WithHooks(PrometheusHooks(reg)))

	ok := func(context.Context) (int, error) { return 1, nil }
	fail := func(context.Context) (int, error) { return 0, errors.New("x") }

	_, _ = Fetch(context.Background(), c, Key("analytics", "/a", nil, nil), ok)
	_, _ = Fetch(context.Background(), c, Key("analytics", "/a", nil, nil), ok)
	_, _ = Fetch(context.Background(), c, Key("analytics", "/b", nil, nil), fail)

	assert.Equal(t, 1.0, counterValue(t, reg, "tweetgenie_reqcache_hits_total", "analytics"))
	assert.Equal(t, 2.0, counterValue(t, reg, "tweetgenie_reqcache_misses_total", "analytics"))
	assert.Equal(t, 1.0, counterValue(t, reg, "tweetgenie_reqcache_errors_total", "analytics"))
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, scope string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == "scope" && lp.GetValue() == scope {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
