package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type point struct {
	TS    string  `json:"ts"`
	Close float64 `json:"close"`
}

func TestMemoryCache_SetGetTyped(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	in := []point{{TS: "2024-01-01", Close: 10}, {TS: "2024-01-02", Close: 11}}
	require.NoError(t, mc.Set(ctx, "history:AAPL", in, time.Minute))

	var out []point
	require.NoError(t, mc.Get(ctx, "history:AAPL", &out))
	assert.Equal(t, in, out)

	var s string
	require.NoError(t, mc.Set(ctx, "plain", "value", 0))
	require.NoError(t, mc.Get(ctx, "plain", &s))
	assert.Equal(t, "value", s)
}

func TestMemoryCache_ConvertsThroughJSON(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "k", map[string]interface{}{"ts": "x", "close": 2.5}, 0))
	var p point
	require.NoError(t, mc.Get(ctx, "k", &p))
	assert.Equal(t, point{TS: "x", Close: 2.5}, p)

	assert.Error(t, mc.Get(ctx, "k", p))
}

func TestMemoryCache_LazyExpiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(WithMemoryClock(clock.Now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "quote:AAPL", 1.5, 30*time.Second))

	clock.Advance(29 * time.Second)
	var v float64
	require.NoError(t, mc.Get(ctx, "quote:AAPL", &v))
	assert.Equal(t, 1.5, v)

	clock.Advance(2 * time.Second)
	assert.ErrorIs(t, mc.Get(ctx, "quote:AAPL", &v), ErrCacheMiss)
	assert.Equal(t, 0, mc.Len())
}

func TestMemoryCache_UnboundedByDefault(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	for i := 0; i < 2000; i++ {
		require.NoError(t, mc.Set(ctx, GenerateKeyWithParams("k", i), i, time.Hour))
	}
	assert.Equal(t, 2000, mc.Len())
}

func TestMemoryCache_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	mc := NewMemoryCache(WithMemoryMaxSize(2), WithMemoryClock(clock.Now))
	defer mc.Close()

	require.NoError(t, mc.Set(ctx, "a", 1, 0))
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "b", 2, 0))
	clock.Advance(time.Second)

	var v int
	require.NoError(t, mc.Get(ctx, "a", &v))
	clock.Advance(time.Second)
	require.NoError(t, mc.Set(ctx, "c", 3, 0))

	ok, err := mc.Exists(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, _ = mc.Exists(ctx, "a", "c")
	assert.True(t, ok)
}

func TestMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	mc := NewMemoryCache()
	defer mc.Close()

	_ = mc.Set(ctx, "quote:AAPL", 1, 0)
	_ = mc.Set(ctx, "quote:MSFT", 2, 0)
	_ = mc.Set(ctx, "news:AAPL", 3, 0)

	require.NoError(t, mc.DeleteByPattern(ctx, "quote:*"))
	assert.Equal(t, 1, mc.Len())
	ok, _ := mc.Exists(ctx, "news:AAPL")
	assert.True(t, ok)
}

func TestNamespace(t *testing.T) {
	assert.Equal(t, "quote", Namespace("quote:us:AAPL"))
	assert.Equal(t, "plain", Namespace("plain"))
	assert.Equal(t, "fx:usd-inr", GenerateKey("fx", "usd-inr"))
}
