package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiterAllow(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
	assert.True(t, l.Allow("5.6.7.8"), "buckets are per key")

	now = now.Add(1500 * time.Millisecond)
	assert.True(t, l.Allow("1.2.3.4"))
	assert.False(t, l.Allow("1.2.3.4"))
}

func TestLimiterPrune(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	l := New(2, 1)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Prune()
	assert.Len(t, l.m, 1)

	now = now.Add(5 * time.Second)
	l.Prune()
	assert.Empty(t, l.m)
}

func TestLimiterPrunesWhenCrowded(t *testing.T) {
	now := time.Date(2024, 6, 3, 10, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return now }
	l.pruneAt = 2

	l.Allow("a")
	l.Allow("b")
	now = now.Add(2 * time.Second)
	assert.True(t, l.Allow("c"))
	assert.Len(t, l.m, 1, "refilled buckets are swept before adding a new client")
}
