package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

const lastKnownPrefix = "last:"

// Observer receives read-through outcomes per key namespace.
type Observer interface {
	CacheHit(namespace string)
	CacheMiss(namespace string)
}

// Loader is a read-through TTL cache over a Service. Concurrent misses on the
// same key share one load. Every successful load is also kept under a
// last-known key that outlives the TTL so callers can serve stale data when
// the source fails.
type Loader struct {
	store    Service
	group    singleflight.Group
	keepLast time.Duration
	observer Observer
}

func NewLoader(store Service, opts ...LoaderOption) *Loader {
	cfg := &LoaderConfig{KeepLast: 7 * 24 * time.Hour}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Loader{
		store:    store,
		keepLast: cfg.KeepLast,
		observer: cfg.Observer,
	}
}

// Store exposes the backing cache.
func (l *Loader) Store() Service {
	return l.store
}

// GetOrLoad returns the cached value for key, or runs load, stores the result for ttl and returns it.
// Load errors are returned as-is and nothing is stored. The shared load is detached
// from any single caller's cancellation; a caller whose ctx ends stops waiting with ctx.Err().
func GetOrLoad[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var zero, cached T
	if err := l.store.Get(ctx, key, &cached); err == nil {
		l.hit(key)
		return cached, nil
	}
	l.miss(key)

	ch := l.group.DoChan(key, func() (interface{}, error) {
		lctx := context.WithoutCancel(ctx)
		value, err := load(lctx)
		if err != nil {
			return nil, err
		}
		_ = l.store.Set(lctx, key, value, ttl)
		if l.keepLast > 0 {
			_ = l.store.Set(lctx, lastKnownPrefix+key, value, l.keepLast)
		}
		return value, nil
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		out, _ := res.Val.(T)
		return out, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// LastKnown returns the most recent successful load for key, even past its TTL.
func LastKnown[T any](ctx context.Context, l *Loader, key string) (T, bool) {
	var value T
	if err := l.store.Get(ctx, lastKnownPrefix+key, &value); err != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Remember stores value as both fresh and last-known without going through a load.
func Remember[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, value T) error {
	if err := l.store.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	if l.keepLast > 0 {
		return l.store.Set(ctx, lastKnownPrefix+key, value, l.keepLast)
	}
	return nil
}

// Invalidate drops the fresh entry for key, keeping the last-known copy.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	err := l.store.Delete(ctx, key)
	if errors.Is(err, ErrCacheMiss) {
		return nil
	}
	return err
}

func (l *Loader) hit(key string) {
	if l.observer != nil {
		l.observer.CacheHit(Namespace(key))
	}
}

func (l *Loader) miss(key string) {
	if l.observer != nil {
		l.observer.CacheMiss(Namespace(key))
	}
}
