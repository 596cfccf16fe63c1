package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const generationPrefix = "generation:"

// Memoizer reads through a Store, loading and storing values on a miss.
// Cache failures are logged and never fail the caller; errors from the loader
// are returned as-is and nothing is cached for them.
//
// Keys are grouped into scopes: the text up to and including the first colon
// ("transportations:" for "transportations:from:IST"). Every scope has a
// generation counter held in the store, and entries are written under
// "<key>#<generation>". InvalidateScope bumps the counter, so a load that
// started before an invalidation can only write an entry no reader asks for.
type Memoizer struct {
	store  Store
	ttl    time.Duration
	flight singleflight.Group
	logger *zap.Logger
}

// NewMemoizer creates a Memoizer with a fixed entry TTL.
func NewMemoizer(store Store, ttl time.Duration, logger *zap.Logger) *Memoizer {
	return &Memoizer{store: store, ttl: ttl, logger: logger}
}

func scopeOf(key string) string {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i+1]
	}
	return ""
}

func entryKey(key string, generation int64) string {
	return fmt.Sprintf("%s#%d", key, generation)
}

func (m *Memoizer) generation(ctx context.Context, scope string) (int64, error) {
	var gen int64
	if _, err := m.store.Get(ctx, generationPrefix+scope, &gen); err != nil {
		return 0, err
	}
	return gen, nil
}

// Memoize returns the cached value for key or calls load and caches its result.
// Concurrent misses on the same key share one call to load, which runs detached
// from any single caller's cancellation; each caller still stops waiting when
// its own ctx is done.
func Memoize[T any](ctx context.Context, m *Memoizer, key string, load func(ctx context.Context) (T, error)) (T, error) {
	scope := scopeOf(key)
	gen, err := m.generation(ctx, scope)
	if err != nil {
		m.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		return load(ctx)
	}

	entry := entryKey(key, gen)
	var cached T
	found, err := m.store.Get(ctx, entry, &cached)
	if err != nil {
		m.logger.Warn("cache read failed", zap.String("key", entry), zap.Error(err))
	} else if found {
		return cached, nil
	}

	ch := m.flight.DoChan(entry, func() (interface{}, error) {
		shared := context.WithoutCancel(ctx)
		loaded, err := load(shared)
		if err != nil {
			return loaded, err
		}
		m.storeUnlessRetired(shared, scope, gen, entry, loaded)
		return loaded, nil
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// storeUnlessRetired writes value under entry unless scope was invalidated during the load.
func (m *Memoizer) storeUnlessRetired(ctx context.Context, scope string, gen int64, entry string, value interface{}) {
	current, err := m.generation(ctx, scope)
	if err != nil {
		m.logger.Warn("cache read failed", zap.String("scope", scope), zap.Error(err))
		return
	}
	if current != gen {
		return
	}
	if err := m.store.Set(ctx, entry, value, m.ttl); err != nil {
		m.logger.Warn("cache write failed", zap.String("key", entry), zap.Error(err))
	}
}

// InvalidateScope retires every entry of scope: the generation is bumped first so
// in-flight loads cannot repopulate it, then the old entries are deleted.
func (m *Memoizer) InvalidateScope(ctx context.Context, scope string) {
	if _, err := m.store.Incr(ctx, generationPrefix+scope); err != nil {
		m.logger.Error("cache generation bump failed", zap.String("scope", scope), zap.Error(err))
	}
	if err := m.store.DeletePrefix(ctx, scope); err != nil {
		m.logger.Error("cache invalidation failed", zap.String("scope", scope), zap.Error(err))
	}
}
