package cache

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

var _ ports.CompileCache = (*Cache)(nil)

type entry struct {
	css    []byte
	digest uint64
}

// Cache implements ports.CompileCache.
//
// Entries are only ever written by a successful compilation. Concurrent misses
// for one key are collapsed into a single compilation whose result every
// waiter receives. Returned slices are shared and must not be modified.
type Cache struct {
	deps Deps

	mu      sync.RWMutex
	entries map[domain.CacheKey]entry

	group singleflight.Group

	// generation advances whenever RecomputeAll starts. A compilation that
	// overlaps an advance may have read an outdated source.
	generation atomic.Uint64
}

// maxCompileAttempts bounds recompilation of a miss that keeps racing invalidations.
const maxCompileAttempts = 3

// New creates an empty Cache.
func New(deps Deps) *Cache {
	return &Cache{
		deps:    deps,
		entries: make(map[domain.CacheKey]entry),
	}
}

// GetOrCompute returns the cached output for key, compiling it on a miss.
//
// The compilation is detached from the caller's cancellation so that one
// departing waiter cannot fail the others; a cancelled caller stops waiting
// and the result is still stored.
func (c *Cache) GetOrCompute(ctx context.Context, key domain.CacheKey) ([]byte, error) {
	if css, ok := c.lookup(key); ok {
		c.deps.Metrics.CacheHit()
		return css, nil
	}
	c.deps.Metrics.CacheMiss()

	compileCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		// Another flight may have finished between the lookup and this call.
		if css, ok := c.lookup(key); ok {
			return css, nil
		}
		return c.compileMiss(compileCtx, key)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil //nolint:forcetypeassert // only []byte is stored
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// compileMiss compiles key and stores the result unless an invalidation began
// meanwhile, in which case it compiles again.
func (c *Cache) compileMiss(ctx context.Context, key domain.CacheKey) ([]byte, error) {
	var css []byte
	for range maxCompileAttempts {
		gen := c.generation.Load()
		var err error
		css, err = c.deps.compile(ctx, key)
		if err != nil {
			return nil, err
		}
		if c.storeAt(key, css, gen) {
			return css, nil
		}
	}
	// Still racing; serve the latest result without keeping it.
	return css, nil
}

// RecomputeAll recompiles every cached key and replaces its entry.
// Keys that fail are evicted so the next request reports the failure.
func (c *Cache) RecomputeAll(ctx context.Context) error {
	ctx, span := c.deps.Tracer.Start(ctx, "cache.recompute_all")
	defer span.End()

	// Advance before the snapshot: misses in flight either land in it or retry.
	c.generation.Add(1)
	keys := c.Keys()
	span.SetAttribute("keys", len(keys))

	var errs error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return errors.Join(errs, err)
		}

		css, err := c.deps.compile(ctx, key)
		if err != nil {
			c.evict(key)
			err = zerr.With(zerr.Wrap(err, "recompilation failed"), "path", key.String())
			c.deps.Logger.Error(err)
			errs = errors.Join(errs, err)
			continue
		}

		if changed := c.store(key, css); changed {
			c.deps.Logger.Info("recompiled " + key.String())
		} else {
			c.deps.Logger.Info("unchanged " + key.String())
		}
	}

	c.deps.Metrics.Invalidated(len(keys))
	if errs != nil {
		span.RecordError(errs)
	}
	return errs
}

// Keys returns the cached keys ordered by path.
func (c *Cache) Keys() []domain.CacheKey {
	c.mu.RLock()
	keys := make([]domain.CacheKey, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	c.mu.RUnlock()

	slices.SortFunc(keys, func(a, b domain.CacheKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) lookup(key domain.CacheKey) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return e.css, ok
}

// store replaces the entry for key and reports whether its content changed.
func (c *Cache) store(key domain.CacheKey, css []byte) bool {
	digest := xxhash.Sum64(css)

	c.mu.Lock()
	defer c.mu.Unlock()
	prev, existed := c.entries[key]
	c.entries[key] = entry{css: css, digest: digest}
	return !existed || prev.digest != digest
}

// storeAt stores css only while the generation is still gen.
func (c *Cache) storeAt(key domain.CacheKey, css []byte, gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation.Load() != gen {
		return false
	}
	c.entries[key] = entry{css: css, digest: xxhash.Sum64(css)}
	return true
}

func (c *Cache) evict(key domain.CacheKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}
