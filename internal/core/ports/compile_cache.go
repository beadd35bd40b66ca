package ports

import (
	"context"

	"go.trai.ch/sassy/internal/core/domain"
)

// CompileCache maps source files to their compiled output.
//
//go:generate mockgen -source=compile_cache.go -destination=mocks/mock_compile_cache.go -package=mocks
type CompileCache interface {
	// GetOrCompute returns the cached output for key, compiling it on a miss.
	// Concurrent misses for the same key share a single compilation.
	// Failures are returned to every waiter and never cached.
	GetOrCompute(ctx context.Context, key domain.CacheKey) ([]byte, error)

	// RecomputeAll recompiles every cached key and replaces its entry.
	// A failing key does not stop the others; the joined failures are returned.
	RecomputeAll(ctx context.Context) error

	// Keys returns a snapshot of the cached keys.
	Keys() []domain.CacheKey
}
