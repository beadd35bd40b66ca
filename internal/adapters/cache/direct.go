package cache

import (
	"context"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
)

var _ ports.CompileCache = (*Direct)(nil)

// Direct is the CompileCache used when caching is disabled.
// Every lookup compiles and nothing is retained.
type Direct struct {
	deps Deps
}

// NewDirect creates a Direct compiler.
func NewDirect(deps Deps) *Direct {
	return &Direct{deps: deps}
}

// GetOrCompute compiles key on every call.
func (d *Direct) GetOrCompute(ctx context.Context, key domain.CacheKey) ([]byte, error) {
	d.deps.Metrics.CacheMiss()
	return d.deps.compile(ctx, key)
}

// RecomputeAll has nothing to recompute.
func (d *Direct) RecomputeAll(context.Context) error {
	return nil
}

// Keys is always empty.
func (d *Direct) Keys() []domain.CacheKey {
	return nil
}

// Len is always zero.
func (d *Direct) Len() int {
	return 0
}
