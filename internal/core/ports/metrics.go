package ports

import "time"

// Metrics records cache and compilation activity.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// CacheHit counts a lookup served from the cache.
	CacheHit()
	// CacheMiss counts a lookup that had to compile.
	CacheMiss()
	// Compiled records one compilation and its outcome.
	Compiled(d time.Duration, err error)
	// Invalidated counts one invalidation batch that recompiled n keys.
	Invalidated(n int)
}
