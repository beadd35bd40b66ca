package ports

import (
	"net/http"

	"go.trai.ch/sassy/internal/core/domain"
)

// PathResolver maps an incoming request onto a stylesheet source.
//
//go:generate mockgen -source=path_resolver.go -destination=mocks/mock_path_resolver.go -package=mocks
type PathResolver interface {
	// Resolve returns the cache key of the source backing r.
	// ok is false when the request is not a stylesheet request.
	Resolve(r *http.Request) (key domain.CacheKey, ok bool)
}
