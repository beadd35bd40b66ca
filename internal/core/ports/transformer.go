// Package ports defines the core interfaces for the application.
package ports

import "context"

// Transformer compiles one stylesheet source into CSS.
//
// Implementations receive include paths and style options once at
// construction and must be safe to call concurrently for different paths.
//
//go:generate mockgen -source=transformer.go -destination=mocks/mock_transformer.go -package=mocks
type Transformer interface {
	// Transform compiles the source at the absolute path.
	// Failures are reported as domain.ErrTransformFailed.
	Transform(ctx context.Context, path string) ([]byte, error)
}
