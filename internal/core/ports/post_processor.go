package ports

import "context"

// PostProcessor rewrites compiled output through external tools.
//
//go:generate mockgen -source=post_processor.go -destination=mocks/mock_post_processor.go -package=mocks
type PostProcessor interface {
	// Process feeds input through every configured stage in order.
	// A stage exiting non-zero yields a *domain.PostProcessError.
	Process(ctx context.Context, input []byte) ([]byte, error)
}
