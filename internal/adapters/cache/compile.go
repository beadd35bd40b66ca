// Package cache keeps compiled stylesheets in memory and compiles each one at most once.
package cache

import (
	"context"
	"time"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
)

// Deps groups the collaborators shared by every cache flavour.
type Deps struct {
	Transformer   ports.Transformer
	PostProcessor ports.PostProcessor
	Metrics       ports.Metrics
	Logger        ports.Logger
	Tracer        ports.Tracer
}

// compile runs the transformer and the post-processing pipeline for one key.
func (d *Deps) compile(ctx context.Context, key domain.CacheKey) ([]byte, error) {
	ctx, span := d.Tracer.Start(ctx, "cache.compile")
	defer span.End()
	span.SetAttribute("path", key.String())

	start := time.Now()
	css, err := d.Transformer.Transform(ctx, key.String())
	if err == nil {
		css, err = d.PostProcessor.Process(ctx, css)
	}
	d.Metrics.Compiled(time.Since(start), err)

	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttribute("bytes", len(css))
	return css, nil
}
