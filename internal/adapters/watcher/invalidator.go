package watcher

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
)

// Invalidator recompiles the cache whenever a stylesheet below root changes.
// Any change to a source triggers a full recompilation, because partials can
// be imported from anywhere and the dependency graph is not tracked.
type Invalidator struct {
	watcher ports.Watcher
	cache   ports.CompileCache
	logger  ports.Logger
	root    string
	window  time.Duration

	debouncer *Debouncer
	done      chan struct{}
	stopOnce  sync.Once
}

// NewInvalidator creates an Invalidator. Nothing happens until Start.
func NewInvalidator(
	w ports.Watcher,
	cache ports.CompileCache,
	logger ports.Logger,
	root string,
	window time.Duration,
) *Invalidator {
	return &Invalidator{
		watcher: w,
		cache:   cache,
		logger:  logger,
		root:    root,
		window:  window,
		done:    make(chan struct{}),
	}
}

// Start subscribes to changes below root and processes them in the background.
func (i *Invalidator) Start(ctx context.Context) error {
	if err := i.watcher.Start(ctx, i.root); err != nil {
		return zerr.With(err, "root", i.root)
	}

	i.debouncer = NewDebouncer(i.window, func(paths []string) {
		i.HandleBatch(ctx, paths)
	})

	go func() {
		defer close(i.done)
		for event := range i.watcher.Events() {
			i.debouncer.Add(event.Path)
		}
	}()

	i.logger.Info("watching " + i.root + " for changes")
	return nil
}

// Stop unsubscribes, waits for the event loop to end and drops pending changes.
func (i *Invalidator) Stop() error {
	var err error
	i.stopOnce.Do(func() {
		err = i.watcher.Stop()
		if i.debouncer == nil {
			return
		}
		<-i.done
		i.debouncer.Stop()
	})
	return err
}

// HandleBatch recompiles every cached stylesheet if any path in the batch is a
// source file, or a directory directly holding source files.
func (i *Invalidator) HandleBatch(ctx context.Context, paths []string) {
	if !triggers(paths) {
		return
	}

	n := len(i.cache.Keys())
	i.logger.Info("change detected in " + strconv.Itoa(len(paths)) + " path(s), recompiling " + strconv.Itoa(n) + " stylesheet(s)")

	if err := i.cache.RecomputeAll(ctx); err != nil {
		i.logger.Warn("recompilation finished with errors")
	}
}

func triggers(paths []string) bool {
	for _, path := range paths {
		if domain.HasSourceSuffix(path) || domain.DirContainsSources(path) {
			return true
		}
	}
	return false
}
