package watcher

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/sassy/internal/core/domain"
	"go.trai.ch/sassy/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// shouldSkipDirectories are directories that should not be watched.
var shouldSkipDirectories = map[string]bool{
	".git":         true,
	".jj":          true,
	".sass-cache":  true,
	"node_modules": true,
}

const eventChannelBuffer = 100

// Watcher implements ports.Watcher using fsnotify.
// Only creations and writes are reported.
type Watcher struct {
	logger ports.Logger

	mu        sync.Mutex
	fsWatcher *fsnotify.Watcher
	events    chan ports.WatchEvent
}

// NewWatcher creates a new file system watcher. Nothing is watched until Start.
func NewWatcher(logger ports.Logger) *Watcher {
	return &Watcher{logger: logger}
}

// Start begins watching root and every directory below it.
// A running watcher must be stopped before it can be started again.
func (w *Watcher) Start(ctx context.Context, root string) error {
	w.mu.Lock()
	running := w.fsWatcher != nil
	w.mu.Unlock()
	if running {
		return errors.Join(domain.ErrWatchSubscriptionFailed, zerr.With(zerr.New("watcher already started"), "root", root))
	}

	info, err := os.Stat(root)
	if err != nil {
		return errors.Join(domain.ErrWatchSubscriptionFailed, zerr.With(zerr.Wrap(err, "stat watch root"), "root", root))
	}
	if !info.IsDir() {
		return errors.Join(domain.ErrWatchSubscriptionFailed, zerr.With(zerr.New("watch root is not a directory"), "root", root))
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Join(domain.ErrWatchSubscriptionFailed, err)
	}

	for dir := range watchRecursively(root) {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return errors.Join(domain.ErrWatchSubscriptionFailed, zerr.With(err, "dir", dir))
		}
	}

	events := make(chan ports.WatchEvent, eventChannelBuffer)

	w.mu.Lock()
	if w.fsWatcher != nil {
		w.mu.Unlock()
		_ = fsWatcher.Close()
		return errors.Join(domain.ErrWatchSubscriptionFailed, zerr.With(zerr.New("watcher already started"), "root", root))
	}
	w.fsWatcher = fsWatcher
	w.events = events
	w.mu.Unlock()

	go w.processEvents(ctx, fsWatcher, events)

	return nil
}

// Stop stops the watcher and releases all resources.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsWatcher == nil {
		return nil
	}
	err := w.fsWatcher.Close()
	w.fsWatcher = nil
	return err
}

// Events returns an iterator over the events of the current run.
// It ends when the watcher stops, or at once if it was never started.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	w.mu.Lock()
	events := w.events
	w.mu.Unlock()

	return func(yield func(ports.WatchEvent) bool) {
		if events == nil {
			return
		}
		for event := range events {
			if !yield(event) {
				return
			}
		}
	}
}

// watchRecursively walks the directory tree and yields all directories.
func watchRecursively(root string) iter.Seq[string] {
	return func(yield func(string) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil //nolint:nilerr // unreadable directories are skipped
			}
			if d.IsDir() {
				if path != root && shouldSkipDirectories[d.Name()] {
					return fs.SkipDir
				}
				if !yield(path) {
					return filepath.SkipAll
				}
			}
			return nil
		})
	}
}

func (w *Watcher) processEvents(ctx context.Context, fsWatcher *fsnotify.Watcher, events chan<- ports.WatchEvent) {
	defer close(events)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return
			}

			watchEvent, ok := convertEvent(event)
			if !ok {
				continue
			}

			select {
			case events <- watchEvent:
			case <-ctx.Done():
				return
			}

			// New directories have to be subscribed explicitly.
			if watchEvent.Operation == ports.OpCreate {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !shouldSkipDirectories[info.Name()] {
					for dir := range watchRecursively(event.Name) {
						if err := fsWatcher.Add(dir); err != nil {
							w.logger.Warn("cannot watch new directory " + dir + ": " + err.Error())
						}
					}
				}
			}

		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.logger.Warn("file system event queue overflowed, some changes may have been missed")
				continue
			}
			w.logger.Error(zerr.Wrap(err, "file system watch error"))
		}
	}
}

func convertEvent(event fsnotify.Event) (ports.WatchEvent, bool) {
	switch {
	case event.Has(fsnotify.Write):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpWrite}, true
	case event.Has(fsnotify.Create):
		return ports.WatchEvent{Path: event.Name, Operation: ports.OpCreate}, true
	default:
		return ports.WatchEvent{}, false
	}
}
