package rules

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// BuildFunc rebuilds a complete registry from current catalog sources.
type BuildFunc func() (*Registry, error)

// Watch monitors a catalog directory and swaps a freshly built registry
// into the store whenever a catalog file changes. A rebuild failure keeps
// the previous registry so in-flight and subsequent corrections always
// see a consistent rule set. onSwap (may be nil) runs after each
// successful swap. Watch blocks until the context is cancelled.
func Watch(ctx context.Context, dir string, store *Store, build BuildFunc, onSwap func(*Registry), log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %q: %w", dir, err)
	}
	log.Info("watching rule catalogs", zap.String("dir", dir))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !catalogEvent(event) {
				continue
			}
			reg, err := build()
			if err != nil {
				log.Error("catalog rebuild failed, keeping previous registry",
					zap.String("file", event.Name), zap.Error(err))
				continue
			}
			store.Swap(reg)
			log.Info("registry reloaded",
				zap.String("file", event.Name), zap.String("hash", reg.Hash()))
			if onSwap != nil {
				onSwap(reg)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", zap.Error(err))
		}
	}
}

// catalogEvent reports whether an fsnotify event concerns a catalog file
// in a way that warrants a rebuild.
func catalogEvent(event fsnotify.Event) bool {
	ext := filepath.Ext(event.Name)
	if ext != ".yaml" && ext != ".yml" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
