// Package watcher provides directory monitoring for drop-folder
// uploads.
package watcher

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/studybridge/zoe-cli/internal/core/ports/driven"
	"github.com/studybridge/zoe-cli/internal/logger"
)

// Ensure FSWatcher implements the interface.
var _ driven.DirectoryWatcher = (*FSWatcher)(nil)

// FSWatcher reports files created under a directory using fsnotify.
// Filtering by type is the caller's concern; the watcher emits every
// created path.
type FSWatcher struct{}

// NewFSWatcher creates a new directory watcher.
func NewFSWatcher() *FSWatcher {
	return &FSWatcher{}
}

// Watch emits absolute paths of files created under dir until ctx is
// cancelled. The channel closes when watching stops.
func (w *FSWatcher) Watch(ctx context.Context, dir string) (<-chan string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close() //nolint:errcheck // already failing
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	paths := make(chan string, 16)

	go func() {
		defer close(paths)
		defer fsw.Close() //nolint:errcheck // shutting down

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Create != fsnotify.Create {
					continue
				}
				select {
				case paths <- event.Name:
				case <-ctx.Done():
					return
				}

			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				logger.Warn("Watcher error on %s: %v", dir, err)
			}
		}
	}()

	return paths, nil
}
