package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses the burst of events editors produce on save.
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange whenever the file at path is written, created or
// renamed into place, until ctx is done. The parent directory is watched so
// that atomic-rename saves and late file creation are seen. Watcher errors
// are passed to onError when it is non-nil.
func Watch(ctx context.Context, path string, onChange func(), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		watcher.Close()
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch directory: %w", err)
	}

	go watchLoop(ctx, watcher, filepath.Base(abs), onChange, onError)
	return nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, name string, onChange func(), onError func(error)) {
	defer watcher.Close()

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if onError != nil {
				onError(err)
			}
		}
	}
}
