package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultFlushDuration absorbs the burst of events an editor save produces.
const defaultFlushDuration = 50 * time.Millisecond

// Watcher reloads a config file whenever it changes on disk.
type Watcher struct {
	path          string
	watcher       *fsnotify.Watcher
	flushDuration time.Duration
	onChange      func(*Config)
	onError       func(error)
}

// NewWatcher starts watching the directory holding filePath. Watching the
// directory rather than the file survives editors that save by rename.
// Reloaded configs go to onChange; unreadable or invalid ones go to onError
// and the previous config stays in effect.
func NewWatcher(filePath string, onChange func(*Config), onError func(error)) (*Watcher, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify new watcher error: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("fsnotify add error for dir %q: %w", filepath.Dir(abs), err)
	}

	if onError == nil {
		onError = func(error) {}
	}

	return &Watcher{
		path:          abs,
		watcher:       fw,
		flushDuration: defaultFlushDuration,
		onChange:      onChange,
		onError:       onError,
	}, nil
}

// Run blocks until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	var flush <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				flush = time.After(w.flushDuration)
			}

		case <-flush:
			flush = nil
			cfg, err := Load(w.path)
			if err != nil {
				w.onError(err)
				continue
			}
			if w.onChange != nil {
				w.onChange(cfg)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				w.onError(err)
			}
		}
	}
}
