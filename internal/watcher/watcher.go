// Package watcher reruns the render pipeline whenever the input file
// changes. It watches the file's containing directory, since single-file
// watches are not portable, and filters events down to the one path it
// cares about.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cvforge/cvforge/internal/logging"
)

// Watcher observes one file and reruns a callback on modification.
type Watcher struct {
	log logging.Logger

	// rerunMu serializes reruns: a change event arriving while a rerun
	// is in flight waits for it instead of overlapping.
	rerunMu sync.Mutex
}

// New creates a Watcher.
func New(log logging.Logger) *Watcher {
	return &Watcher{log: log.WithComponent("watcher")}
}

// Watch invokes rerun once immediately, then blocks re-invoking it for
// every write to path until ctx is cancelled. The initial rerun's error
// is fatal; later rerun errors are reported and watching continues.
// Rapid repeated writes cause repeated reruns; no debouncing is applied.
func (w *Watcher) Watch(ctx context.Context, path string, rerun func() error) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}

	if err := w.invoke(rerun); err != nil {
		return err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(absPath), err)
	}
	w.log.Info("watching for changes", "path", absPath)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("stopping watch")
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event, absPath) {
				continue
			}
			w.log.Info("input file changed, re-running", "path", absPath)
			if err := w.invoke(rerun); err != nil {
				// Failures after the initial run keep the loop alive so
				// the next save can fix the input.
				w.log.Error(err, "re-run failed")
			}
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error(err, "watch error")
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event, absPath string) bool {
	if event.Name != absPath {
		return false
	}
	// Editors modify files via write or atomic create-and-rename.
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create)
}

func (w *Watcher) invoke(rerun func() error) error {
	w.rerunMu.Lock()
	defer w.rerunMu.Unlock()
	return rerun()
}
