package backend

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"charm.land/log/v2"
)

// watchDebounce coalesces the burst of writes an event-file flush produces
// into a single refresh.
const watchDebounce = 250 * time.Millisecond

// WatchLogdir watches a local logdir and requests an immediate poll when
// event files change, so the UI picks up new runs without waiting for the
// next tick. Only useful when the embedded server reads a local directory.
func (b *Backend) WatchLogdir(ctx context.Context, dir string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create logdir watcher: %w", err)
	}

	// Runs are subdirectories of the logdir; watch the whole existing tree
	// and pick up directories created later from the event stream.
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("watch logdir %s: %w", dir, err)
	}

	go func() {
		defer w.Close()

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
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op.Has(fsnotify.Create) {
					// A new run directory: watch it too. Add on a plain
					// file is harmless and fails silently below.
					if err := w.Add(ev.Name); err != nil {
						log.Debug("watch add failed", "path", ev.Name, "err", err)
					}
				}
				if debounce == nil {
					debounce = time.AfterFunc(watchDebounce, b.Refresh)
				} else {
					debounce.Reset(watchDebounce)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Error("logdir watcher", "err", err)
			}
		}
	}()

	log.Info("watching logdir", "dir", dir)
	return nil
}
