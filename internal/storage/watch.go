package storage

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external changes to a storage file. Bursts of events
// are reduced to one callback per quiet interval.
type Watcher struct {
	w        *fsnotify.Watcher
	paths    map[string]bool
	interval time.Duration
	onChange func()

	mu          sync.Mutex
	ignoreUntil time.Time
}

// NewWatcher watches path (and its WAL sidecar) through the parent
// directory, since editors and atomic saves replace the file.
func NewWatcher(path string, interval time.Duration, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, err
	}

	return &Watcher{
		w:        fw,
		paths:    map[string]bool{filepath.Clean(path): true, filepath.Clean(path) + "-wal": true},
		interval: interval,
		onChange: onChange,
	}, nil
}

// IgnoreOwnWrite drops events for the next interval. Call it right
// before saving so the process does not reload its own write.
func (w *Watcher) IgnoreOwnWrite() {
	w.mu.Lock()
	w.ignoreUntil = time.Now().Add(2 * w.interval)
	w.mu.Unlock()
}

func (w *Watcher) ignored() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return time.Now().Before(w.ignoreUntil)
}

// Run dispatches change callbacks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.w.Close()

	timer := time.NewTimer(w.interval)
	timer.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if !w.paths[filepath.Clean(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if w.ignored() {
				log.Debug("ignoring own write", "event", event)
				continue
			}
			log.Debug("storage event", "event", event)
			pending = true
			timer.Reset(w.interval)

		case <-timer.C:
			if pending {
				pending = false
				w.onChange()
			}

		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			log.Error("watcher", "err", err)
		}
	}
}
