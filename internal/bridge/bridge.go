// Package bridge is the only API the UI uses to reach the bookmark
// engine. It forwards calls, fans out change notifications and owns
// persistence of the tree.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/storage"
	"github.com/nikbrunner/bmark/internal/store"
)

var log = logging.GetLogger("BRIDGE")

var (
	ErrDestroyed = errors.New("bookmark bridge destroyed")
	ErrNoStorage = errors.New("bookmark bridge has no storage")
	ErrUnsaved   = errors.New("unsaved changes would be lost")
)

// Observer receives engine events plus BookmarkModelChanged, a coarse
// callback after any change. While extensive changes are running the
// coarse callback is held back and sent once when they end.
type Observer interface {
	store.Observer
	BookmarkModelChanged()
}

// BaseObserver implements Observer with no-ops.
type BaseObserver struct {
	store.BaseObserver
}

func (BaseObserver) BookmarkModelChanged() {}

// Bridge wraps a store.Store. Once destroyed every call fails with
// ErrDestroyed or returns a zero value.
type Bridge struct {
	store   *store.Store
	storage storage.Storage
	relay   *relay

	mu         sync.Mutex
	destroyed  bool
	observers  []Observer
	onLoaded   []func()
	watcher    *storage.Watcher
	autoSave   time.Duration
	saveTimer  *time.Timer
	dirty      bool
	extensive  int
	saveErrors func(error)
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithAutoSave saves the tree d after the last change. Zero disables it.
func WithAutoSave(d time.Duration) Option {
	return func(b *Bridge) { b.autoSave = d }
}

// WithSaveErrorHandler is called when a background save fails.
func WithSaveErrorHandler(fn func(error)) Option {
	return func(b *Bridge) { b.saveErrors = fn }
}

// New wraps s. st may be nil for a purely in-memory bridge.
func New(s *store.Store, st storage.Storage, opts ...Option) *Bridge {
	b := &Bridge{store: s, storage: st}
	for _, opt := range opts {
		opt(b)
	}
	b.relay = &relay{b: b}
	s.AddObserver(b.relay)
	return b
}

// alive reports whether the bridge can still be used.
func (b *Bridge) alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.destroyed
}

// Destroy detaches from the engine. Observers stop receiving events
// and pending auto saves are dropped; call Flush first to keep them.
func (b *Bridge) Destroy() {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	b.destroyed = true
	b.observers = nil
	b.onLoaded = nil
	if b.saveTimer != nil {
		b.saveTimer.Stop()
	}
	b.mu.Unlock()

	b.store.RemoveObserver(b.relay)
	log.Debug("bridge destroyed")
}

// AddObserver registers o. Safe to call from inside a callback.
func (b *Bridge) AddObserver(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return
	}
	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
}

// RemoveObserver unregisters o. Safe to call from inside a callback.
func (b *Bridge) RemoveObserver(o Observer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i:i], b.observers[i+1:]...)
			return
		}
	}
}

// IsLoaded reports whether the engine finished loading.
func (b *Bridge) IsLoaded() bool {
	return b.alive() && b.store.IsLoaded()
}

// FinishLoadingBookmarkModel runs fn now if the model is loaded,
// otherwise once loading completes.
func (b *Bridge) FinishLoadingBookmarkModel(fn func()) {
	b.mu.Lock()
	if b.destroyed {
		b.mu.Unlock()
		return
	}
	if !b.store.IsLoaded() {
		b.onLoaded = append(b.onLoaded, fn)
		b.mu.Unlock()
		return
	}
	b.mu.Unlock()
	fn()
}

// Load reads the storage and loads the engine. Without storage the
// engine is loaded empty.
func (b *Bridge) Load(ctx context.Context) error {
	snap, err := b.ReadStorage(ctx)
	if err != nil {
		return err
	}
	return b.Apply(snap)
}

// ReadStorage reads the storage without touching the engine, so the
// read can run off the UI loop and Apply on it. A nil snapshot means
// there is no storage.
func (b *Bridge) ReadStorage(ctx context.Context) (*store.Snapshot, error) {
	if !b.alive() {
		return nil, ErrDestroyed
	}
	if b.storage == nil {
		return nil, ctx.Err()
	}
	snap, err := b.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", b.storage.Path(), err)
	}
	return snap, ctx.Err()
}

// Apply loads snap into the engine and notifies observers.
func (b *Bridge) Apply(snap *store.Snapshot) error {
	if !b.alive() {
		return ErrDestroyed
	}
	return b.store.Load(snap)
}

// LoadAsync runs Load on its own goroutine. The channel receives the
// result and is closed.
func (b *Bridge) LoadAsync(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- b.Load(ctx)
	}()
	return done
}

// Save writes a snapshot of the tree to storage.
func (b *Bridge) Save(ctx context.Context) error {
	if !b.alive() {
		return ErrDestroyed
	}
	if b.storage == nil {
		return ErrNoStorage
	}
	if !b.store.IsLoaded() {
		return store.ErrNotLoaded
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.Lock()
	b.dirty = false
	w := b.watcher
	b.mu.Unlock()

	if w != nil {
		w.IgnoreOwnWrite()
	}
	if err := b.storage.Save(b.store.Snapshot()); err != nil {
		b.mu.Lock()
		b.dirty = true
		b.mu.Unlock()
		return fmt.Errorf("save %s: %w", b.storage.Path(), err)
	}
	log.Debug("bookmarks saved", "path", b.storage.Path())
	return nil
}

// Dirty reports whether there are unsaved changes.
func (b *Bridge) Dirty() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dirty
}

// Flush saves if there are unsaved changes.
func (b *Bridge) Flush(ctx context.Context) error {
	if !b.Dirty() || b.storage == nil {
		return nil
	}
	return b.Save(ctx)
}

// markDirty records a change and schedules an auto save.
func (b *Bridge) markDirty() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dirty = true
	if b.autoSave <= 0 || b.storage == nil || b.destroyed {
		return
	}
	if b.saveTimer != nil {
		b.saveTimer.Stop()
	}
	b.saveTimer = time.AfterFunc(b.autoSave, b.autoSaveNow)
}

func (b *Bridge) autoSaveNow() {
	if err := b.Flush(context.Background()); err != nil {
		log.Error("auto save", "err", err)
		if b.saveErrors != nil {
			b.saveErrors(err)
		}
	}
}

// Watch reloads the tree when the storage file changes on disk. The
// reload is handed to schedule so callers with a UI loop can run it
// there; a nil schedule runs it on the watcher goroutine. Watch blocks
// until ctx is done.
func (b *Bridge) Watch(ctx context.Context, interval time.Duration, schedule func(func())) error {
	if !b.alive() {
		return ErrDestroyed
	}
	if b.storage == nil {
		return ErrNoStorage
	}

	reload := func() {
		err := b.Reload()
		switch {
		case errors.Is(err, ErrUnsaved):
			log.Warn("storage changed on disk, keeping unsaved local changes")
		case err != nil:
			log.Error("reload after external change", "err", err)
		}
	}
	w, err := storage.NewWatcher(b.storage.Path(), interval, func() {
		if schedule != nil {
			schedule(reload)
			return
		}
		reload()
	})
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.watcher = w
	b.mu.Unlock()

	log.Info("watching storage", "path", b.storage.Path())
	return w.Run(ctx)
}

// Reload replaces the tree with the storage contents. It fails with
// ErrUnsaved while local changes are pending; the next save then wins.
// Backends that report changes are only reloaded when the stored tree
// moved on, so preference writes to the same file do not reload.
func (b *Bridge) Reload() error {
	if !b.alive() {
		return ErrDestroyed
	}
	if b.storage == nil {
		return ErrNoStorage
	}
	if b.Dirty() {
		return ErrUnsaved
	}
	if cr, ok := b.storage.(storage.ChangeReporter); ok {
		changed, err := cr.Changed()
		if err != nil {
			return err
		}
		if !changed {
			log.Debug("storage event without tree change")
			return nil
		}
	}
	snap, err := b.storage.Load()
	if err != nil {
		return err
	}
	log.Info("reloading bookmarks from storage")
	if err := b.store.Load(snap); err != nil {
		return err
	}
	b.mu.Lock()
	b.dirty = false
	b.mu.Unlock()
	return nil
}

// Store exposes the engine for tools that work on it directly, such as
// import and export.
func (b *Bridge) Store() *store.Store {
	return b.store
}

func (b *Bridge) snapshotObservers() []Observer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.destroyed {
		return nil
	}
	out := make([]Observer, len(b.observers))
	copy(out, b.observers)
	return out
}
