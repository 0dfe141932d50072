package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/config"
	"github.com/nikbrunner/bmark/internal/model"
	"github.com/nikbrunner/bmark/internal/prefs"
	"github.com/nikbrunner/bmark/internal/storage"
	"github.com/nikbrunner/bmark/internal/store"
)

// env is the opened bookmark environment shared by the commands.
type env struct {
	cfg   *config.Config
	st    storage.Storage
	b     *bridge.Bridge
	prefs *prefs.UiPrefs
}

// openEnv opens storage and builds the bridge and preferences. The tree
// is loaded unless lazy is set, in which case the caller loads it.
func openEnv(ctx context.Context, lazy bool, opts ...bridge.Option) (*env, error) {
	cfg := configFrom(ctx)
	path, err := cfg.DataPath()
	if err != nil {
		return nil, fmt.Errorf("data path: %w", err)
	}
	st, err := storage.Open(cfg.Storage.Backend, path)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:   cfg,
		st:    st,
		b:     bridge.New(store.New(), st, opts...),
		prefs: openPrefs(cfg, st),
	}
	if !lazy {
		if err := e.b.Load(ctx); err != nil {
			e.b.Destroy()
			st.Close()
			return nil, err
		}
	}
	return e, nil
}

// openPrefs keeps preferences next to the bookmarks when the backend
// is SQLite. The JSON backend keeps them for the session only.
func openPrefs(cfg *config.Config, st storage.Storage) *prefs.UiPrefs {
	var kv prefs.KV = prefs.NewMemoryKV()
	if s, ok := st.(*storage.SQLiteStorage); ok {
		kv = s.KV()
	}

	sortOrder, err := prefs.ParseSortOrder(cfg.UI.SortOrder)
	if err != nil {
		log.Warn("config", "err", err)
	}
	display, err := prefs.ParseDisplayMode(cfg.UI.DisplayMode)
	if err != nil {
		log.Warn("config", "err", err)
	}
	return prefs.New(kv, sortOrder, display)
}

// close writes pending changes and releases storage. Changes are
// written even when ctx was cancelled by an interrupt.
func (e *env) close(ctx context.Context) error {
	var errs []error
	if e.b.IsLoaded() {
		if err := e.b.Flush(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, fmt.Errorf("save bookmarks: %w", err))
		}
	}
	e.b.Destroy()
	if err := e.st.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// done closes e and reports a failed final save.
func (e *env) done(ctx context.Context) {
	if err := e.close(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

// logFile returns where logs go while the TUI owns the terminal.
func logFile(cfg *config.Config) (string, error) {
	if cfg.Logging.File != "" {
		return cfg.Logging.File, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "bmark.log"), nil
}

// parseFolder parses an id flag, falling back to def when it is empty.
func parseFolder(s string, def model.BookmarkID) (model.BookmarkID, error) {
	if s == "" {
		return def, nil
	}
	return model.ParseBookmarkID(s)
}
