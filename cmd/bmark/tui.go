package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/nikbrunner/bmark/internal/bridge"
	"github.com/nikbrunner/bmark/internal/images"
	"github.com/nikbrunner/bmark/internal/logging"
	"github.com/nikbrunner/bmark/internal/manager"
	"github.com/nikbrunner/bmark/internal/tui"
)

const watchDebounce = 300 * time.Millisecond

func tuiCmd() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Open the interactive bookmark manager (default)",
		Action: runTUI,
	}
}

func runTUI(ctx context.Context, c *cli.Command) error {
	cfg := configFrom(ctx)

	// log lines would draw over the alternate screen
	if path, err := logFile(cfg); err == nil {
		if f, err := logging.ToFile(path); err == nil {
			defer f.Close()
			defer logging.SetOutput(os.Stderr)
		}
	}

	loop := tui.NewLoop()
	defer loop.Close()

	e, err := openEnv(ctx, true,
		bridge.WithAutoSave(cfg.AutoSaveInterval()),
		bridge.WithSaveErrorHandler(func(err error) {
			log.Error("auto save failed", "err", err)
		}),
	)
	if err != nil {
		return err
	}
	defer e.done(ctx)

	var opts []manager.Option
	if cfg.Images.Enabled {
		svc := images.NewHTTPService(cfg.ImageTimeout(), cfg.Images.RatePerSecond)
		queue := images.NewQueue(svc, cfg.Images.MaxOutstanding, cfg.Images.CacheSize)
		fetcher := images.NewFetcher(e.b, queue)
		defer fetcher.Destroy()
		opts = append(opts, manager.WithImages(fetcher, loop.Post))
	}
	mgr := manager.New(e.b, e.prefs, opts...)
	defer mgr.Destroy()

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if cfg.Storage.Watch {
		go func() {
			err := e.b.Watch(watchCtx, watchDebounce, loop.Post)
			if err != nil && !errors.Is(err, context.Canceled) {
				log.Warn("storage watcher stopped", "err", err)
			}
		}()
	}

	app := tui.NewApp(tui.AppParams{
		Manager:       mgr,
		Loop:          loop,
		ConfirmDelete: cfg.UI.ConfirmDel,
	})
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run app: %w", err)
	}
	return nil
}
