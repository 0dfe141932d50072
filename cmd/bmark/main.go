package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/nikbrunner/bmark/internal/config"
	"github.com/nikbrunner/bmark/internal/logging"
)

var log = logging.GetLogger("MAIN")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.Command {
	defaultConf, err := config.DefaultPath()
	if err != nil {
		defaultConf = config.FileName
	}

	return &cli.Command{
		Name:                  "bmark",
		Usage:                 "vim-style terminal bookmark manager",
		Suggest:               true,
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Value:       defaultConf,
				Usage:       "config `path`",
				DefaultText: "~/.config/bmark/config.toml",
			},
			&cli.StringFlag{
				Name:  "backend",
				Usage: "storage backend, sqlite or json",
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "bookmark storage `path`",
			},
			&cli.IntFlag{
				Name:        "debug",
				Aliases:     []string{"D"},
				Usage:       "set debug `level` (-1..3)",
				DefaultText: "from config",
				Sources:     cli.EnvVars(logging.EnvDebug),
			},
		},
		Before: loadConfig,
		Action: runTUI,
		Commands: []*cli.Command{
			tuiCmd(),
			listCmd(),
			treeCmd(),
			searchCmd(),
			openCmd(),
			addCmd(),
			importCmd(),
			exportCmd(),
			serveCmd(),
			checkCmd(),
		},
	}
}

type configKey struct{}

// loadConfig reads the config file and applies flag overrides. The
// result travels to the commands through the context.
func loadConfig(ctx context.Context, c *cli.Command) (context.Context, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return ctx, err
	}
	if v := c.String("backend"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := c.String("data"); v != "" {
		cfg.Storage.Path = v
	}

	if c.IsSet("debug") {
		logging.SetLogLevel(c.Int("debug"))
	} else {
		logging.SetLogLevel(logging.ParseLevel(cfg.Logging.Level))
	}
	log.Debug("config loaded", "path", c.String("config"), "backend", cfg.Storage.Backend)
	return context.WithValue(ctx, configKey{}, cfg), nil
}

func configFrom(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}
