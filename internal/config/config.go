package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DirName  = "bmark"
	FileName = "config.toml"
)

// Config holds application configuration.
type Config struct {
	Storage StorageConfig `toml:"storage"`
	Logging LoggingConfig `toml:"logging"`
	Images  ImagesConfig  `toml:"images"`
	UI      UIConfig      `toml:"ui"`
	Server  ServerConfig  `toml:"server"`
}

type StorageConfig struct {
	Backend  string `toml:"backend"` // "sqlite" or "json"
	Path     string `toml:"path"`    // empty = default under the config dir
	Watch    bool   `toml:"watch"`
	AutoSave string `toml:"auto_save"` // debounce interval, e.g. "2s"
}

type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // used while the TUI owns the terminal
}

type ImagesConfig struct {
	Enabled        bool    `toml:"enabled"`
	MaxOutstanding int     `toml:"max_outstanding"`
	CacheSize      int     `toml:"cache_size"`
	RatePerSecond  float64 `toml:"rate_per_second"`
	Timeout        string  `toml:"timeout"`
}

type UIConfig struct {
	SortOrder   string `toml:"sort_order"`
	DisplayMode string `toml:"display_mode"`
	ConfirmDel  bool   `toml:"confirm_delete"`
}

type ServerConfig struct {
	Listen string `toml:"listen"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend:  "sqlite",
			Watch:    true,
			AutoSave: "2s",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Images: ImagesConfig{
			Enabled:        false,
			MaxOutstanding: 30,
			CacheSize:      256,
			RatePerSecond:  5,
			Timeout:        "10s",
		},
		UI: UIConfig{
			SortOrder:   "manual",
			DisplayMode: "compact",
			ConfirmDel:  true,
		},
		Server: ServerConfig{
			Listen: "127.0.0.1:7171",
		},
	}
}

// Load reads config from the TOML file.
// Creates the file with defaults if it doesn't exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Non-fatal: return defaults even if writing them fails
			_ = Save(path, &cfg)
			return &cfg, nil
		}
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// applyDefaults fills zero values that TOML left empty.
func (c *Config) applyDefaults() {
	d := Default()
	if c.Storage.Backend == "" {
		c.Storage.Backend = d.Storage.Backend
	}
	if c.Storage.AutoSave == "" {
		c.Storage.AutoSave = d.Storage.AutoSave
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
	if c.Images.MaxOutstanding <= 0 {
		c.Images.MaxOutstanding = d.Images.MaxOutstanding
	}
	if c.Images.CacheSize <= 0 {
		c.Images.CacheSize = d.Images.CacheSize
	}
	if c.Images.RatePerSecond <= 0 {
		c.Images.RatePerSecond = d.Images.RatePerSecond
	}
	if c.Images.Timeout == "" {
		c.Images.Timeout = d.Images.Timeout
	}
	if c.UI.SortOrder == "" {
		c.UI.SortOrder = d.UI.SortOrder
	}
	if c.UI.DisplayMode == "" {
		c.UI.DisplayMode = d.UI.DisplayMode
	}
	if c.Server.Listen == "" {
		c.Server.Listen = d.Server.Listen
	}
}

// Save writes config to the TOML file.
// Creates the directory if it doesn't exist.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	enc.Indent = ""
	return enc.Encode(cfg)
}

// AutoSaveInterval parses Storage.AutoSave. Zero disables auto save.
func (c *Config) AutoSaveInterval() time.Duration {
	d, err := time.ParseDuration(c.Storage.AutoSave)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// ImageTimeout parses Images.Timeout, falling back to ten seconds.
func (c *Config) ImageTimeout() time.Duration {
	d, err := time.ParseDuration(c.Images.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// DataPath returns the storage path, resolving the default location
// from the backend when Path is empty.
func (c *Config) DataPath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if c.Storage.Backend == "json" {
		return filepath.Join(dir, "bookmarks.json"), nil
	}
	return filepath.Join(dir, "bookmarks.db"), nil
}

// Dir returns the config directory: ~/.config/bmark
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", DirName), nil
}

// DefaultPath returns the default config path: ~/.config/bmark/config.toml
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}
