package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
)

// EnvDebug overrides the configured log level (-1 silent .. 3 debug).
const EnvDebug = "BMARK_DEBUG"

// levels maps the numeric CLI level to a log.Level.
var levels = map[int]log.Level{
	0: log.ErrorLevel,
	1: log.WarnLevel,
	2: log.InfoLevel,
	3: log.DebugLevel,
}

var (
	mu     sync.Mutex
	output io.Writer = os.Stderr
	level  log.Level = log.WarnLevel
	silent bool
)

var loggers = map[string]*log.Logger{}

// GetLogger returns the logger for a module, creating it on first use.
// Module names are shortened to four upper-case characters in the prefix.
func GetLogger(module string) *log.Logger {
	mu.Lock()
	defer mu.Unlock()

	if lg, ok := loggers[module]; ok {
		return lg
	}

	lg := log.NewWithOptions(output, log.Options{
		Prefix:          fmt.Sprintf("[%.4s]", strings.ToUpper(module)),
		ReportTimestamp: level == log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
	if silent {
		lg.SetOutput(io.Discard)
	}
	loggers[module] = lg
	return lg
}

// SetLogLevel applies a numeric level to every logger.
// Levels below zero silence all output.
func SetLogLevel(lvl int) {
	mu.Lock()
	defer mu.Unlock()

	silent = lvl < 0
	if l, ok := levels[lvl]; ok {
		level = l
	} else if lvl > 3 {
		level = log.DebugLevel
	}

	for _, lg := range loggers {
		lg.SetLevel(level)
		lg.SetReportTimestamp(level == log.DebugLevel)
		if silent {
			lg.SetOutput(io.Discard)
		} else {
			lg.SetOutput(output)
		}
	}
}

// ParseLevel converts a config level name into the numeric level.
func ParseLevel(name string) int {
	switch strings.ToLower(name) {
	case "silent", "off":
		return -1
	case "error":
		return 0
	case "warn", "warning":
		return 1
	case "info":
		return 2
	case "debug":
		return 3
	default:
		return 1
	}
}

// SetOutput redirects every logger. Used by the TUI so log lines do not
// draw over the alternate screen.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	output = w
	for _, lg := range loggers {
		if !silent {
			lg.SetOutput(w)
		}
	}
}

// ToFile points all loggers at path and returns the file for closing.
func ToFile(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	SetOutput(f)
	return f, nil
}

// IsTerminal reports whether stderr is attached to a terminal.
func IsTerminal() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func init() {
	if env := os.Getenv(EnvDebug); env != "" {
		lvl, err := strconv.Atoi(env)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s=%v: %v\n", EnvDebug, env, err)
			return
		}
		SetLogLevel(lvl)
	}
}
