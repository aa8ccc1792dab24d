// Package logger holds the process-wide structured logger. Every package
// logs through it so each line carries the service's component tag.
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/pfcmatch/backend/internal/config"
)

// defaultComponent tags log lines when none is configured.
const defaultComponent = "pfc_match"

var (
	mu      sync.RWMutex
	current *slog.Logger
)

// InitFromConfig builds the global logger from app config. Safe to call
// multiple times; the last call wins.
func InitFromConfig(c *config.Config) {
	var lc config.LogConfig
	if c != nil {
		lc = c.Log
	}

	mu.Lock()
	defer mu.Unlock()
	current = build(lc)
}

func build(lc config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     parseLevel(lc.Level),
		AddSource: lc.Source,
	}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(lc.Format), "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// compact local timestamps for the text handler
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format("2006-01-02 15:04:05"))
			}
			return a
		}
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	component := strings.TrimSpace(lc.Component)
	if component == "" {
		component = defaultComponent
	}
	return slog.New(handler).With("component", component)
}

// L returns the global logger, initializing a default one on first use.
func L() *slog.Logger {
	mu.RLock()
	l := current
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if current == nil {
		current = build(config.LogConfig{})
	}
	return current
}

// With creates a child logger with additional attributes.
func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
