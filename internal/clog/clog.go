// Package clog wires the process-wide structured logger used by every
// package in this module.
package clog

import (
	"io"
	"log/slog"
	"os"
)

var base *slog.Logger

// Init initializes the global logger. Log lines go to stdout and, if
// logFile is non-empty, also to that file opened in append mode.
func Init(level string, logFile string) error {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	writers := []io.Writer{os.Stdout}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return err
		}
		writers = append(writers, f)
	}

	handler := slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format("15:04:05.000"))
			}
			return a
		},
	})

	base = slog.New(handler)
	slog.SetDefault(base)
	return nil
}

// For returns a logger tagged with a "component" attribute. Safe to call
// before Init — falls back to slog's default logger.
func For(component string) *slog.Logger {
	if base == nil {
		return slog.Default().With("component", component)
	}
	return base.With("component", component)
}
