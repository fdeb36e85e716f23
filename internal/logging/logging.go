// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging builds the application logger. Records go to a console
// stream and to an append-only log file; every record carries the name of
// the component that emitted it.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	// DefaultFile is the log file written in the working directory.
	DefaultFile = "convo.log"
	// DefaultLevel matches the verbosity of both sinks.
	DefaultLevel = "debug"
	// NameKey is the attribute holding the component name.
	NameKey = "logger"
)

// ParseLevel converts debug, info, warn, or error into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug", "":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn, or error", s)
}

// Logger is a named slog.Logger bound to its file sink.
type Logger struct {
	*slog.Logger
	base slog.Handler
	file io.Closer
}

// New creates a logger writing text records to console and, when path is
// non-empty, appending them to the file at path.
func New(name, path, level string, console io.Writer) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	var (
		out  = console
		file *os.File
	)
	if path != "" {
		file, err = os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file %s: %w", path, err)
		}
		out = io.MultiWriter(console, file)
	}

	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})
	l := &Logger{Logger: slog.New(handler).With(NameKey, name), base: handler}
	if file != nil {
		l.file = file
	}
	return l, nil
}

// Named returns a logger for a sub-component sharing the same sinks.
func (l *Logger) Named(name string) *slog.Logger {
	return slog.New(l.base).With(NameKey, name)
}

// Close flushes and closes the file sink.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
