// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging sets up the zerolog logger shared by every component.
//
// The terminal UI owns stdout, so logs go to a dated file under
// ~/.stemm/logs unless a console writer is requested for CLI subcommands.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logger configuration.
type Config struct {
	Dir     string    // directory for dated log files (default: ~/.stemm/logs)
	File    string    // explicit log file; overrides Dir
	Level   string    // zerolog level name (default: info)
	Console io.Writer // optional human-readable copy, e.g. os.Stderr
}

// Logger wraps a zerolog.Logger and the file it writes to.
type Logger struct {
	zlog zerolog.Logger
	file *os.File
	path string
}

// DefaultDir returns ~/.stemm/logs.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".stemm", "logs"), nil
}

// New opens the log file and builds the logger.
func New(cfg Config) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	path := cfg.File
	if path == "" {
		dir := cfg.Dir
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		path = filepath.Join(dir, fmt.Sprintf("stemm_%s.log", time.Now().Format("2006-01-02")))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	var out io.Writer = file
	if cfg.Console != nil {
		out = zerolog.MultiLevelWriter(file, zerolog.ConsoleWriter{
			Out:        cfg.Console,
			TimeFormat: "15:04:05",
		})
	}

	zlog := zerolog.New(out).Level(level).With().
		Timestamp().
		Str("app", "stemm").
		Logger()

	zlog.Debug().Str("file", path).Str("level", level.String()).Msg("logger initialized")

	return &Logger{zlog: zlog, file: file, path: path}, nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// ParseLevel accepts zerolog level names, case-insensitively. Empty means info.
func ParseLevel(name string) (zerolog.Level, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

// Component returns a child logger tagged with the component name.
func (l *Logger) Component(name string) zerolog.Logger {
	return l.zlog.With().Str("component", name).Logger()
}

// Zerolog returns the underlying logger.
func (l *Logger) Zerolog() zerolog.Logger { return l.zlog }

// Path returns the log file path, or "" for a Nop logger.
func (l *Logger) Path() string { return l.path }

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
