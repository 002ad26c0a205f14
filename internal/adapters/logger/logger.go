// Package logger implements a logging adapter using log/slog.
package logger

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"slices"
	"sync"

	"go.trai.ch/weld/internal/core/ports"
	"go.trai.ch/zerr"
)

// Logger implements ports.Logger using log/slog.
type Logger struct {
	mu     sync.RWMutex
	logger *slog.Logger
}

// New creates a Logger writing human-readable records to stderr.
func New() *Logger {
	return NewWithWriter(os.Stderr)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer) *Logger {
	return &Logger{logger: newSlog(w)}
}

// SetOutput swaps the destination of subsequent records.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.logger = newSlog(w)
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.current().Info(msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(msg string) {
	l.current().Warn(msg)
}

// Error logs err. Metadata attached with zerr.With is emitted as record
// attributes, sorted by key.
func (l *Logger) Error(err error) {
	args := []any{"error", err}
	var z *zerr.Error
	if errors.As(err, &z) {
		meta := z.Metadata()
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			args = append(args, k, meta[k])
		}
	}
	l.current().Error("build failed", args...)
}

func (l *Logger) current() *slog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.logger
}

func newSlog(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

var _ ports.Logger = (*Logger)(nil)
