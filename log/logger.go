// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"log/slog"
	"sync/atomic"
)

// Logger is the structured logging surface used across the codebase.
// Context is supplied as alternating key/value pairs.
type Logger interface {
	With(ctx ...any) Logger

	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
}

type logger struct {
	inner *slog.Logger
}

func (l *logger) With(ctx ...any) Logger {
	return &logger{l.inner.With(ctx...)}
}

func (l *logger) Debug(msg string, ctx ...any) { l.inner.Debug(msg, ctx...) }
func (l *logger) Info(msg string, ctx ...any)  { l.inner.Info(msg, ctx...) }
func (l *logger) Warn(msg string, ctx ...any)  { l.inner.Warn(msg, ctx...) }
func (l *logger) Error(msg string, ctx ...any) { l.inner.Error(msg, ctx...) }

// NewLogger returns a logger over the given slog handler.
func NewLogger(h slog.Handler) Logger {
	return &logger{slog.New(h)}
}

var root atomic.Pointer[logger]

func init() {
	root.Store(&logger{slog.New(DiscardHandler())})
}

// SetDefault sets the root handler. Loggers created before the call keep
// their old handler.
func SetDefault(h slog.Handler) {
	root.Store(&logger{slog.New(h)})
}

// Root returns the root logger.
func Root() Logger {
	return root.Load()
}

// WithContext returns a logger derived from the root logger with the given
// context attached.
func WithContext(ctx ...any) Logger {
	return Root().With(ctx...)
}
