// Copyright (c) 2026 The Gaslink developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/holiman/uint256"
)

const timeFormat = "Jan 02 15:04:05"

type discardHandler struct{}

// DiscardHandler returns a no-op handler.
func DiscardHandler() slog.Handler {
	return &discardHandler{}
}

func (h *discardHandler) Handle(_ context.Context, _ slog.Record) error {
	return nil
}

func (h *discardHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return false
}

func (h *discardHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *discardHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return &discardHandler{}
}

// TerminalHandler formats records optimized for human readability on a
// terminal with color-coded level output:
//
//	[LEVEL] [TIME] MESSAGE key=value key=value ...
type TerminalHandler struct {
	mu       sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandler returns a terminal handler which only outputs records
// at or above the given verbosity level.
func NewTerminalHandler(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{
		wr:       wr,
		lvl:      lvl,
		useColor: useColor,
	}
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	buf := make([]byte, 0, 128)
	lvl := levelString(r.Level)
	if h.useColor {
		buf = fmt.Appendf(buf, "\x1b[%dm[%s]\x1b[0m [%s] %s", levelColor(r.Level), lvl, r.Time.Format(timeFormat), r.Message)
	} else {
		buf = fmt.Appendf(buf, "[%s] [%s] %s", lvl, r.Time.Format(timeFormat), r.Message)
	}
	for _, attr := range h.attrs {
		buf = fmt.Appendf(buf, " %s=%s", attr.Key, formatValue(attr.Value))
	}
	r.Attrs(func(attr slog.Attr) bool {
		buf = fmt.Appendf(buf, " %s=%s", attr.Key, formatValue(attr.Value))
		return true
	})
	buf = append(buf, '\n')
	_, err := h.wr.Write(buf)
	return err
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level.Level() >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(_ string) slog.Handler {
	panic("not implemented")
}

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &TerminalHandler{
		wr:       h.wr,
		lvl:      h.lvl,
		useColor: h.useColor,
		attrs:    append(h.attrs[:len(h.attrs):len(h.attrs)], attrs...),
	}
}

func levelString(l slog.Level) string {
	switch {
	case l <= slog.LevelDebug:
		return "DBUG"
	case l <= slog.LevelInfo:
		return "INFO"
	case l <= slog.LevelWarn:
		return "WARN"
	default:
		return "EROR"
	}
}

func levelColor(l slog.Level) int {
	switch {
	case l <= slog.LevelDebug:
		return 36 // cyan
	case l <= slog.LevelInfo:
		return 32 // green
	case l <= slog.LevelWarn:
		return 33 // yellow
	default:
		return 31 // red
	}
}

func formatValue(v slog.Value) string {
	switch val := v.Any().(type) {
	case *big.Int:
		if val == nil {
			return "<nil>"
		}
		return val.String()
	case *uint256.Int:
		if val == nil {
			return "<nil>"
		}
		return val.Dec()
	case time.Time:
		return val.Format(timeFormat)
	case error:
		return fmt.Sprintf("%q", val.Error())
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
