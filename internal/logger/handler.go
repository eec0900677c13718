package logger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorGreen  = "\033[0;32m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

// lineHandler renders records as "[timestamp] [pid] [LEVEL] message" for the
// log file and "[timestamp] [LEVEL] message" for the terminal.
// It is driven through DefaultLogger's slog.Logger; callers hold l.mu.
type lineHandler struct {
	l     *DefaultLogger
	attrs []slog.Attr
}

// Enabled drops verbose records unless verbose mode is on.
func (h *lineHandler) Enabled(_ context.Context, lvl slog.Level) bool {
	if lvl < slog.LevelInfo {
		return h.l.verbose
	}
	return true
}

// Handle writes r to the log file and, when interactive, to the terminal.
func (h *lineHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})
	msg := b.String()

	// Timestamps come from the logger's clock.
	ts := h.l.now().Format(TimestampLayout)
	level := levelName(r.Level)

	h.l.writeFile(fmt.Sprintf("[%s] [%d] [%s] %s\n", ts, h.l.pid, level, msg))

	if h.l.interactive {
		h.l.writeTerminal(r.Level, fmt.Sprintf("[%s] [%s] %s", ts, level, msg))
	}
	return nil
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *lineHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &lineHandler{l: h.l, attrs: merged}
}

// WithGroup returns the handler unchanged; groups are flattened.
func (h *lineHandler) WithGroup(_ string) slog.Handler { return h }

func levelName(lvl slog.Level) string {
	switch {
	case lvl >= slog.LevelError:
		return "ERROR"
	case lvl >= slog.LevelWarn:
		return "WARN"
	case lvl >= slog.LevelInfo:
		return "INFO"
	default:
		return "VERBOSE"
	}
}

func levelColor(lvl slog.Level) string {
	switch {
	case lvl >= slog.LevelError:
		return colorRed
	case lvl >= slog.LevelWarn:
		return colorYellow
	case lvl >= slog.LevelInfo:
		return colorGreen
	default:
		return colorBlue
	}
}
