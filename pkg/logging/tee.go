package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
)

// Tee returns a logger that writes records to the logger described by
// primary and, as JSON at level, to w. The two sides filter independently,
// so a quiet console can sit next to a detailed log file.
// A nil w is the same as New(primary).
func Tee(primary Config, w io.Writer, level Level) *slog.Logger {
	if w == nil {
		return New(primary)
	}
	file := Config{Level: level, Format: FormatJSON, Output: w, AddSource: primary.AddSource}
	return slog.New(&teeHandler{primary: newHandler(primary), file: newHandler(file)})
}

// teeHandler sends each record to a primary handler and a file handler.
type teeHandler struct {
	primary slog.Handler
	file    slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level) || h.file.Enabled(ctx, level)
}

// Handle writes r to every side enabled for its level. A failing side does
// not stop the other; their errors are joined.
func (h *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	if h.primary.Enabled(ctx, r.Level) {
		errs = append(errs, h.primary.Handle(ctx, r.Clone()))
	}
	if h.file.Enabled(ctx, r.Level) {
		errs = append(errs, h.file.Handle(ctx, r.Clone()))
	}
	return errors.Join(errs...)
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{primary: h.primary.WithAttrs(attrs), file: h.file.WithAttrs(attrs)}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{primary: h.primary.WithGroup(name), file: h.file.WithGroup(name)}
}
