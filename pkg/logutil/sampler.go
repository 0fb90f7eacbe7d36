// Package logutil builds the structured loggers used by the command line
// tools. Records can be sampled per level so hot-path debug logs stay cheap.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"maps"
	"math/rand/v2"
)

// SamplingHandler drops a share of records per level before they reach the
// wrapped handler. Levels without an entry always pass.
type SamplingHandler struct {
	next     slog.Handler
	percents map[slog.Level]float64
	minLevel slog.Level
	roll     func() float64
}

// NewSamplingHandler wraps next. percents maps a level to the percentage
// (0-100) of its records that are kept.
func NewSamplingHandler(next slog.Handler, minLevel slog.Level, percents map[slog.Level]float64) *SamplingHandler {
	return &SamplingHandler{
		next:     next,
		percents: maps.Clone(percents),
		minLevel: minLevel,
		roll:     rand.Float64,
	}
}

func (h *SamplingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.minLevel {
		return false
	}
	if !h.next.Enabled(ctx, level) {
		return false
	}
	percent, ok := h.percents[level]
	if !ok {
		return true
	}
	return h.roll()*100 < percent
}

func (h *SamplingHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.next.Handle(ctx, r)
}

func (h *SamplingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.next = h.next.WithAttrs(attrs)
	return &c
}

func (h *SamplingHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.next = h.next.WithGroup(name)
	return &c
}

// Options configures New.
type Options struct {
	Level    slog.Level
	Percents map[slog.Level]float64
	// JSON selects slog.JSONHandler instead of slog.TextHandler.
	JSON bool
}

// New returns a logger writing to w with sampling applied on top of the
// chosen slog handler.
func New(w io.Writer, opts Options) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: opts.Level}
	var base slog.Handler
	if opts.JSON {
		base = slog.NewJSONHandler(w, hopts)
	} else {
		base = slog.NewTextHandler(w, hopts)
	}
	return slog.New(NewSamplingHandler(base, opts.Level, opts.Percents))
}
