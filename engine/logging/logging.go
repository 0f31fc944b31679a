// Package logging holds the logger shared by every engine package.
//
// Engine packages log nothing by default. Call SetLogger to enable output:
//
//	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//
// Levels used by the engine:
//   - [slog.LevelDebug]: buffer allocations, program ids, flush summaries
//   - [slog.LevelInfo]: lifecycle events (backend ready, shutdown)
//   - [slog.LevelWarn]: recoverable failures (a profile capture that could not be written)
//   - [slog.LevelError]: handler errors during shutdown
package logging

import (
	"context"
	"log/slog"
	"slices"
	"sync/atomic"
)

type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger installs l for all engine packages. nil restores the silent logger.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current engine logger.
func Logger() *slog.Logger { return loggerPtr.Load() }

// For returns a logger tagged with a component name. It writes through
// whichever logger is installed at the time of each call, so components
// built before SetLogger still log once it runs.
func For(component string) *slog.Logger {
	return slog.New(deferred{}).With(slog.String("component", component))
}

// deferred resolves the installed handler per record and replays the
// attributes and groups added to it.
type deferred struct {
	ops []func(slog.Handler) slog.Handler
}

func (d deferred) Enabled(ctx context.Context, level slog.Level) bool {
	return Logger().Handler().Enabled(ctx, level)
}

func (d deferred) Handle(ctx context.Context, r slog.Record) error {
	h := Logger().Handler()
	for _, op := range d.ops {
		h = op(h)
	}
	return h.Handle(ctx, r)
}

func (d deferred) WithAttrs(attrs []slog.Attr) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (d deferred) WithGroup(name string) slog.Handler {
	return d.with(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (d deferred) with(op func(slog.Handler) slog.Handler) slog.Handler {
	return deferred{ops: append(slices.Clip(d.ops), op)}
}
