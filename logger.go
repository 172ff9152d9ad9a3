package ggmap

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard drops every record. Enabled is false, so log calls in the frame
// loop cost a level check and nothing else.
type discard struct{}

func (discard) Enabled(context.Context, slog.Level) bool  { return false }
func (discard) Handle(context.Context, slog.Record) error { return nil }
func (discard) WithAttrs([]slog.Attr) slog.Handler        { return discard{} }
func (discard) WithGroup(string) slog.Handler             { return discard{} }

var silent = slog.New(discard{})

// current is swapped atomically; a server may call SetLogger while another
// goroutine renders.
var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(silent)
}

// SetLogger routes the log output of every ggmap package to l. A nil l
// silences ggmap again, which is also the default.
//
// Messages are prefixed with the emitting package ("tiletex: uploaded",
// "surface: GPU context lost"). Levels:
//   - [slog.LevelDebug]: replay group rebuilds, texture uploads, renderer removal
//   - [slog.LevelInfo]: GPU context restore
//   - [slog.LevelWarn]: failed tile loads and uploads, context loss, surfaces
//     that could not be created or closed
//
// Example:
//
//	ggmap.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return current.Load()
}
