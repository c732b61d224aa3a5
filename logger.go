package ggmark

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// discard is the logger installed until SetLogger is called. Its handler
// reports every level as disabled, so log calls cost a level check.
var discard = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

func init() { current.Store(discard) }

// SetLogger installs l as the logger of ggmark and its sub-packages.
// A nil l restores the default, which discards everything.
//
// ggmark logs at three levels:
//   - [slog.LevelDebug]: source events, resolves (row and attribute counts)
//     and render passes (row count, render mode)
//   - [slog.LevelInfo]: outputs written, data reloaded, watch started
//   - [slog.LevelWarn]: a failed re-resolve that keeps the previous labels,
//     a failed css render or watch update
//
// The CLI's --verbose flag amounts to:
//
//	ggmark.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
//	// level=DEBUG msg="annotation: resolved" rows=3 uniforms=... arrays=...
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = discard
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger. It is safe to call while
// another goroutine calls SetLogger.
func Logger() *slog.Logger { return current.Load() }

// DebugEnabled reports whether debug records are kept. Callers use it to
// skip building diagnostics that are only logged.
func DebugEnabled() bool {
	return Logger().Enabled(context.Background(), slog.LevelDebug)
}
