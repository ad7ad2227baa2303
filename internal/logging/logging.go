// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package logging sets up structured logging for weft's build core.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// Logf is a printf-like sink, kept narrow so components that only want
// to emit progress lines don't need a full *slog.Logger in their
// constructor. Implementations must be safe for concurrent use.
type Logf func(format string, args ...any)

// New returns a slog.Logger that writes colorized, human-readable
// lines to w when pretty is true (interactive dev/watch sessions), or
// plain JSON otherwise (CI, redirected output).
func New(w *os.File, pretty, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	if pretty {
		return slog.New(tint.NewHandler(w, &tint.Options{Level: level}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// Adapt turns a *slog.Logger into a Logf, bound to level and logging
// with context.Background(), for
// handing to code that predates structured logging (the Compiler's
// per-page trace, the Watcher's debounce trace).
func Adapt(l *slog.Logger, level slog.Level) Logf {
	return func(format string, args ...any) {
		l.Log(context.Background(), level, fmt.Sprintf(format, args...))
	}
}
