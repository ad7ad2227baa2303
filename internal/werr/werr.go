// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package werr defines the error kinds named in the build core's
// error handling design: Config, Collation, Template, Render, IO, and
// Lock errors, each naming the source path, the component, and the
// specific rule violated.
package werr

import (
	"errors"
	"fmt"
)

// Kind classifies an Error for callers deciding whether it is fatal.
type Kind int

const (
	// Config covers malformed settings or front matter.
	Config Kind = iota
	// Collation covers duplicate href, missing referenced page/menu/
	// data-source, cyclic redirect, or a missing id in a data document.
	Collation
	// Template covers an undeclared helper, arity violation, type error
	// in a helper argument, or a failed partial lookup.
	Template
	// Render covers markdown parse/IO errors and a missing layout.
	Render
	// IO covers read/write/walk failures.
	IO
	// Lock covers a failure to acquire the project lock.
	Lock
)

func (k Kind) String() string {
	switch k {
	case Config:
		return "config"
	case Collation:
		return "collation"
	case Template:
		return "template"
	case Render:
		return "render"
	case IO:
		return "io"
	case Lock:
		return "lock"
	default:
		return "unknown"
	}
}

// Error is a build-core error naming the component and source path
// responsible, plus the specific rule violated.
type Error struct {
	Kind      Kind
	Component string // e.g. "collator", "compiler", "watcher"
	Source    string // source path, if any
	Rule      string // the specific rule violated, e.g. "duplicate-href"
	Err       error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("%s: %s", e.Kind, e.Component)
	if e.Source != "" {
		s += ": " + e.Source
	}
	if e.Rule != "" {
		s += fmt.Sprintf(" (%s)", e.Rule)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error.
func New(kind Kind, component, source, rule string, err error) *Error {
	return &Error{Kind: kind, Component: component, Source: source, Rule: rule, Err: err}
}

// KindOf reports the Kind of err, if it (or something it wraps) is a
// *Error, and whether one was found.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Fatal reports whether err must abort the whole build, per the
// fatal-vs-recoverable table: Config and Collation errors are always
// fatal; IO errors on the manifest are not (the caller is expected to
// treat a dirty/unreadable manifest as empty rather than call Fatal).
func Fatal(err error) bool {
	k, ok := KindOf(err)
	if !ok {
		return true
	}
	return k == Config || k == Collation
}
