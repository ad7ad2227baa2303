// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package watch implements the live-rebuild loop: it debounces
// filesystem events, classifies each changed path, and triggers the
// right scope of rebuild, broadcasting a reload over the livereload
// Hub when a rebuild succeeds. Grounded on
// astrophena-site's Serve/watchRecursive/shouldRebuild loop
// (_examples/astrophena-site/site.go), generalized from "always
// rebuild everything" into per-path classification.
package watch

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/livereload"
)

// debounceWindow coalesces bursts of FS events (e.g. an editor's
// write-then-rename) into a single rebuild.
const debounceWindow = 50 * time.Millisecond

// Class is what kind of rebuild a changed path requires.
type Class int

const (
	// ClassIgnored matches shouldRebuild's junk-file filter (editor swap
	// files, OS metadata).
	ClassIgnored Class = iota
	// ClassStructural touches a partial, layout, or helper: every page
	// might depend on it, so the whole project must be recollated and
	// recompiled.
	ClassStructural
	// ClassRenderable is a single content file: force that one page
	// dirty and recompile without a full recollate.
	ClassRenderable
	// ClassResource is a static asset: copy/symlink it without touching
	// any Page.
	ClassResource
	// ClassConfig is site.toml: reload config and do a full rebuild.
	ClassConfig
)

// Classify reports the rebuild scope a changed path (relative to a
// project's site root) requires.
func Classify(rel string) Class {
	base := filepath.Base(rel)
	if isJunkFile(base) {
		return ClassIgnored
	}

	top := strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
	switch top {
	case collate.DirPartials, collate.DirLayouts:
		return ClassStructural
	}
	if rel == collate.ConfigFile {
		return ClassConfig
	}

	ext := filepath.Ext(base)
	if ext == ".md" || ext == ".html" {
		return ClassRenderable
	}
	return ClassResource
}

// isJunkFile matches astrophena-site's shouldRebuild filter
// (_examples/astrophena-site/site.go): OS metadata, Vim's writability
// probe file, and Vim backup files never warrant a rebuild.
func isJunkFile(base string) bool {
	if base == ".DS_Store" || base == "4913" {
		return true
	}
	return strings.HasSuffix(base, "~")
}

// Rebuilder performs one full or partial rebuild; Watcher calls it
// without knowing how collation/compilation are wired together.
type Rebuilder interface {
	// Full recollates and recompiles everything.
	Full(ctx context.Context) error
	// Partial force-dirties src and recompiles just its page.
	Partial(ctx context.Context, src string) error
}

// Watcher owns the fsnotify loop: one rebuild in flight at a time, no
// cancellation of an in-progress rebuild.
type Watcher struct {
	Root      string
	Rebuilder Rebuilder
	Hub       *livereload.Hub
	Logf      func(format string, args ...any)

	fsw *fsnotify.Watcher
}

// New creates a Watcher rooted at root, recursively watching every
// directory under it.
func New(root string, rebuilder Rebuilder, hub *livereload.Hub, logf func(string, ...any)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{Root: root, Rebuilder: rebuilder, Hub: hub, Logf: logf, fsw: fsw}
	if err := watchRecursive(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

func watchRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return w.Add(path)
	})
}

// Run drives the debounce/classify/rebuild loop until ctx is
// cancelled. A rebuild serializes behind the previous one: if events
// keep arriving, Run coalesces them rather than spawning concurrent
// rebuilds.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	pending := map[string]bool{}
	var structural, configChanged bool
	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	timerActive := false

	flush := func() {
		if !structural && !configChanged && len(pending) == 0 {
			return
		}
		if err := w.rebuild(ctx, structural || configChanged, pending); err != nil {
			w.logf("rebuild failed: %v", err)
		} else {
			if w.Hub != nil {
				w.Hub.Broadcast()
			}
		}
		pending = map[string]bool{}
		structural = false
		configChanged = false
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logf("watch error: %v", err)
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			rel, err := filepath.Rel(w.Root, ev.Name)
			if err != nil {
				continue
			}
			switch Classify(rel) {
			case ClassIgnored:
				continue
			case ClassStructural:
				structural = true
			case ClassConfig:
				configChanged = true
			case ClassRenderable, ClassResource:
				pending[ev.Name] = true
			}
			if !timerActive {
				timer.Reset(debounceWindow)
				timerActive = true
			}
		case <-timer.C:
			timerActive = false
			flush()
		}
	}
}

func (w *Watcher) rebuild(ctx context.Context, full bool, pending map[string]bool) error {
	if full {
		w.logf("rebuilding the whole project")
		return w.Rebuilder.Full(ctx)
	}
	for src := range pending {
		w.logf("rebuilding %s", src)
		if err := w.Rebuilder.Partial(ctx, src); err != nil {
			return err
		}
	}
	return nil
}

func (w *Watcher) logf(format string, args ...any) {
	if w.Logf != nil {
		w.Logf(format, args...)
	}
}
