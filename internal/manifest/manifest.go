// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package manifest implements the modification-time fingerprint store
// that gates incremental builds.
package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.weft.dev/weft/internal/werr"
)

// Entry is a single fingerprint record.
type Entry struct {
	Modified time.Time `json:"modified"`
}

// document is the on-disk JSON shape: {"map": {"<src>": {"modified": "..."}}}.
type document struct {
	Map map[string]Entry `json:"map"`
}

// Manifest maps source path to modification timestamp. The zero value
// is an empty, usable Manifest.
type Manifest struct {
	mu  sync.RWMutex
	m   map[string]Entry
	// path is the file this Manifest was last loaded from or saved to.
	path string
}

// New returns an empty Manifest.
func New() *Manifest {
	return &Manifest{m: make(map[string]Entry)}
}

// Load reads a Manifest from path. A missing file is not an error: an
// IO error on the manifest is non-fatal, and the manifest is treated
// as empty.
func Load(path string) (*Manifest, error) {
	mf := New()
	mf.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return mf, nil
		}
		return mf, nil // IO errors on the manifest are non-fatal.
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return mf, nil
	}
	if doc.Map != nil {
		mf.m = doc.Map
	}
	return mf, nil
}

// Save atomically persists the Manifest as JSON to path: write to a
// temp file in the same directory, then rename.
func (mf *Manifest) Save(path string) error {
	mf.mu.RLock()
	doc := document{Map: make(map[string]Entry, len(mf.m))}
	for k, v := range mf.m {
		doc.Map[k] = v
	}
	mf.mu.RUnlock()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return werr.New(werr.IO, "manifest", path, "marshal", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return werr.New(werr.IO, "manifest", path, "mkdir", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".manifest-*.tmp")
	if err != nil {
		return werr.New(werr.IO, "manifest", path, "create-temp", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return werr.New(werr.IO, "manifest", path, "write", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return werr.New(werr.IO, "manifest", path, "close", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return werr.New(werr.IO, "manifest", path, "rename", err)
	}

	mf.path = path
	return nil
}

// Exists reports whether src has a recorded fingerprint.
func (mf *Manifest) Exists(src string) bool {
	mf.mu.RLock()
	defer mf.mu.RUnlock()
	_, ok := mf.m[src]
	return ok
}

// Touch records the current modification time of src. A missing file
// is a no-op.
func (mf *Manifest) Touch(src string) {
	fi, err := os.Stat(src)
	if err != nil {
		return
	}
	mf.mu.Lock()
	defer mf.mu.Unlock()
	if mf.m == nil {
		mf.m = make(map[string]Entry)
	}
	mf.m[src] = Entry{Modified: fi.ModTime()}
}

// Forget removes src's fingerprint, forcing the next IsDirty check to
// report dirty regardless of mtime.
func (mf *Manifest) Forget(src string) {
	mf.mu.Lock()
	defer mf.mu.Unlock()
	delete(mf.m, src)
}

// Update records current fingerprints for every source in list. Called
// by the Compiler after a successful build, applied in the given
// (source-path-sorted) order so the persisted manifest is
// deterministic.
func (mf *Manifest) Update(sources []string) {
	for _, src := range sources {
		mf.Touch(src)
	}
}

// IsDirty reports whether src must be (re)rendered to dest: true iff
// force, or dest does not exist, or src's mtime is newer than the
// stored fingerprint (or there is no stored fingerprint at all).
func (mf *Manifest) IsDirty(src, dest string, force bool) bool {
	if force {
		return true
	}
	if _, err := os.Stat(dest); err != nil {
		return true
	}

	fi, err := os.Stat(src)
	if err != nil {
		// Can't stat the source; let the caller's own read surface the
		// IO error instead of silently skipping it.
		return true
	}

	mf.mu.RLock()
	entry, ok := mf.m[src]
	mf.mu.RUnlock()
	if !ok {
		return true
	}
	return fi.ModTime().After(entry.Modified)
}

// Equal reports whether mf and other have identical fingerprints,
// used to assert manifest round-trip and incremental-skip invariants
// in tests.
func (mf *Manifest) Equal(other *Manifest) bool {
	mf.mu.RLock()
	defer mf.mu.RUnlock()
	other.mu.RLock()
	defer other.mu.RUnlock()

	if len(mf.m) != len(other.m) {
		return false
	}
	for k, v := range mf.m {
		ov, ok := other.m[k]
		if !ok || !v.Modified.Equal(ov.Modified) {
			return false
		}
	}
	return true
}

// Len reports how many sources have a recorded fingerprint.
func (mf *Manifest) Len() int {
	mf.mu.RLock()
	defer mf.mu.RUnlock()
	return len(mf.m)
}
