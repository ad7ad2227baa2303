// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "index.md")
	require.NoError(t, os.WriteFile(src, []byte("# hi"), 0o644))

	mf := New()
	mf.Touch(src)

	path := filepath.Join(dir, "manifest.json")
	require.NoError(t, mf.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, mf.Equal(loaded), "manifest should round-trip through save/load")
}

func TestLoadMissingIsEmpty(t *testing.T) {
	mf, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 0, mf.Len())
}

func TestIsDirty(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	dst := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))

	mf := New()

	// No dest yet: dirty.
	assert.True(t, mf.IsDirty(src, dst, false))

	require.NoError(t, os.WriteFile(dst, []byte("<p>a</p>"), 0o644))
	// Dest exists but never touched: dirty.
	assert.True(t, mf.IsDirty(src, dst, false))

	mf.Touch(src)
	assert.False(t, mf.IsDirty(src, dst, false))

	// force always wins.
	assert.True(t, mf.IsDirty(src, dst, true))

	// Advance mtime.
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(src, future, future))
	assert.True(t, mf.IsDirty(src, dst, false))
}

func TestForget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "a.md")
	dst := filepath.Join(dir, "a.html")
	require.NoError(t, os.WriteFile(src, []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(dst, []byte("a"), 0o644))

	mf := New()
	mf.Touch(src)
	require.False(t, mf.IsDirty(src, dst, false))

	mf.Forget(src)
	assert.True(t, mf.IsDirty(src, dst, false))
}
