// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.weft.dev/weft/internal/config"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestDiscoverSingleProject(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "site.toml"), "[site]\ntitle = \"Test\"\n")

	projects, err := Discover(root)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Test", projects[0].Config.Title)
}

func TestDiscoverMultiProjectWorkspace(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blog", "site.toml"), "[site]\ntitle = \"Blog\"\n")
	writeFile(t, filepath.Join(root, "docs", "site.toml"), "[site]\ntitle = \"Docs\"\n")

	projects, err := Discover(root)
	require.NoError(t, err)
	assert.Len(t, projects, 2)
}

func TestDriverBuildWritesOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "site.toml"), "[site]\ntitle = \"Test\"\n")
	writeFile(t, filepath.Join(root, "index.md"), "+++\ntitle = \"Home\"\nlayout = \"default\"\n+++\nhi\n")
	writeFile(t, filepath.Join(root, "layouts", "default.html"), "<html>{{.Body}}</html>")

	cfg, err := config.Load(root)
	require.NoError(t, err)
	proj := &Project{Root: root, Config: cfg}

	out := filepath.Join(root, "_out")
	d := NewDriver(proj, out, config.DefaultRuntimeOptions(), nil)
	require.NoError(t, d.Lock(context.Background()))
	defer d.Unlock()

	require.NoError(t, d.Build(context.Background()))

	data, err := os.ReadFile(filepath.Join(out, "release", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hi")

	_, err = os.Stat(filepath.Join(out, "release", "manifest.json"))
	require.NoError(t, err)
}
