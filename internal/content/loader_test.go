// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package content

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadBasic(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "index.md")
	writeFile(t, src, "+++\ntitle = \"Home\"\n+++\n# Welcome\n")

	l := NewLoader(root)
	p, err := l.Load(src, false)
	require.NoError(t, err)
	assert.Equal(t, "Home", p.Title)
	assert.Equal(t, "# Welcome\n", p.Content)
}

func TestLoadTitleFromFilename(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "my-page.md")
	writeFile(t, src, "no front matter here\n")

	l := NewLoader(root)
	p, err := l.Load(src, false)
	require.NoError(t, err)
	assert.Equal(t, "My Page", p.Title)
}

func TestLoadTitleFromParentDirForIndex(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "blog-posts", "index.md")
	writeFile(t, src, "content\n")

	l := NewLoader(root)
	p, err := l.Load(src, false)
	require.NoError(t, err)
	assert.Equal(t, "Blog Posts", p.Title)
}

func TestLoadLayoutDataInheritance(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data.toml"), "layout = \"base\"\n")
	writeFile(t, filepath.Join(root, "blog", "data.toml"), "layout = \"post\"\n")
	src := filepath.Join(root, "blog", "hello.md")
	writeFile(t, src, "hi\n")

	l := NewLoader(root)
	p, err := l.Load(src, false)
	require.NoError(t, err)
	assert.Equal(t, "post", p.Data["layout"])
}

func TestLoadSiblingOverride(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "about.md")
	writeFile(t, src, "content\n")
	writeFile(t, filepath.Join(root, "about.toml"), "color = \"blue\"\n")

	l := NewLoader(root)
	p, err := l.Load(src, false)
	require.NoError(t, err)
	assert.Equal(t, "blue", p.Data["color"])
}
