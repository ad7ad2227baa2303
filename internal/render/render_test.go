// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/locale"
	"go.weft.dev/weft/internal/markdown"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func setupProject(t *testing.T) (string, *collate.CollateInfo, *config.Config) {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "+++\ntitle = \"Home\"\nlayout = \"default\"\n+++\nWelcome\n")
	writeFile(t, filepath.Join(root, "about.md"), "+++\ntitle = \"About\"\nlayout = \"default\"\n+++\nAbout us\n")
	writeFile(t, filepath.Join(root, "layouts", "default.html"),
		`<html><body>{{.Body}}<p>{{match .Page "/" false}}</p>{{menu "main"}}</body></html>`)
	writeFile(t, filepath.Join(root, "partials", "greeting.html"), `Hi, {{.}}!`)

	cfg := config.Default()
	cfg.Menus["main"] = config.Menu{Kind: config.MenuPages, Pages: []string{"/", "/about/"}}
	cfg.Author = "Test Author"

	idx := locale.NewIndex("en", []string{"en"})
	c := collate.New(root, cfg, idx, content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)
	return root, infos["en"], cfg
}

func newContext(root string, info *collate.CollateInfo, cfg *config.Config) (*Context, *Registry) {
	bc := &Context{
		Config:   cfg,
		Locale:   locale.NewIndex("en", []string{"en"}),
		Info:     info,
		Opts:     config.RuntimeOptions{},
		Markdown: markdown.New(markdown.Options{}),
	}
	reg, err := NewRegistry(root, bc)
	if err != nil {
		panic(err)
	}
	return bc, reg
}

func TestRenderPageBasic(t *testing.T) {
	root, info, cfg := setupProject(t)
	bc, _ := newContext(root, info, cfg)

	src := filepath.Join(root, "index.md")
	p, ok := info.Pages.Get(src)
	require.True(t, ok)

	out, err := RenderPage(bc, p)
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome")
	assert.Contains(t, out, "true") // match helper on the home page
	assert.Contains(t, out, "About")
}

func TestHelperInclude(t *testing.T) {
	root, info, cfg := setupProject(t)
	bc, _ := newContext(root, info, cfg)

	out, err := bc.helperInclude("greeting", "World")
	require.NoError(t, err)
	assert.Equal(t, "Hi, World!", string(out))
}

func TestHelperAuthorAndBookmark(t *testing.T) {
	root, info, cfg := setupProject(t)
	bc, _ := newContext(root, info, cfg)

	assert.Equal(t, "Test Author", bc.helperAuthor())

	bc.Config.Host = "https://example.com"
	assert.Equal(t, "https://example.com/about/", bc.helperPermalink("/about/"))
	assert.Equal(t, `<link rel="bookmark" href="https://example.com/about/">`, string(bc.helperBookmark("/about/")))
}

func TestHelperMatch(t *testing.T) {
	root, info, cfg := setupProject(t)
	newContext(root, info, cfg)

	src := filepath.Join(root, "about.md")
	p, ok := info.Pages.Get(src)
	require.True(t, ok)

	assert.True(t, helperMatch(p, "/about", false))
	assert.True(t, helperMatch(p, "/about/", false))
	assert.True(t, helperMatch(p, "/about", true))
	assert.True(t, helperMatch(p, "/about/", true))
	assert.False(t, helperMatch(p, "/", true))
	assert.False(t, helperMatch(p, "/about/sub", false))
}

func TestHelperFileSize(t *testing.T) {
	root, info, cfg := setupProject(t)
	bc, _ := newContext(root, info, cfg)

	size, err := bc.helperFileSize("index.md")
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))

	_, err = bc.helperFileSize("../outside.md")
	require.Error(t, err)

	_, err = bc.helperFileSize("layouts")
	require.Error(t, err)
}

func TestHelperComponentsAndSlug(t *testing.T) {
	assert.Equal(t, []string{"blog", "2024", "hello"}, helperComponents("/blog/2024/hello/index.html"))
	assert.Equal(t, "hello-world", helperSlug("Hello World"))
}
