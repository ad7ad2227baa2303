// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/locale"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func newTestIndex() *locale.Index {
	return locale.NewIndex("en", []string{"en"})
}

func TestCollateBasicWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "+++\ntitle = \"Home\"\n+++\nhi\n")
	writeFile(t, filepath.Join(root, "about.md"), "+++\ntitle = \"About\"\n+++\nabout us\n")
	writeFile(t, filepath.Join(root, "resources", "logo.png"), "binary")
	writeFile(t, filepath.Join(root, "style.css"), "body{}")

	cfg := config.Default()
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)

	info := infos["en"]
	require.NotNil(t, info)
	assert.Equal(t, 2, info.Pages.Len())
	assert.Len(t, info.Resources, 2)
}

func TestCollateDuplicateHrefIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "+++\npermalink = \"/same/\"\n+++\na\n")
	writeFile(t, filepath.Join(root, "b.md"), "+++\npermalink = \"/same/\"\n+++\nb\n")

	cfg := config.Default()
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	_, err := c.Collate()
	require.Error(t, err)
}

func TestCollateMenuPages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "index.md"), "+++\ntitle = \"Home\"\n+++\nhi\n")
	writeFile(t, filepath.Join(root, "about.md"), "+++\ntitle = \"About\"\n+++\nabout\n")

	cfg := config.Default()
	cfg.Menus["main"] = config.Menu{
		Kind:  config.MenuPages,
		Pages: []string{"/", "/about/"},
	}
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)

	menu := infos["en"].Menus["main"]
	require.NotNil(t, menu)
	assert.Len(t, menu.Sources, 2)
	assert.Contains(t, menu.HTML, "About")
}

func TestCollateDirectoryMenuSortsByTitle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "blog", "zeta.md"), "+++\ntitle = \"Zeta\"\n+++\nz\n")
	writeFile(t, filepath.Join(root, "blog", "alpha.md"), "+++\ntitle = \"Alpha\"\n+++\na\n")

	cfg := config.Default()
	cfg.Menus["blog"] = config.Menu{Kind: config.MenuDirectory, Directory: "/blog"}
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)

	menu := infos["en"].Menus["blog"]
	require.NotNil(t, menu)
	alphaIdx := indexOfSubstring(menu.HTML, "Alpha")
	zetaIdx := indexOfSubstring(menu.HTML, "Zeta")
	require.True(t, alphaIdx >= 0 && zetaIdx >= 0)
	assert.Less(t, alphaIdx, zetaIdx)
}

func indexOfSubstring(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func TestCollateSeriesOrdering(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p1.md"), "+++\ntitle = \"One\"\nseries = \"trip\"\ndate = \"2024-01-01\"\n+++\n1\n")
	writeFile(t, filepath.Join(root, "p2.md"), "+++\ntitle = \"Two\"\nseries = \"trip\"\ndate = \"2024-02-01\"\n+++\n2\n")

	cfg := config.Default()
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)

	series := infos["en"].Series["trip"]
	require.Len(t, series, 2)
	p1, _ := infos["en"].Pages.Get(series[0])
	assert.Equal(t, "One", p1.Title)
	assert.Equal(t, 0, p1.SeriesIndex)
}

func TestCollateRedirectCycleIsFatal(t *testing.T) {
	root := t.TempDir()
	cfg := config.Default()
	cfg.Redirects = map[string]string{
		"/a/": "/b/",
		"/b/": "/a/",
	}
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	_, err := c.Collate()
	require.Error(t, err)
}

func TestCollatePagination(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "data-sources", "posts.toml"),
		"[[items]]\nid = 1\n[[items]]\nid = 2\n[[items]]\nid = 3\n")
	writeFile(t, filepath.Join(root, "blog.md"),
		"+++\ntitle = \"Blog\"\n[query]\ndata_source = \"posts\"\npage_size = 2\n+++\nlist\n")

	cfg := config.Default()
	c := New(root, cfg, newTestIndex(), content.NewLoader(root))
	infos, err := c.Collate()
	require.NoError(t, err)

	info := infos["en"]
	var found *content.Page
	info.Pages.Range(func(src string, p *content.Page) {
		if p.Title == "Blog" && p.PageNumber == 1 {
			found = p
		}
	})
	require.NotNil(t, found)
	assert.Equal(t, 2, found.PageTotal)

	_, ok := info.Links.HrefToSource("/blog/page/2/")
	assert.True(t, ok)
}
