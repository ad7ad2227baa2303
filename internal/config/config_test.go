// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, []string{"en"}, cfg.Languages)
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	toml := `
[site]
title = "Example"
lang = "en"
languages = ["en", "fr"]

[syntax]
enabled = true
theme = "monokai"

[redirect]
"/x" = "/y"

[menu.main]
pages = ["/", "/about"]

[menu.docs]
directory = "docs"
depth = 2
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "site.toml"), []byte(toml), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Example", cfg.Title)
	assert.ElementsMatch(t, []string{"en", "fr"}, cfg.Languages)
	assert.True(t, cfg.Syntax.Enabled)
	assert.Equal(t, "monokai", cfg.Syntax.Theme)
	assert.Equal(t, "/y", cfg.Redirects["/x"])

	main := cfg.Menus["main"]
	assert.Equal(t, MenuPages, main.Kind)
	assert.Equal(t, []string{"/", "/about"}, main.Pages)

	docs := cfg.Menus["docs"]
	assert.Equal(t, MenuDirectory, docs.Kind)
	assert.Equal(t, 2, docs.Depth)
}

func TestRuntimeOptionsPathsFilter(t *testing.T) {
	opts := RuntimeOptions{Paths: []string{"a.md"}}
	assert.True(t, opts.IncludesPath("a.md"))
	assert.False(t, opts.IncludesPath("b.md"))

	all := RuntimeOptions{}
	assert.True(t, all.IncludesPath("anything"))
}
