// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderBasic(t *testing.T) {
	r := New(Options{})
	out, err := r.Render("# Welcome\n\nHello *world*.\n")
	require.NoError(t, err)
	assert.Contains(t, out, "<h1")
	assert.Contains(t, out, "Welcome")
}

func TestRenderTableStrikethroughTasklist(t *testing.T) {
	r := New(Options{})
	src := "| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n\n- [x] done\n"
	out, err := r.Render(src)
	require.NoError(t, err)
	assert.Contains(t, out, "<table")
	assert.Contains(t, out, "<del>")
	assert.Contains(t, out, "checkbox")
}

func TestRenderLinkCatalog(t *testing.T) {
	r := New(Options{LinkCatalog: map[string]string{"weft": "https://weft.dev"}})
	out, err := r.Render("See [weft][] for details.\n")
	require.NoError(t, err)
	assert.Contains(t, out, `href="https://weft.dev"`)
}

func TestRenderHighlight(t *testing.T) {
	r := New(Options{Highlight: true})
	out, err := r.Render("```go\nfunc main() {}\n```\n")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "func") )
}
