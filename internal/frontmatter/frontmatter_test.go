// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMarkdown(t *testing.T) {
	src := "+++\ntitle = \"Home\"\n+++\n# Welcome\n"
	body, has, raw, err := Split(src)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, "title = \"Home\"\n", raw)
	assert.Equal(t, "# Welcome\n", body)
}

func TestSplitMarkdownNoFrontMatter(t *testing.T) {
	src := "# Welcome\n"
	body, has, _, err := Split(src)
	require.NoError(t, err)
	assert.False(t, has)
	assert.Equal(t, src, body)
}

func TestSplitMarkdownUnterminated(t *testing.T) {
	src := "+++\ntitle = \"Home\"\n# Welcome\n"
	_, _, _, err := Split(src)
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestSplitHTML(t *testing.T) {
	src := "<!--\ntitle = \"Home\"\n-->\n<h1>Welcome</h1>\n"
	body, has, raw, err := SplitHTML(src)
	require.NoError(t, err)
	assert.True(t, has)
	assert.Equal(t, "\ntitle = \"Home\"\n", raw)
	assert.Equal(t, "<h1>Welcome</h1>\n", body)
}

func TestSplitHTMLUnterminated(t *testing.T) {
	src := "<!--\ntitle = \"Home\"\n<h1>Welcome</h1>\n"
	_, _, _, err := SplitHTML(src)
	assert.ErrorIs(t, err, ErrUnterminated)
}
