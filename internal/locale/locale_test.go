// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexBasics(t *testing.T) {
	idx := NewIndex("en", []string{"en", "fr", "fr"})
	assert.Equal(t, ID("en"), idx.Fallback())
	assert.True(t, idx.Multi())
	assert.ElementsMatch(t, []ID{"en", "fr"}, idx.Languages())
	assert.ElementsMatch(t, []ID{"fr"}, idx.Translations())
}

func TestSingleLanguageNotMulti(t *testing.T) {
	idx := NewIndex("en", []string{"en"})
	assert.False(t, idx.Multi())
	assert.Empty(t, idx.Translations())
}

func TestSplitSuffix(t *testing.T) {
	idx := NewIndex("en", []string{"en", "fr"})

	name, lang := idx.SplitSuffix("index.fr.md")
	assert.Equal(t, "index.md", name)
	assert.Equal(t, ID("fr"), lang)

	name, lang = idx.SplitSuffix("index.md")
	assert.Equal(t, "index.md", name)
	assert.Equal(t, ID("en"), lang)

	// Unrecognized suffix is just part of the stem.
	name, lang = idx.SplitSuffix("index.draft.md")
	assert.Equal(t, "index.draft.md", name)
	assert.Equal(t, ID("en"), lang)
}

func TestOutputSubdir(t *testing.T) {
	multi := NewIndex("en", []string{"en", "fr"})
	assert.Equal(t, "en", multi.OutputSubdir("en"))
	assert.Equal(t, "fr", multi.OutputSubdir("fr"))

	single := NewIndex("en", []string{"en"})
	assert.Equal(t, "", single.OutputSubdir("en"))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, ID("fr-ca"), Canonical("fr_CA"))
}
