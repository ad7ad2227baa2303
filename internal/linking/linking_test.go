// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package linking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHref(t *testing.T) {
	cases := map[string]string{
		"/":            "/index.html",
		"/a":           "/a/index.html",
		"/a/":          "/a/index.html",
		"/a.html":      "/a.html",
		"a/b":          "/a/b/index.html",
		"/a/b.css":     "/a/b.css",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHref(in), "input %q", in)
	}
}

func TestSourceToHref(t *testing.T) {
	root := "/site/"
	assert.Equal(t, "/", SourceToHref(root, "/site/index.md"))
	assert.Equal(t, "/blog/", SourceToHref(root, "/site/blog/index.md"))
	assert.Equal(t, "/blog/hello/", SourceToHref(root, "/site/blog/hello.md"))
	assert.Equal(t, "/about/", SourceToHref(root, "/site/about.md"))
}

func TestTargetPath(t *testing.T) {
	assert.Equal(t, "build/a/index.html", TargetPath("build", "/a/"))
	assert.Equal(t, "build/a.css", TargetPath("build", "/a.css"))
}

func TestIsIndex(t *testing.T) {
	assert.True(t, IsIndex("index.md"))
	assert.False(t, IsIndex("about.md"))
}
