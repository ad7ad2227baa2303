// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package watch

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		rel  string
		want Class
	}{
		{"layouts/default.html", ClassStructural},
		{"partials/nav.html", ClassStructural},
		{"site.toml", ClassConfig},
		{"blog/post.md", ClassRenderable},
		{"about.html", ClassRenderable},
		{"style.css", ClassResource},
		{".DS_Store", ClassIgnored},
		{"notes.md~", ClassIgnored},
	}
	for _, c := range cases {
		if got := Classify(c.rel); got != c.want {
			t.Errorf("Classify(%q) = %v, want %v", c.rel, got, c.want)
		}
	}
}
