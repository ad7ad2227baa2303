// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package content holds the Page and Resource types produced by
// collation, and the loader that builds a Page from a source file.
package content

import (
	"time"

	"go.weft.dev/weft/internal/locale"
)

// Query describes the data-source slice backing a paginated page.
type Query struct {
	DataSource string
	PageSize   int
}

// File holds the computed filesystem-facing fields of a Page: its
// source path, the template file used to render it, and its output
// target.
type File struct {
	Source   string
	Template string
	Target   string
}

// Page is a logical rendered output: front matter merged with
// inherited defaults, plus computed fields.
type Page struct {
	Title       string
	Description string
	Layout      string // the layout/template name to wrap the rendered body in
	Permalink   string // explicit href override from front matter, if set
	Draft       bool
	Date        *time.Time
	Type        string
	MetaTags    map[string]string
	Data        map[string]any // arbitrary merged layout/page data
	Query       *Query

	// Computed by the Collator.
	Href     string
	File     File
	Modified time.Time
	Lang     locale.ID

	// Pagination: set on every page with a Query, 1 on the original page
	// and 2..N on the synthesized ones.
	PageNumber int
	PageTotal  int

	// Series and menu data. SeriesName comes from front matter;
	// SeriesIndex is back-annotated by series resolution through
	// CollateInfo's single-writer/many-reader container. Collation does
	// not set MenuParent or RedirectFrom.
	SeriesName   string
	SeriesIndex  int
	MenuParent   string // source path of the parent page in a menu tree
	RedirectFrom []string

	// Content is the body without front matter, set by the Loader and
	// consumed by the Compiler. IsHTML is true if the source file was
	// HTML rather than Markdown (so the Compiler skips the Markdown
	// pass for it).
	Content string
	IsHTML  bool
}
