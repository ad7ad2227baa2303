// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package content

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"go.weft.dev/weft/internal/frontmatter"
	"go.weft.dev/weft/internal/werr"
)

// LayoutDataFile is the per-directory data file inherited by every
// page under it).
const LayoutDataFile = "data.toml"

// Loader builds Pages from source files, merging layout-level data,
// sibling page-level overrides, and front matter.
type Loader struct {
	Root string // the site/ source root
}

// NewLoader returns a Loader rooted at root.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// frontMatterDoc is the subset of front-matter/data fields the loader
// understands directly; anything else lands in Page.Data.
type frontMatterDoc struct {
	Title       string            `toml:"title"`
	Description string            `toml:"description"`
	Layout      string            `toml:"layout"`
	Permalink   string            `toml:"permalink"`
	Draft       bool              `toml:"draft"`
	Date        string            `toml:"date"`
	Type        string            `toml:"type"`
	MetaTags    map[string]string `toml:"meta_tags"`
	Series      string            `toml:"series"`
	Query       *queryDoc         `toml:"query"`
}

type queryDoc struct {
	DataSource string `toml:"data_source"`
	PageSize   int    `toml:"page_size"`
}

// Load reads src (a path under l.Root, opened as given; isHTML selects
// the front-matter delimiter), splits its front matter, merges in layout data and any
// sibling page-level TOML override, and returns a Page with Content
// set to the remaining body.
func (l *Loader) Load(src string, isHTML bool) (*Page, error) {
	raw, err := os.ReadFile(src)
	if err != nil {
		return nil, werr.New(werr.IO, "loader", src, "read", err)
	}

	var body, rawFM string
	var has bool
	if isHTML {
		body, has, rawFM, err = frontmatter.SplitHTML(string(raw))
	} else {
		body, has, rawFM, err = frontmatter.Split(string(raw))
	}
	if err != nil {
		return nil, werr.New(werr.Config, "loader", src, "front-matter", err)
	}

	var doc frontMatterDoc
	var extra map[string]any
	if has && strings.TrimSpace(rawFM) != "" {
		if err := toml.Unmarshal([]byte(rawFM), &doc); err != nil {
			return nil, werr.New(werr.Config, "loader", src, "front-matter-parse", err)
		}
		extra = map[string]any{}
		var generic map[string]any
		if err := toml.Unmarshal([]byte(rawFM), &generic); err == nil {
			for k, v := range generic {
				switch k {
				case "title", "description", "layout", "permalink", "draft", "date", "type", "meta_tags", "series", "query":
					continue
				default:
					extra[k] = v
				}
			}
		}
	}

	layoutData, err := l.inheritedLayoutData(filepath.Dir(src))
	if err != nil {
		return nil, err
	}

	if override, err := l.siblingOverride(src); err != nil {
		return nil, err
	} else if override != nil {
		for k, v := range override {
			layoutData[k] = v
		}
	}
	for k, v := range extra {
		layoutData[k] = v
	}

	p := &Page{
		Title:       doc.Title,
		Description: doc.Description,
		Layout:      doc.Layout,
		Permalink:   doc.Permalink,
		Draft:       doc.Draft,
		Type:        doc.Type,
		MetaTags:    doc.MetaTags,
		SeriesName:  doc.Series,
		Data:        layoutData,
		Content:     body,
		IsHTML:      isHTML,
	}
	if doc.Query != nil {
		p.Query = &Query{DataSource: doc.Query.DataSource, PageSize: doc.Query.PageSize}
	}
	if doc.Date != "" {
		if t, err := time.Parse("2006-01-02", doc.Date); err == nil {
			p.Date = &t
		}
	}

	if fi, err := os.Stat(src); err == nil {
		p.Modified = fi.ModTime()
	}

	if p.Title == "" {
		base := filepath.Base(src)
		if isIndexFile(base) {
			parent := filepath.Base(filepath.Dir(src))
			p.Title = titleCase(parent)
		} else {
			stem := strings.TrimSuffix(base, filepath.Ext(base))
			p.Title = titleCase(stem)
		}
	}

	return p, nil
}

func isIndexFile(base string) bool {
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return stem == "index"
}

// titleCase turns "my-page_name" into "My Page Name".
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// inheritedLayoutData walks from l.Root down to dir, merging each
// directory's LayoutDataFile in parent-to-child order so a deeper
// directory's values win).
func (l *Loader) inheritedLayoutData(dir string) (map[string]any, error) {
	rel, err := filepath.Rel(l.Root, dir)
	if err != nil {
		return nil, werr.New(werr.IO, "loader", dir, "rel", err)
	}
	rel = filepath.ToSlash(rel)

	var parts []string
	if rel != "." {
		parts = strings.Split(rel, "/")
	}

	merged := map[string]any{}
	cur := l.Root
	if err := mergeLayoutFile(cur, merged); err != nil {
		return nil, err
	}
	for _, part := range parts {
		cur = filepath.Join(cur, part)
		if err := mergeLayoutFile(cur, merged); err != nil {
			return nil, err
		}
	}
	return merged, nil
}

func mergeLayoutFile(dir string, into map[string]any) error {
	path := filepath.Join(dir, LayoutDataFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return werr.New(werr.IO, "loader", path, "read-layout-data", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return werr.New(werr.Config, "loader", path, "parse-layout-data", err)
	}
	for k, v := range m {
		into[k] = v
	}
	return nil
}

// siblingOverride returns the page-level override data from
// "<name>.toml" next to src, or nil if it doesn't exist.
func (l *Loader) siblingOverride(src string) (map[string]any, error) {
	stem := strings.TrimSuffix(src, filepath.Ext(src))
	path := stem + ".toml"
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, werr.New(werr.IO, "loader", path, "read-sibling-override", err)
	}
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, werr.New(werr.Config, "loader", path, "parse-sibling-override", err)
	}
	return m, nil
}
