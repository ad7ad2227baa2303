// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/linking"
	"go.weft.dev/weft/internal/werr"
)

// dataSourceDoc is the on-disk shape of a data-sources/<name>.toml
// file: an array of opaque records, counted but not interpreted.
type dataSourceDoc struct {
	Items []map[string]any `toml:"items"`
}

// buildPagination slices every Query-bearing Page into pages of
// Query.PageSize (or Config.PaginationSize), synthesizing Pages 2..N
// that share the parent's Layout and Data but carry their own
// PageNumber/PageTotal/Href.
func (c *Collator) buildPagination(info *CollateInfo) error {
	var sources []string
	info.Pages.Range(func(src string, p *content.Page) {
		if p.Query != nil {
			sources = append(sources, src)
		}
	})
	sortStrings(sources)

	for _, src := range sources {
		p, ok := info.Pages.Get(src)
		if !ok || p.Query == nil {
			continue
		}
		if err := c.paginatePage(info, src, p); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collator) paginatePage(info *CollateInfo, src string, p *content.Page) error {
	size := p.Query.PageSize
	if size <= 0 {
		size = c.Config.PaginationSize
	}
	if size <= 0 {
		size = 10
	}

	count, err := c.dataSourceCount(p.Query.DataSource)
	if err != nil {
		return err
	}

	total := (count + size - 1) / size
	if total < 1 {
		total = 1
	}

	p.PageNumber = 1
	p.PageTotal = total
	if total <= 1 {
		return nil
	}

	base := strings.TrimSuffix(p.Href, "index.html")
	base = strings.TrimSuffix(base, "/")
	for n := 2; n <= total; n++ {
		href := linking.NormalizeHref(fmt.Sprintf("%s/page/%d/", base, n))
		virtualSrc := fmt.Sprintf("%s#page=%d", src, n)

		child := *p
		child.PageNumber = n
		child.PageTotal = total
		child.Href = href
		child.File = content.File{
			Source:   p.File.Source,
			Template: p.File.Template,
			Target:   href,
		}

		if err := info.Links.Insert(href, virtualSrc); err != nil {
			return err
		}
		info.Pages.set(virtualSrc, &child)
	}
	return nil
}

// dataSourceCount reads data-sources/<name>.toml under the project
// root and counts its items. A missing or unset data source paginates
// to a single page.
func (c *Collator) dataSourceCount(name string) (int, error) {
	if name == "" {
		return 0, nil
	}
	p := filepath.Join(c.Root, "..", DirDataSources, filepath.FromSlash(name)+".toml")
	// data-sources/ lives alongside the site root, not inside it; fall
	// back to a root-relative path if present there too, since
	// projects commonly nest it under site/.
	if _, err := os.Stat(p); err != nil {
		p = filepath.Join(c.Root, DirDataSources, filepath.FromSlash(name)+".toml")
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, werr.New(werr.Collation, "collator", p, "data-source-read", err)
	}

	var doc dataSourceDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return 0, werr.New(werr.Collation, "collator", p, "data-source-parse", err)
	}
	return len(doc.Items), nil
}
