// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import "go.weft.dev/weft/internal/content"

// buildLinks populates info.Links from every Page discovered by the
// walk. A duplicate href between two distinct sources is a fatal
// Collation error.
func (c *Collator) buildLinks(info *CollateInfo) error {
	var insertErr error
	info.Pages.Range(func(src string, p *content.Page) {
		if insertErr != nil {
			return
		}
		if err := info.Links.Insert(p.Href, src); err != nil {
			insertErr = err
		}
	})
	return insertErr
}
