// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import (
	"sort"

	"go.weft.dev/weft/internal/content"
)

// buildSeries groups Pages sharing a SeriesName and orders the group:
// by Date ascending when every member has one, falling back to source
// path order otherwise. SeriesIndex is back-annotated onto each member.
func (c *Collator) buildSeries(info *CollateInfo) {
	type member struct {
		src  string
		page *content.Page
	}
	groups := map[string][]member{}

	info.Pages.Range(func(src string, p *content.Page) {
		if p.SeriesName == "" {
			return
		}
		groups[p.SeriesName] = append(groups[p.SeriesName], member{src: src, page: p})
	})

	for name, members := range groups {
		allDated := true
		for _, m := range members {
			if m.page.Date == nil {
				allDated = false
				break
			}
		}
		sort.Slice(members, func(i, j int) bool {
			if allDated {
				return members[i].page.Date.Before(*members[j].page.Date)
			}
			return members[i].src < members[j].src
		})

		sources := make([]string, len(members))
		for i, m := range members {
			sources[i] = m.src
			idx := i
			info.Pages.Mutate(m.src, func(p *content.Page) {
				p.SeriesIndex = idx
			})
		}
		info.Series[name] = sources
	}
}
