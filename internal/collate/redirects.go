// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import (
	"go.weft.dev/weft/internal/linking"
	"go.weft.dev/weft/internal/werr"
)

// maxRedirectDepth bounds redirect-chain validation.
const maxRedirectDepth = 4

// buildRedirects copies c.Config.Redirects into info after verifying
// every chain is acyclic and no deeper than maxRedirectDepth.
func (c *Collator) buildRedirects(info *CollateInfo) error {
	for src, target := range c.Config.Redirects {
		href := linking.NormalizeHref(src)
		info.Redirects[href] = target
	}

	for src := range info.Redirects {
		if err := c.checkRedirectChain(info, src); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collator) checkRedirectChain(info *CollateInfo, start string) error {
	seen := map[string]bool{start: true}
	cur := start
	for depth := 0; depth < maxRedirectDepth; depth++ {
		next, ok := info.Redirects[cur]
		if !ok {
			return nil // chain terminates at a non-redirect target
		}
		next = linking.NormalizeHref(next)
		if seen[next] {
			return werr.New(werr.Collation, "collator", start, "redirect-cycle",
				redirectCycleError{from: start, at: next})
		}
		seen[next] = true
		cur = next
	}
	if _, ok := info.Redirects[cur]; ok {
		return werr.New(werr.Collation, "collator", start, "redirect-too-deep",
			redirectDepthError{from: start, max: maxRedirectDepth})
	}
	return nil
}

type redirectCycleError struct {
	from, at string
}

func (e redirectCycleError) Error() string {
	return "redirect cycle starting at " + e.from + " revisits " + e.at
}

type redirectDepthError struct {
	from string
	max  int
}

func (e redirectDepthError) Error() string {
	return "redirect chain from " + e.from + " exceeds max depth"
}
