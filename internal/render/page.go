// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package render

import (
	"html/template"

	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/werr"
)

// pageData is what a layout's dot-context resolves to: the Page
// itself, plus the merged front-matter Data bag under .Data so
// layouts can reach arbitrary extra fields without a helper.
type pageData struct {
	Page *content.Page
	Data map[string]any
	Body template.HTML
}

// RenderPage renders p's body (Markdown through bc.Markdown, or
// passed through unchanged for HTML sources) and wraps it in p's
// layout, returning the final HTML string.
func RenderPage(bc *Context, p *content.Page) (string, error) {
	body := p.Content
	if !p.IsHTML {
		rendered, err := bc.Markdown.Render(body)
		if err != nil {
			return "", werr.New(werr.Render, "render", p.File.Source, "markdown", err)
		}
		body = rendered
	}

	layout := p.Layout
	if layout == "" {
		layout = "default"
	}

	data := pageData{Page: p, Data: p.Data, Body: template.HTML(body)}
	out, err := bc.registry.Layout(layout, data)
	if err != nil {
		return "", err
	}
	return out, nil
}
