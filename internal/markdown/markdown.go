// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package markdown renders CommonMark (plus tables, footnotes,
// strikethrough and tasklists) to HTML, optionally appending a link
// catalog before parsing and syntax-highlighting fenced code blocks
// after.
package markdown

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	rscmd "rsc.io/markdown"
)

// Options configures a render.
type Options struct {
	// LinkCatalog, when non-nil, is a set of reference-style link
	// definitions ("word" -> target URL) appended to the buffer before
	// parsing, so bare "[word][]" shortcuts resolve without every page
	// having to declare them (ported from uwe-app's autolink catalog,
	// original_source/src/markdown.rs).
	LinkCatalog map[string]string

	// Highlight enables theme-aware syntax highlighting of fenced code
	// blocks, active when the build profile requests it.
	Highlight bool

	// HighlightStyle is the chroma style name (e.g. "monokai"). Empty
	// defaults to "github".
	HighlightStyle string
}

// Renderer parses Markdown into HTML.
type Renderer struct {
	opts Options
}

// New returns a Renderer configured with opts.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts}
}

// Render converts a Markdown document to HTML.
func (r *Renderer) Render(content string) (string, error) {
	buf := []byte(content)

	if len(r.opts.LinkCatalog) > 0 {
		buf = append(buf, '\n')
		buf = append(buf, r.renderLinkCatalog()...)
	}

	p := &rscmd.Parser{
		HeadingID:     true,
		Strikethrough: true,
		TaskList:      true,
		Table:         true,
		Footnote:      true,
	}
	doc := p.Parse(string(buf))
	out := rscmd.ToHTML(doc)

	if r.opts.Highlight {
		out = highlightCodeBlocks(out, r.opts.HighlightStyle)
	}

	return out, nil
}

// renderLinkCatalog renders the configured link catalog as a block of
// reference-style link definitions, sorted by key for determinism.
func (r *Renderer) renderLinkCatalog() []byte {
	keys := make([]string, 0, len(r.opts.LinkCatalog))
	for k := range r.opts.LinkCatalog {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	for _, k := range keys {
		fmt.Fprintf(&buf, "[%s]: %s\n", k, r.opts.LinkCatalog[k])
	}
	return buf.Bytes()
}

var codeBlockRe = regexp.MustCompile(`(?s)<pre><code class="language-([\w+-]+)">(.*?)</code></pre>`)

// highlightCodeBlocks rewrites <pre><code class="language-X">...
// blocks with chroma-highlighted HTML, leaving anything it doesn't
// recognize untouched. It mirrors the Compiler's post-pass rewriter
// for <toc>/<words> placeholders: a single regexp-driven
// streaming substitution over the rendered HTML string.
func highlightCodeBlocks(in, styleName string) string {
	if styleName == "" {
		styleName = "github"
	}
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.TabWidth(4))

	return codeBlockRe.ReplaceAllStringFunc(in, func(match string) string {
		sub := codeBlockRe.FindStringSubmatch(match)
		if sub == nil {
			return match
		}
		lang, escaped := sub[1], sub[2]
		code := html.UnescapeString(escaped)

		lexer := lexers.Get(lang)
		if lexer == nil {
			lexer = lexers.Fallback
		}
		iterator, err := lexer.Tokenise(nil, code)
		if err != nil {
			return match
		}

		var buf bytes.Buffer
		if err := formatter.Format(&buf, style, iterator); err != nil {
			return match
		}
		return buf.String()
	})
}

