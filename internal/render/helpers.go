// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math/rand"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosimple/slug"

	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/linking"
	"go.weft.dev/weft/internal/werr"
)

// headingOrder maps an "h1".."h6" tag to a 0-based depth, the same
// ordering the Compiler's heading scan uses to filter a table of
// contents by from/to.
var headingOrder = map[string]int{"h1": 0, "h2": 1, "h3": 2, "h4": 3, "h5": 4, "h6": 5}

// Helpers builds the fixed helper catalog bound to bc. bc is shared
// read-only across every concurrent page render; no helper here
// mutates it.
func Helpers(bc *Context) template.FuncMap {
	return template.FuncMap{
		"date":       helperDate,
		"slug":       helperSlug,
		"bytes":      helperBytes,
		"toc":        helperTOC,
		"word":       helperWord,
		"match":      helperMatch,
		"feed":       bc.helperFeed,
		"page":       bc.helperPage,
		"parent":     bc.helperParent,
		"components": helperComponents,
		"sibling":    bc.helperSibling,
		"random":     bc.helperRandom,
		"series":     bc.helperSeries,
		"livereload": bc.helperLiveReload,
		"include":    bc.helperInclude,
		"menu":       bc.helperMenu,
		"json":       helperJSON,
		"markdown":   bc.helperMarkdown,
		"html":       helperHTML,
		"author":     bc.helperAuthor,
		"bookmark":   bc.helperBookmark,
		"permalink":  bc.helperPermalink,
		"fileSize":   bc.helperFileSize,
	}
}

func helperDate(layout string, t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

func helperSlug(s string) string {
	return slug.Make(s)
}

func helperBytes(n int64) string {
	return humanize.Bytes(uint64(n))
}

// helperTOC emits a reserved <toc/> tag the Compiler's post-pass
// expands into a generated table of contents once the full rendered
// body is known. Arguments, all optional and positional, are
// tag ("ol" or "ul", default "ol"), class (default "toc"), from
// (default "h1") and to (default "h6"), matching the original toc
// helper's defaults.
func helperTOC(args ...string) (template.HTML, error) {
	if len(args) > 4 {
		return "", werr.New(werr.Template, "helpers", "", "toc-arity",
			fmt.Errorf("toc: want at most 4 arguments, got %d", len(args)))
	}
	tag, class, from, to := "ol", "toc", "h1", "h6"
	if len(args) > 0 && args[0] != "" {
		tag = args[0]
	}
	if tag != "ol" && tag != "ul" {
		return "", werr.New(werr.Template, "helpers", "", "toc-tag",
			fmt.Errorf("toc: tag must be \"ol\" or \"ul\", got %q", tag))
	}
	if len(args) > 1 && args[1] != "" {
		class = args[1]
	}
	if len(args) > 2 && args[2] != "" {
		from = args[2]
	}
	if len(args) > 3 && args[3] != "" {
		to = args[3]
	}
	if _, ok := headingOrder[from]; !ok {
		return "", werr.New(werr.Template, "helpers", "", "toc-from",
			fmt.Errorf("toc: from must be one of h1..h6, got %q", from))
	}
	if _, ok := headingOrder[to]; !ok {
		return "", werr.New(werr.Template, "helpers", "", "toc-to",
			fmt.Errorf("toc: to must be one of h1..h6, got %q", to))
	}

	return template.HTML(fmt.Sprintf(
		`<toc data-tag=%q data-class=%q data-from=%q data-to=%q/>`,
		tag, class, from, to,
	)), nil
}

// helperWord emits a reserved <words/> tag the Compiler's post-pass
// expands into either a raw word count or an estimated reading time,
// depending on time. avg is the assumed words-per-minute reading
// speed and must be at least 100, matching the original word helper.
func helperWord(args ...any) (template.HTML, error) {
	if len(args) > 2 {
		return "", werr.New(werr.Template, "helpers", "", "word-arity",
			fmt.Errorf("word: want at most 2 arguments, got %d", len(args)))
	}
	timeMode := false
	avg := 250
	if len(args) > 0 {
		b, ok := args[0].(bool)
		if !ok {
			return "", werr.New(werr.Template, "helpers", "", "word-time",
				fmt.Errorf("word: time must be a bool, got %T", args[0]))
		}
		timeMode = b
	}
	if len(args) > 1 {
		n, err := toInt(args[1])
		if err != nil {
			return "", werr.New(werr.Template, "helpers", "", "word-avg", err)
		}
		avg = n
	}
	if avg < 100 {
		return "", werr.New(werr.Template, "helpers", "", "word-avg",
			fmt.Errorf("word: avg must be >= 100, got %d", avg))
	}

	if !timeMode {
		return template.HTML("<words/>"), nil
	}
	return template.HTML(fmt.Sprintf(`<words data-avg=%q/>`, strconv.Itoa(avg))), nil
}

func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("want a number, got %T", v)
	}
}

// stripped reduces href to its human-facing display path: the
// trailing "index.html" the Collator appends to directory-style
// hrefs is stripped, then any trailing slash, so "/a/index.html" and
// "/a/" both become "/a", and the root becomes "".
func stripped(href string) string {
	href = strings.TrimSuffix(href, "index.html")
	href = strings.TrimSuffix(href, "/")
	return href
}

// helperMatch reports whether target names p's current href. With
// exact=false (the default) target matches p's href itself or any of
// its descendants, so match("/a") is true for both "/a" and "/a/b".
// With exact=true, only a literal match (after stripping a trailing
// slash from both sides) counts. An empty target matches only an
// empty href.
func helperMatch(p *content.Page, target string, exact bool) bool {
	if p == nil {
		return false
	}
	current := stripped(linking.NormalizeHref(p.Href))
	want := stripped(linking.NormalizeHref(target))

	if want == "" {
		return current == ""
	}
	if exact {
		return current == want
	}
	return current == want || strings.HasPrefix(current, want+"/")
}

func (bc *Context) helperFeed(name string) string {
	for _, f := range bc.Config.Feeds {
		if f.Name == name {
			return f.Path
		}
	}
	return ""
}

func (bc *Context) helperPage(href string) *content.Page {
	src, ok := bc.Info.Links.HrefToSource(href)
	if !ok {
		return nil
	}
	p, _ := bc.Info.Pages.Get(src)
	return p
}

// helperParent returns the Page one directory level up from p's href,
// if one is collated; otherwise nil.
func (bc *Context) helperParent(p *content.Page) *content.Page {
	if p == nil {
		return nil
	}
	trimmed := strings.TrimSuffix(p.Href, "/index.html")
	if trimmed == "" {
		return nil
	}
	return bc.helperPage(path.Dir(trimmed))
}

// helperComponents splits href into its breadcrumb path components.
func helperComponents(href string) []string {
	trimmed := strings.Trim(strings.TrimSuffix(href, "/index.html"), "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// helperSibling returns the page offset positions away from p within
// its series (offset -1 is previous, +1 is next), or nil if p isn't
// in a series or the offset falls outside it.
func (bc *Context) helperSibling(p *content.Page, offset int) *content.Page {
	if p == nil || p.SeriesName == "" {
		return nil
	}
	members := bc.Info.Series[p.SeriesName]
	idx := p.SeriesIndex + offset
	if idx < 0 || idx >= len(members) {
		return nil
	}
	sib, _ := bc.Info.Pages.Get(members[idx])
	return sib
}

func (bc *Context) helperRandom(n int) []*content.Page {
	var all []*content.Page
	bc.Info.Pages.Range(func(_ string, p *content.Page) {
		all = append(all, p)
	})
	if n >= len(all) {
		return all
	}
	rand.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
	return all[:n]
}

func (bc *Context) helperSeries(name string) []*content.Page {
	members := bc.Info.Series[name]
	out := make([]*content.Page, 0, len(members))
	for _, src := range members {
		if p, ok := bc.Info.Pages.Get(src); ok {
			out = append(out, p)
		}
	}
	return out
}

func (bc *Context) helperLiveReload() template.HTML {
	if !bc.Opts.Live {
		return ""
	}
	return template.HTML(`<script src="/__weft/livereload.js"></script>`)
}

func (bc *Context) helperInclude(name string, data any) (template.HTML, error) {
	s, err := bc.registry.Partial(name, data)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil
}

func (bc *Context) helperMenu(name string) template.HTML {
	m, ok := bc.Info.Menus[name]
	if !ok {
		return ""
	}
	return template.HTML(m.HTML)
}

func helperJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (bc *Context) helperMarkdown(s string) (template.HTML, error) {
	out, err := bc.Markdown.Render(s)
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

func helperHTML(s string) template.HTML {
	return template.HTML(s)
}

func (bc *Context) helperAuthor() string {
	return bc.Config.Author
}

// helperPermalink returns the bare absolute URL for href, joining it
// onto Config.Host.
func (bc *Context) helperPermalink(href string) string {
	if bc.Config.Host == "" {
		return href
	}
	host := strings.TrimSuffix(bc.Config.Host, "/")
	return host + href
}

// helperBookmark wraps helperPermalink's URL in a bookmark link tag,
// paired with permalink per the fixed helper set.
func (bc *Context) helperBookmark(href string) template.HTML {
	url := bc.helperPermalink(href)
	return template.HTML(fmt.Sprintf(`<link rel="bookmark" href=%q>`, url))
}

// helperFileSize reads the size of the file at path, resolved against
// bc.Root. It errors if path escapes the site root or doesn't name a
// regular file.
func (bc *Context) helperFileSize(relPath string) (int64, error) {
	full := filepath.Join(bc.Root, filepath.FromSlash(relPath))

	rel, err := filepath.Rel(bc.Root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0, werr.New(werr.Template, "helpers", relPath, "file-size-escape",
			fmt.Errorf("file-size: path %q escapes the site root", relPath))
	}

	info, err := os.Stat(full)
	if err != nil {
		return 0, werr.New(werr.Template, "helpers", relPath, "file-size-stat", err)
	}
	if info.IsDir() {
		return 0, werr.New(werr.Template, "helpers", relPath, "file-size-not-a-file",
			fmt.Errorf("file-size: %q is a directory, not a file", relPath))
	}
	return info.Size(), nil
}
