// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package collate

import (
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/frontmatter"
	"go.weft.dev/weft/internal/markdown"
	"go.weft.dev/weft/internal/werr"
)

// buildMenus resolves every menu definition in c.Config.Menus into a
// MenuEntry, one of three ways depending on its Kind.
func (c *Collator) buildMenus(info *CollateInfo) error {
	names := make([]string, 0, len(c.Config.Menus))
	for name := range c.Config.Menus {
		names = append(names, name)
	}
	sortStrings(names)

	for _, name := range names {
		def := c.Config.Menus[name]
		entry, err := c.resolveMenu(info, name, def)
		if err != nil {
			return err
		}
		info.Menus[name] = entry
	}
	return nil
}

func (c *Collator) resolveMenu(info *CollateInfo, name string, def config.Menu) (*MenuEntry, error) {
	switch def.Kind {
	case config.MenuFile:
		return c.resolveFileMenu(name, def)
	case config.MenuDirectory:
		return c.resolveDirectoryMenu(info, name, def)
	default:
		return c.resolvePagesMenu(info, name, def)
	}
}

// resolveFileMenu renders def.File directly: menus of this kind are
// resolved independently of the Compiler's template pass, since
// collation must finish before any Page is rendered.
func (c *Collator) resolveFileMenu(name string, def config.Menu) (*MenuEntry, error) {
	path := filepath.Join(c.Root, filepath.FromSlash(def.File))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, werr.New(werr.Collation, "collator", path, "menu-file:"+name, err)
	}

	ext := filepath.Ext(path)
	var body string
	if ext == ".html" {
		body, _, _, err = frontmatter.SplitHTML(string(raw))
	} else {
		body, _, _, err = frontmatter.Split(string(raw))
	}
	if err != nil {
		return nil, werr.New(werr.Collation, "collator", path, "menu-file-frontmatter:"+name, err)
	}

	fragment := body
	if ext != ".html" {
		r := markdown.New(markdown.Options{})
		fragment, err = r.Render(body)
		if err != nil {
			return nil, werr.New(werr.Collation, "collator", path, "menu-file-render:"+name, err)
		}
	}

	return &MenuEntry{Def: def, Sources: []string{path}, HTML: fragment}, nil
}

func (c *Collator) resolvePagesMenu(info *CollateInfo, name string, def config.Menu) (*MenuEntry, error) {
	sources := make([]string, 0, len(def.Pages))
	for _, href := range def.Pages {
		src, ok := info.Links.HrefToSource(href)
		if !ok {
			return nil, werr.New(werr.Collation, "collator", href, "menu-missing-page:"+name,
				menuMissingPageError{menu: name, href: href})
		}
		sources = append(sources, src)
	}
	return &MenuEntry{Def: def, Sources: sources, HTML: c.renderPageList(info, sources)}, nil
}

type directoryMember struct {
	src, href, title string
}

func (c *Collator) resolveDirectoryMenu(info *CollateInfo, name string, def config.Menu) (*MenuEntry, error) {
	prefix := def.Directory
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}

	var members []directoryMember
	info.Pages.Range(func(src string, p *content.Page) {
		if !strings.HasPrefix(p.Href, prefix) {
			return
		}
		if def.Depth > 0 {
			rest := strings.TrimPrefix(p.Href, prefix)
			rest = strings.TrimSuffix(rest, "index.html")
			rest = strings.Trim(rest, "/")
			if rest != "" && strings.Count(rest, "/")+1 > def.Depth {
				return
			}
		}
		members = append(members, directoryMember{src: src, href: p.Href, title: p.Title})
	})

	sort.Slice(members, func(i, j int) bool { return members[i].title < members[j].title })

	sources := make([]string, 0, len(members))
	var b strings.Builder
	b.WriteString("<ul>")
	for _, m := range members {
		sources = append(sources, m.src)
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(m.href))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(m.title))
		b.WriteString("</a></li>")
	}
	b.WriteString("</ul>")

	return &MenuEntry{Def: def, Sources: sources, HTML: b.String()}, nil
}

func (c *Collator) renderPageList(info *CollateInfo, sources []string) string {
	var b strings.Builder
	b.WriteString("<ul>")
	for _, src := range sources {
		p, ok := info.Pages.Get(src)
		if !ok {
			continue
		}
		href, _ := info.Links.SourceToHref(src)
		b.WriteString(`<li><a href="`)
		b.WriteString(html.EscapeString(href))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(p.Title))
		b.WriteString("</a></li>")
	}
	b.WriteString("</ul>")
	return b.String()
}

type menuMissingPageError struct {
	menu, href string
}

func (e menuMissingPageError) Error() string {
	return "menu " + e.menu + " references unknown page " + e.href
}
