// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package collate implements the Collator: the single pass that walks
// a project's site root, classifies every entry, and builds the
// per-language CollateInfo graph that the Compiler renders.
package collate

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	gitignore "github.com/sabhiram/go-gitignore"

	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/linking"
	"go.weft.dev/weft/internal/locale"
	"go.weft.dev/weft/internal/werr"
)

// Names the Collator handles specially. The walk skips partials,
// layouts, data-sources, locales, book, theme and hooks (each owned by
// a different subsystem) and the site.toml config file; every file
// under resources and assets is copied as a Resource.
const (
	DirPartials    = "partials"
	DirLayouts     = "layouts"
	DirDataSources = "data-sources"
	DirLocales     = "locales"
	DirResources   = "resources"
	DirAssets      = "assets"
	DirBook        = "book"
	DirTheme       = "theme"
	DirHooks       = "hooks"
	ConfigFile     = "site.toml"
)

// staticExts are the extensions classified as a Resource when found
// outside a bulk resource directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".svg": true, ".webp": true, ".ico": true, ".woff": true,
	".woff2": true, ".ttf": true, ".pdf": true, ".json": true, ".xml": true,
	".txt": true, ".mp4": true, ".webm": true, ".mp3": true,
}

func renderableExt(ext string) bool {
	return ext == ".md" || ext == ".html"
}

// PageTable is CollateInfo's single-writer/many-reader container for
// Pages: menus and series back-annotate data onto Pages after the
// initial walk, so mutation must be serialized against concurrent
// readers.
type PageTable struct {
	mu    sync.RWMutex
	pages map[string]*content.Page // source path -> Page
}

func newPageTable() *PageTable {
	return &PageTable{pages: make(map[string]*content.Page)}
}

func (t *PageTable) set(src string, p *content.Page) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pages[src] = p
}

// Get returns the Page for src and whether it exists.
func (t *PageTable) Get(src string) (*content.Page, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	p, ok := t.pages[src]
	return p, ok
}

// Mutate calls fn with exclusive access to the Page at src, if it
// exists. Used by menu/series resolution to back-annotate fields.
func (t *PageTable) Mutate(src string, fn func(*content.Page)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if p, ok := t.pages[src]; ok {
		fn(p)
	}
}

// Range calls fn for every (source, Page) pair, in a consistent
// snapshot. Iteration order is not guaranteed.
func (t *PageTable) Range(fn func(src string, p *content.Page)) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for src, p := range t.pages {
		fn(src, p)
	}
}

// Len reports how many Pages are tracked.
func (t *PageTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.pages)
}

// Links is the bijective href <-> source-path mapping.
type Links struct {
	mu      sync.RWMutex
	fwd     map[string]string // href -> source
	rev     map[string]string // source -> href
}

func newLinks() *Links {
	return &Links{fwd: map[string]string{}, rev: map[string]string{}}
}

// Insert records (href, source), after normalizing href. It returns a
// Collation error if href is already claimed by a different source.
func (l *Links) Insert(href, source string) error {
	href = linking.NormalizeHref(href)

	l.mu.Lock()
	defer l.mu.Unlock()
	if existing, ok := l.fwd[href]; ok && existing != source {
		return werr.New(werr.Collation, "collator", source, "duplicate-href:"+href,
			duplicateHrefError{href: href, a: existing, b: source})
	}
	l.fwd[href] = source
	l.rev[source] = href
	return nil
}

// HrefToSource resolves href (after normalization) to its source
// path.
func (l *Links) HrefToSource(href string) (string, bool) {
	href = linking.NormalizeHref(href)
	l.mu.RLock()
	defer l.mu.RUnlock()
	s, ok := l.fwd[href]
	return s, ok
}

// SourceToHref resolves a source path to its href.
func (l *Links) SourceToHref(source string) (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	h, ok := l.rev[source]
	return h, ok
}

type duplicateHrefError struct {
	href, a, b string
}

func (e duplicateHrefError) Error() string {
	return "href " + e.href + " claimed by both " + e.a + " and " + e.b
}

// MenuEntry is a resolved menu: its definition, the ordered list of
// member source paths, and the pre-rendered HTML fragment.
type MenuEntry struct {
	Def     config.Menu
	Sources []string
	HTML    string
}

// CollateInfo is the derived graph for one language.
type CollateInfo struct {
	Lang      locale.ID
	Resources []content.Resource
	Pages     *PageTable
	Links     *Links
	Menus     map[string]*MenuEntry
	Series    map[string][]string // series name -> ordered source paths
	Redirects map[string]string   // source href -> target href/URI
}

func newCollateInfo(lang locale.ID) *CollateInfo {
	return &CollateInfo{
		Lang:      lang,
		Pages:     newPageTable(),
		Links:     newLinks(),
		Menus:     map[string]*MenuEntry{},
		Series:    map[string][]string{},
		Redirects: map[string]string{},
	}
}

// Loader is the subset of content.Loader the Collator needs, so tests
// can substitute a fake.
type Loader interface {
	Load(src string, isHTML bool) (*content.Page, error)
}

// Collator builds a CollateInfo per enabled language from a project's
// site root.
type Collator struct {
	Root   string
	Config *config.Config
	Locale *locale.Index
	Loader Loader

	ignore *gitignore.GitIgnore
}

// New returns a Collator for root, loading .gitignore/.ignore if
// present.
func New(root string, cfg *config.Config, idx *locale.Index, loader Loader) *Collator {
	c := &Collator{Root: root, Config: cfg, Locale: idx, Loader: loader}
	c.ignore = loadIgnore(root)
	return c
}

func loadIgnore(root string) *gitignore.GitIgnore {
	var lines []string
	for _, name := range []string{".gitignore", ".ignore"} {
		data, err := os.ReadFile(filepath.Join(root, name))
		if err != nil {
			continue
		}
		lines = append(lines, strings.Split(string(data), "\n")...)
	}
	if len(lines) == 0 {
		return nil
	}
	return gitignore.CompileIgnoreLines(lines...)
}

// Collate performs the full walk and derivation, returning one
// CollateInfo per enabled language.
func (c *Collator) Collate() (map[locale.ID]*CollateInfo, error) {
	infos := make(map[locale.ID]*CollateInfo, len(c.Locale.Languages()))
	for _, lang := range c.Locale.Languages() {
		infos[lang] = newCollateInfo(lang)
	}

	if err := c.walk(infos); err != nil {
		return nil, err
	}

	for _, info := range infos {
		if err := c.buildLinks(info); err != nil {
			return nil, err
		}
	}
	for _, info := range infos {
		if err := c.buildMenus(info); err != nil {
			return nil, err
		}
		c.buildSeries(info)
		if err := c.buildRedirects(info); err != nil {
			return nil, err
		}
		if err := c.buildPagination(info); err != nil {
			return nil, err
		}
	}

	return infos, nil
}

func (c *Collator) walk(infos map[locale.ID]*CollateInfo) error {
	return filepath.WalkDir(c.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == c.Root {
			return nil
		}
		rel, relErr := filepath.Rel(c.Root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)

		if c.ignore != nil && c.ignore.MatchesPath(rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		top := strings.SplitN(rel, "/", 2)[0]
		switch top {
		case DirPartials, DirLayouts, DirDataSources, DirLocales, DirBook, DirTheme, DirHooks:
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && rel == ConfigFile {
			return nil
		}

		if d.IsDir() {
			return nil
		}

		if top == DirResources || top == DirAssets {
			return c.addBulkResource(infos, path, rel)
		}

		return c.classifyFile(infos, path, rel)
	})
}

func (c *Collator) addBulkResource(infos map[locale.ID]*CollateInfo, path, rel string) error {
	for _, info := range infos {
		info.Resources = append(info.Resources, content.Resource{
			Source: path,
			Target: rel,
			Action: content.ActionCopy,
		})
	}
	return nil
}

func (c *Collator) classifyFile(infos map[locale.ID]*CollateInfo, path, rel string) error {
	base := filepath.Base(path)
	ext := filepath.Ext(base)

	if renderableExt(ext) {
		return c.classifyRenderable(infos, path, base, ext)
	}
	if staticExts[ext] {
		for _, info := range infos {
			info.Resources = append(info.Resources, content.Resource{
				Source: path,
				Target: rel,
				Action: content.ActionCopy,
			})
		}
		return nil
	}
	// Ignored: unrecognized extension (e.g. sibling ".toml" overrides,
	// "data.toml" layout files).
	return nil
}

func (c *Collator) classifyRenderable(infos map[locale.ID]*CollateInfo, path, base, ext string) error {
	unsuffixed, lang := c.Locale.SplitSuffix(base)
	info := infos[lang]

	isHTML := ext == ".html"
	p, err := c.Loader.Load(path, isHTML)
	if err != nil {
		return err
	}
	p.Lang = lang

	canonicalSrc := filepath.Join(filepath.Dir(path), unsuffixed)
	href := p.Permalink
	if href == "" {
		href = linking.SourceToHref(c.Root, canonicalSrc)
	}
	href = linking.NormalizeHref(href)

	p.Href = href
	p.File = content.File{
		Source:   path,
		Template: path,
		Target:   linking.TargetPath("", href), // relative; the Compiler derives its own destination from Href
	}

	info.Pages.set(path, p)
	return nil
}

// sortStrings is a small helper kept local to avoid importing sort in
// every file that needs a stable order.
func sortStrings(s []string) { sort.Strings(s) }
