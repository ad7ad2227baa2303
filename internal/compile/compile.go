// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package compile implements the Compiler: the parallel per-page
// render pass that turns a collated project into its output tree,
// gated by the incremental-build Manifest.
package compile

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	goruntime "runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/manifest"
	"go.weft.dev/weft/internal/render"
	"go.weft.dev/weft/internal/werr"
)

// Policy selects how the Compiler reacts to a page-render error.
type Policy int

const (
	// FailFast aborts the whole compile on the first error.
	FailFast Policy = iota
	// CollectErrors renders every page regardless of earlier failures
	// and returns every error joined together.
	CollectErrors
)

// Options configures a Compiler run.
type Options struct {
	Parallelism int // <=0 means GOMAXPROCS-driven default (New sets it to runtime.GOMAXPROCS(0))
	Policy      Policy
}

// Compiler renders every Page in a CollateInfo and copies/symlinks
// every Resource, skipping up-to-date outputs when incremental builds
// are enabled.
type Compiler struct {
	Registry   *render.Registry
	Context    *render.Context
	Manifest   *manifest.Manifest
	OutputRoot string
	Opts       config.RuntimeOptions
	CompileOpt Options

	mu       sync.Mutex
	rendered []string // source paths actually (re)written, for logging/tests
}

// New returns a Compiler writing into outputRoot.
func New(reg *render.Registry, bc *render.Context, m *manifest.Manifest, outputRoot string, runtime config.RuntimeOptions, opt Options) *Compiler {
	if opt.Parallelism <= 0 {
		opt.Parallelism = goruntime.GOMAXPROCS(0)
	}
	return &Compiler{Registry: reg, Context: bc, Manifest: m, OutputRoot: outputRoot, Opts: runtime, CompileOpt: opt}
}

// Compile renders every page and places every resource from info.
func (c *Compiler) Compile(ctx context.Context, info *collate.CollateInfo) error {
	var sources []string
	info.Pages.Range(func(src string, p *content.Page) {
		sources = append(sources, src)
	})
	sortStrings(sources)

	if c.CompileOpt.Policy == CollectErrors {
		return c.compileCollecting(ctx, info, sources)
	}
	return c.compileFailFast(ctx, info, sources)
}

func (c *Compiler) compileFailFast(ctx context.Context, info *collate.CollateInfo, sources []string) error {
	g, gctx := errgroup.WithContext(ctx)
	if c.CompileOpt.Parallelism > 0 {
		g.SetLimit(c.CompileOpt.Parallelism)
	}

	for _, src := range sources {
		src := src
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			return c.compileOne(info, src)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	c.applyManifest()
	return c.placeResources(info)
}

func (c *Compiler) compileCollecting(ctx context.Context, info *collate.CollateInfo, sources []string) error {
	g, _ := errgroup.WithContext(ctx)
	if c.CompileOpt.Parallelism > 0 {
		g.SetLimit(c.CompileOpt.Parallelism)
	}

	var mu sync.Mutex
	var errs error

	for _, src := range sources {
		src := src
		g.Go(func() error {
			if err := c.compileOne(info, src); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	c.applyManifest()
	if err := c.placeResources(info); err != nil {
		errs = multierr.Append(errs, err)
	}
	return errs
}

// applyManifest records fingerprints for every page rendered by the
// just-finished worker pool, applied in source-path-sorted order so
// the persisted manifest is deterministic regardless of the order
// workers happened to finish in.
func (c *Compiler) applyManifest() {
	c.mu.Lock()
	sources := append([]string(nil), c.rendered...)
	c.mu.Unlock()
	sortStrings(sources)
	c.Manifest.Update(sources)
}

func (c *Compiler) compileOne(info *collate.CollateInfo, src string) error {
	p, ok := info.Pages.Get(src)
	if !ok {
		return nil
	}
	if !c.Opts.IncludesPath(src) {
		return nil
	}
	if p.Draft && c.Opts.Profile == config.ProfileRelease {
		return nil
	}

	dest := filepath.Join(c.OutputRoot, filepath.FromSlash(strings.TrimPrefix(p.Href, "/")))
	if c.Opts.Incremental && !c.Opts.Force && !c.Manifest.IsDirty(src, dest, c.Opts.Force) {
		return nil
	}

	out, err := render.RenderPage(c.Context, p)
	if err != nil {
		return err
	}
	out = rewritePlaceholders(out)

	if err := writeAtomic(dest, out); err != nil {
		return werr.New(werr.IO, "compiler", dest, "write", err)
	}

	c.mu.Lock()
	c.rendered = append(c.rendered, src)
	c.mu.Unlock()
	return nil
}

func (c *Compiler) placeResources(info *collate.CollateInfo) error {
	var errs error
	for _, r := range info.Resources {
		dest := filepath.Join(c.OutputRoot, filepath.FromSlash(r.Target))
		if c.Opts.Incremental && !c.Opts.Force && !c.Manifest.IsDirty(r.Source, dest, c.Opts.Force) {
			continue
		}
		if err := placeOne(r, dest); err != nil {
			errs = multierr.Append(errs, werr.New(werr.IO, "compiler", r.Source, "place-resource", err))
			continue
		}
		c.Manifest.Touch(r.Source)
	}
	return errs
}

func placeOne(r content.Resource, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	switch r.Action {
	case content.ActionSymlink:
		os.Remove(dest)
		return os.Symlink(r.Source, dest)
	case content.ActionIgnore:
		return nil
	default:
		data, err := os.ReadFile(r.Source)
		if err != nil {
			return err
		}
		return os.WriteFile(dest, data, 0o644)
	}
}

func writeAtomic(dest, contents string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, []byte(contents), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, dest)
}

var (
	tocRe       = regexp.MustCompile(`<toc data-tag="([^"]*)" data-class="([^"]*)" data-from="([^"]*)" data-to="([^"]*)"/>`)
	wordsAvgRe  = regexp.MustCompile(`<words data-avg="(\d+)"/>`)
	wordsBareRe = regexp.MustCompile(`<words/>`)
	wordRe      = regexp.MustCompile(`\S+`)
)

// headingOrder maps an "h1".."h6" tag to a 0-based depth, mirroring
// the render package's toc helper validation.
var headingOrder = map[string]int{"h1": 0, "h2": 1, "h3": 2, "h4": 3, "h5": 4, "h6": 5}

// rewritePlaceholders replaces the toc/word helper placeholders with
// their final values, computed from the fully-rendered body: a single
// regexp-driven streaming substitution, the same technique the
// markdown package uses for syntax highlighting. The word count is
// computed once, from the body before any toc expansion, so a
// generated table of contents never inflates it.
func rewritePlaceholders(html string) string {
	count := len(wordRe.FindAllString(stripTags(html), -1))

	if strings.Contains(html, "<words") {
		html = wordsAvgRe.ReplaceAllStringFunc(html, func(m string) string {
			sub := wordsAvgRe.FindStringSubmatch(m)
			avg, err := strconv.Atoi(sub[1])
			if err != nil || avg <= 0 {
				avg = 250
			}
			minutes := count / avg
			if minutes < 1 {
				minutes = 1
			}
			return strconv.Itoa(minutes)
		})
		html = wordsBareRe.ReplaceAllString(html, strconv.Itoa(count))
	}

	if strings.Contains(html, "<toc") {
		html = tocRe.ReplaceAllStringFunc(html, func(m string) string {
			sub := tocRe.FindStringSubmatch(m)
			return buildTOC(html, sub[1], sub[2], sub[3], sub[4])
		})
	}

	return html
}

var tagRe = regexp.MustCompile(`<[^>]*>`)

func stripTags(html string) string {
	return tagRe.ReplaceAllString(html, " ")
}

var headingRe = regexp.MustCompile(`(?is)<h([1-6])[^>]*id="([^"]+)"[^>]*>(.*?)</h[1-6]>`)

// buildTOC scans html for headings with an id attribute (set by the
// Markdown renderer's HeadingID option) inside [from,to] and renders
// them as a tag-typed list with class, honoring the toc helper's
// arguments.
func buildTOC(html, tag, class, from, to string) string {
	lo, hi := headingOrder[from], headingOrder[to]
	matches := headingRe.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(tag)
	if class != "" {
		b.WriteString(` class="`)
		b.WriteString(class)
		b.WriteString(`"`)
	}
	b.WriteString(">")
	for _, m := range matches {
		level := headingOrder["h"+m[1]]
		if level < lo || level > hi {
			continue
		}
		b.WriteString(`<li><a href="#`)
		b.WriteString(m[2])
		b.WriteString(`">`)
		b.WriteString(stripTags(m[3]))
		b.WriteString("</a></li>")
	}
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">")
	return b.String()
}

func sortStrings(s []string) { sort.Strings(s) }
