// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package render adapts collated Pages into HTML: it owns the
// layout/partial template registry, the fixed helper catalog, and the
// per-page render call.
package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/locale"
	"go.weft.dev/weft/internal/markdown"
	"go.weft.dev/weft/internal/werr"
)

// Registry holds every layout and partial template, registered under
// a name derived from its path relative to its root directory (e.g.
// "post", "nav/header"), in the style of astrophena-site's
// buildContext.parseTemplates.
type Registry struct {
	layouts  *template.Template
	partials *template.Template
}

// Load walks layoutsDir and partialsDir, parsing every ".html" file
// into the registry under funcs. Helper closures in funcs may
// themselves call back into the registry (e.g. "include"), so Load
// must run after the Registry value exists; see NewRegistry.
func (r *Registry) Load(layoutsDir, partialsDir string, funcs template.FuncMap) error {
	layouts, err := parseTree(layoutsDir, funcs)
	if err != nil {
		return err
	}
	partials, err := parseTree(partialsDir, funcs)
	if err != nil {
		return err
	}
	r.layouts = layouts
	r.partials = partials
	return nil
}

func parseTree(dir string, funcs template.FuncMap) (*template.Template, error) {
	root := template.New("root").Funcs(funcs)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return root, nil
	}

	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".html" {
			return nil
		}
		name, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return relErr
		}
		name = strings.TrimSuffix(name, filepath.Ext(name))
		name = filepath.ToSlash(name)

		body, readErr := os.ReadFile(path)
		if readErr != nil {
			return readErr
		}
		_, parseErr := root.New(name).Parse(string(body))
		return parseErr
	})
	if err != nil {
		return nil, werr.New(werr.Template, "registry", dir, "parse", err)
	}
	return root, nil
}

// Layout renders the named layout into a string with data.
func (r *Registry) Layout(name string, data any) (string, error) {
	t := r.layouts.Lookup(name)
	if t == nil {
		return "", werr.New(werr.Render, "registry", name, "missing-layout", errMissingLayout{name: name})
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", werr.New(werr.Template, "registry", name, "execute-layout", err)
	}
	return buf.String(), nil
}

// Partial renders the named partial into a string with data; used by
// the "include" helper.
func (r *Registry) Partial(name string, data any) (string, error) {
	t := r.partials.Lookup(name)
	if t == nil {
		return "", werr.New(werr.Template, "registry", name, "missing-partial", errMissingPartial{name: name})
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", werr.New(werr.Template, "registry", name, "execute-partial", err)
	}
	return buf.String(), nil
}

type errMissingLayout struct{ name string }

func (e errMissingLayout) Error() string { return "no such layout: " + e.name }

type errMissingPartial struct{ name string }

func (e errMissingPartial) Error() string { return "no such partial: " + e.name }

// NewRegistry builds an empty Registry tied to bc, then loads its
// layouts and partials using the helper catalog bound to bc (helpers
// need the Registry to exist first, for "include" to resolve
// partials against it).
func NewRegistry(root string, bc *Context) (*Registry, error) {
	r := &Registry{}
	bc.registry = r
	bc.Root = root
	funcs := Helpers(bc)
	err := r.Load(
		filepath.Join(root, "layouts"),
		filepath.Join(root, "partials"),
		funcs,
	)
	return r, err
}

// Context is the per-build render environment shared read-only across
// every concurrent page render: one
// Context per (project, language) pair.
type Context struct {
	Config *config.Config
	Locale *locale.Index
	Info   *collate.CollateInfo
	Opts   config.RuntimeOptions

	// Root is the project's site root, used by helpers (e.g. "file-size")
	// that resolve a path argument against the filesystem.
	Root string

	Markdown *markdown.Renderer

	registry *Registry
}
