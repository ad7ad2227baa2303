// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package config loads site.toml and models the immutable Config and
// the mutable-until-compile RuntimeOptions.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"go.weft.dev/weft/internal/werr"
)

// MenuKind is one of the three ways a menu can be defined.
type MenuKind int

const (
	MenuFile MenuKind = iota
	MenuPages
	MenuDirectory
)

// Menu is a single menu definition from site.toml.
type Menu struct {
	Kind        MenuKind
	File        string   // MenuFile: the partial/page whose compiled contents become the fragment
	Pages       []string // MenuPages: explicit hrefs, declaration order preserved
	Directory   string   // MenuDirectory: directory to list
	Depth       int      // MenuDirectory: 0 means unlimited
	Description string
}

// Feed describes one syndication feed channel (consumed by the feed
// helper).
type Feed struct {
	Name string
	Type string // "atom" or "rss"
	Path string
}

// Syntax controls Markdown code-block highlighting.
type Syntax struct {
	Enabled bool
	Theme   string
}

// Config is the immutable, fully-merged project configuration loaded
// from site.toml. It never changes after Load returns.
type Config struct {
	Title       string
	Description string
	Author      string
	Host        string

	Lang      string   // fallback language
	Languages []string // enabled languages, fallback included

	Menus     map[string]Menu
	Feeds     []Feed
	Redirects map[string]string // source-href -> target-uri
	Syntax    Syntax

	// PaginationSize is the default page-chunk size used when a page's
	// front matter doesn't specify one.
	PaginationSize int
}

// tomlConfig mirrors site.toml's on-disk shape; optional fields use
// pointers so "absent" is distinguishable from the zero value, in the
// style of madstone-tech-loko's internal/adapters/config/loader.go.
type tomlConfig struct {
	Site struct {
		Title       string `toml:"title"`
		Description string `toml:"description"`
		Author      string `toml:"author"`
		Host        string `toml:"host"`
		Lang        string `toml:"lang"`
		Languages   []string `toml:"languages"`
	} `toml:"site"`

	Syntax struct {
		Enabled *bool  `toml:"enabled"`
		Theme   string `toml:"theme"`
	} `toml:"syntax"`

	Pagination struct {
		Size *int `toml:"size"`
	} `toml:"pagination"`

	Redirect map[string]string `toml:"redirect"`

	Menu map[string]struct {
		File        string   `toml:"file"`
		Pages       []string `toml:"pages"`
		Directory   string   `toml:"directory"`
		Depth       *int     `toml:"depth"`
		Description string   `toml:"description"`
	} `toml:"menu"`

	Feed map[string]struct {
		Type string `toml:"type"`
		Path string `toml:"path"`
	} `toml:"feed"`
}

// Default returns a Config with weft's defaults, before any site.toml
// overlay is applied.
func Default() *Config {
	return &Config{
		Title:          "weft site",
		Lang:           "en",
		Languages:      []string{"en"},
		Menus:          map[string]Menu{},
		Redirects:      map[string]string{},
		Syntax:         Syntax{Enabled: false, Theme: "github"},
		PaginationSize: 10,
	}
}

// Load reads site.toml from root (the project directory) and merges
// it onto Default(). A missing site.toml is not an error; the project
// runs with defaults.
func Load(root string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(root, "site.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, werr.New(werr.Config, "config", path, "read", err)
	}

	var tc tomlConfig
	if err := toml.Unmarshal(data, &tc); err != nil {
		return nil, werr.New(werr.Config, "config", path, "parse", err)
	}

	if tc.Site.Title != "" {
		cfg.Title = tc.Site.Title
	}
	if tc.Site.Description != "" {
		cfg.Description = tc.Site.Description
	}
	if tc.Site.Author != "" {
		cfg.Author = tc.Site.Author
	}
	if tc.Site.Host != "" {
		cfg.Host = tc.Site.Host
	}
	if tc.Site.Lang != "" {
		cfg.Lang = tc.Site.Lang
	}
	if len(tc.Site.Languages) > 0 {
		cfg.Languages = tc.Site.Languages
	}
	if !containsStr(cfg.Languages, cfg.Lang) {
		cfg.Languages = append([]string{cfg.Lang}, cfg.Languages...)
	}

	if tc.Syntax.Enabled != nil {
		cfg.Syntax.Enabled = *tc.Syntax.Enabled
	}
	if tc.Syntax.Theme != "" {
		cfg.Syntax.Theme = tc.Syntax.Theme
	}

	if tc.Pagination.Size != nil {
		cfg.PaginationSize = *tc.Pagination.Size
	}

	if len(tc.Redirect) > 0 {
		cfg.Redirects = tc.Redirect
	}

	for name, m := range tc.Menu {
		menu := Menu{Description: m.Description}
		switch {
		case m.File != "":
			menu.Kind = MenuFile
			menu.File = m.File
		case m.Directory != "":
			menu.Kind = MenuDirectory
			menu.Directory = m.Directory
			if m.Depth != nil {
				menu.Depth = *m.Depth
			}
		default:
			menu.Kind = MenuPages
			menu.Pages = m.Pages
		}
		cfg.Menus[name] = menu
	}

	for name, f := range tc.Feed {
		typ := f.Type
		if typ == "" {
			typ = "atom"
		}
		p := f.Path
		if p == "" {
			p = fmt.Sprintf("/%s.xml", name)
		}
		cfg.Feeds = append(cfg.Feeds, Feed{Name: name, Type: typ, Path: p})
	}

	return cfg, nil
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Profile names a build configuration selecting the output
// subdirectory and feature flags. Any non-empty
// string is a valid profile name; these are merely the conventional
// ones used by the CLI shell.
type Profile string

const (
	ProfileDebug   Profile = "debug"
	ProfileRelease Profile = "release"
	ProfileTest    Profile = "test"
)

// RuntimeOptions are the flags that select a build's behavior. They
// are mutable until compilation starts, after which they are shared
// read-only.
type RuntimeOptions struct {
	Profile     Profile
	Live        bool
	Release     bool
	Force       bool
	Incremental bool
	// Paths, if non-empty, restricts the build to these source paths
	// (a subset build: Paths is the outermost filter, Force the inner
	// override).
	Paths []string
}

// DefaultRuntimeOptions returns the options for a plain production
// build: incremental, not forced, not live.
func DefaultRuntimeOptions() RuntimeOptions {
	return RuntimeOptions{
		Profile:     ProfileRelease,
		Incremental: true,
	}
}

// IncludesPath reports whether src passes the Paths filter: true if no
// filter is configured, or src is in the filter set.
func (o RuntimeOptions) IncludesPath(src string) bool {
	if len(o.Paths) == 0 {
		return true
	}
	for _, p := range o.Paths {
		if p == src {
			return true
		}
	}
	return false
}
