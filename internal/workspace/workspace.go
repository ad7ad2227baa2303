// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package workspace implements the driver: project discovery, the
// exclusive per-project build lock, and orchestration of collation,
// rendering, and compilation across every enabled language.
package workspace

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"go.weft.dev/weft/internal/collate"
	"go.weft.dev/weft/internal/compile"
	"go.weft.dev/weft/internal/config"
	"go.weft.dev/weft/internal/content"
	"go.weft.dev/weft/internal/feed"
	"go.weft.dev/weft/internal/locale"
	"go.weft.dev/weft/internal/logging"
	"go.weft.dev/weft/internal/manifest"
	"go.weft.dev/weft/internal/markdown"
	"go.weft.dev/weft/internal/render"
	"go.weft.dev/weft/internal/werr"
)

// lockFile is the advisory lock acquired for the duration of a build,
// preventing two weft processes from writing the same project
// concurrently.
const lockFile = "site.lock"

// manifestFile is the incremental-build fingerprint store's file name,
// kept alongside a build's own output under its profile subdirectory.
const manifestFile = "manifest.json"

// Project is one buildable site rooted at Root, with its own Config.
type Project struct {
	Root   string
	Config *config.Config
}

// Discover finds every Project under workspaceRoot: workspaceRoot
// alone if it has a site.toml, otherwise every immediate subdirectory
// that has one (a simple single-level multi-project workspace). A
// directory without a site.toml is never treated as a project.
func Discover(workspaceRoot string) ([]*Project, error) {
	var projects []*Project

	if isProjectRoot(workspaceRoot) {
		cfg, err := config.Load(workspaceRoot)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &Project{Root: workspaceRoot, Config: cfg})
		return projects, nil
	}

	entries, err := os.ReadDir(workspaceRoot)
	if err != nil {
		return nil, werr.New(werr.IO, "workspace", workspaceRoot, "read-dir", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(workspaceRoot, e.Name())
		if !isProjectRoot(dir) {
			continue
		}
		cfg, err := config.Load(dir)
		if err != nil {
			return nil, err
		}
		projects = append(projects, &Project{Root: dir, Config: cfg})
	}
	return projects, nil
}

func isProjectRoot(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, "site.toml"))
	return err == nil
}

// Driver builds one Project: acquiring its lock, collating every
// enabled language, and compiling each into its own output
// subdirectory.
type Driver struct {
	Project    *Project
	OutputRoot string
	Runtime    config.RuntimeOptions
	Logf       logging.Logf

	lock *flock.Flock
}

// NewDriver returns a Driver for project, writing to outputRoot.
func NewDriver(project *Project, outputRoot string, runtime config.RuntimeOptions, logf logging.Logf) *Driver {
	return &Driver{Project: project, OutputRoot: outputRoot, Runtime: runtime, Logf: logf}
}

// Lock acquires the project's exclusive build lock, blocking (with
// retry) until it is free or ctx is cancelled.
func (d *Driver) Lock(ctx context.Context) error {
	d.lock = flock.New(filepath.Join(d.Project.Root, lockFile))
	ok, err := d.lock.TryLockContext(ctx, 200*time.Millisecond)
	if err != nil {
		return werr.New(werr.Lock, "workspace", d.Project.Root, "acquire", err)
	}
	if !ok {
		return werr.New(werr.Lock, "workspace", d.Project.Root, "acquire", context.DeadlineExceeded)
	}
	return nil
}

// Unlock releases the project's build lock.
func (d *Driver) Unlock() error {
	if d.lock == nil {
		return nil
	}
	return d.lock.Unlock()
}

// Build runs one full collate+render+compile pass across every
// enabled language.
func (d *Driver) Build(ctx context.Context) error {
	cfg := d.Project.Config
	idx := locale.NewIndex(cfg.Lang, cfg.Languages)
	loader := content.NewLoader(d.Project.Root)

	d.logf("collating %s", d.Project.Root)
	collator := collate.New(d.Project.Root, cfg, idx, loader)
	infos, err := collator.Collate()
	if err != nil {
		return err
	}

	profileRoot := d.profileRoot()
	manifestPath := filepath.Join(profileRoot, manifestFile)
	mf, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	for _, lang := range idx.Languages() {
		info := infos[lang]
		out := filepath.Join(profileRoot, idx.OutputSubdir(lang))
		d.logf("compiling %s (%s) -> %s", d.Project.Root, lang, out)

		bc := &render.Context{
			Config:   cfg,
			Locale:   idx,
			Info:     info,
			Opts:     d.Runtime,
			Markdown: markdown.New(markdown.Options{Highlight: cfg.Syntax.Enabled, HighlightStyle: cfg.Syntax.Theme}),
		}
		reg, err := render.NewRegistry(d.Project.Root, bc)
		if err != nil {
			return err
		}

		comp := compile.New(reg, bc, mf, out, d.Runtime, compile.Options{Policy: compile.CollectErrors})
		if err := comp.Compile(ctx, info); err != nil {
			return err
		}

		if err := writeRedirects(out, info.Redirects); err != nil {
			return err
		}

		if err := writeFeeds(out, cfg, info); err != nil {
			return err
		}
	}

	return mf.Save(manifestPath)
}

// profileRoot is the active profile's own output subtree,
// build/<profile> under the Driver's output root: every language's
// output and the incremental manifest live under it.
func (d *Driver) profileRoot() string {
	return filepath.Join(d.OutputRoot, string(d.Runtime.Profile))
}

// writeRedirects persists the resolved redirect table as
// redirects.json inside a language's output root, for a reverse
// proxy or edge function to consume.
func writeRedirects(outputRoot string, redirects map[string]string) error {
	if len(redirects) == 0 {
		return nil
	}
	data, err := json.MarshalIndent(redirects, "", "  ")
	if err != nil {
		return werr.New(werr.IO, "workspace", outputRoot, "marshal-redirects", err)
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return werr.New(werr.IO, "workspace", outputRoot, "mkdir", err)
	}
	return os.WriteFile(filepath.Join(outputRoot, "redirects.json"), data, 0o644)
}

// writeFeeds renders cfg.Feeds and writes each to its configured path
// under a language's output root.
func writeFeeds(outputRoot string, cfg *config.Config, info *collate.CollateInfo) error {
	if len(cfg.Feeds) == 0 {
		return nil
	}
	rendered, err := feed.Generate(cfg, info, cfg.Host)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return werr.New(werr.IO, "workspace", outputRoot, "mkdir", err)
	}
	for relPath, xml := range rendered {
		dest := filepath.Join(outputRoot, filepath.FromSlash(relPath))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return werr.New(werr.IO, "workspace", dest, "mkdir", err)
		}
		if err := os.WriteFile(dest, []byte(xml), 0o644); err != nil {
			return werr.New(werr.IO, "workspace", dest, "write-feed", err)
		}
	}
	return nil
}

func (d *Driver) logf(format string, args ...any) {
	if d.Logf != nil {
		d.Logf(format, args...)
	}
}
