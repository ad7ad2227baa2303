// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package linking implements href <-> filesystem path conversion,
// index-page inference, and URL normalization.
package linking

import (
	"path"
	"path/filepath"
	"strings"
)

// NormalizeHref normalizes href to a form beginning with "/". An href
// without an extension is treated as a directory, with or without a
// trailing "/": "/a" and "/a/" both become "/a/index.html".
func NormalizeHref(href string) string {
	if href == "" {
		href = "/"
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	href = path.Clean(href)
	if href != "/" {
		// path.Clean strips a trailing slash and it is not restored; the
		// extensionless rule below appends "/index.html" either way.
		if strings.HasSuffix(href, "/") {
			// already has it (path.Clean rarely leaves this, but be safe)
		}
	}
	if href == "/" || strings.HasSuffix(href, "/") {
		return href + "index.html"
	}
	if path.Ext(href) == "" {
		return href + "/index.html"
	}
	return href
}

// SourceToHref computes the canonical href for a source path under
// root, stripping root, converting OS separators to "/", and dropping
// the extension; the result ends in "/" and is not passed through
// NormalizeHref. Index pages (stem "index") collapse their parent
// directory's trailing slash: "blog/index.md" under root becomes
// "/blog/", not "/blog/index/".
func SourceToHref(root, src string) string {
	rel := strings.TrimPrefix(src, root)
	rel = strings.TrimPrefix(filepathToSlash(rel), "/")

	dir := path.Dir(rel)
	base := path.Base(rel)
	stem := strings.TrimSuffix(base, path.Ext(base))

	if stem == "index" {
		if dir == "." {
			return "/"
		}
		return "/" + dir + "/"
	}

	if dir == "." {
		return "/" + stem + "/"
	}
	return "/" + dir + "/" + stem + "/"
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// TargetPath computes the on-disk output path for href under an
// output root directory: the normalized href, with its leading "/"
// replaced by the OS path separator join against root.
func TargetPath(outputRoot, href string) string {
	h := NormalizeHref(href)
	h = strings.TrimPrefix(h, "/")
	return filepath.Join(outputRoot, filepath.FromSlash(h))
}

// IsIndex reports whether base (a file base name like "index.md")
// names an index page.
func IsIndex(base string) bool {
	stem := strings.TrimSuffix(base, path.Ext(base))
	return stem == "index"
}
