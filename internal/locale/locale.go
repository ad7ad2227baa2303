// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package locale implements the locale index: the set of enabled
// language IDs, the fallback language, and locale-suffix detection on
// file names.
package locale

import (
	"strings"
)

// ID is a canonical language tag such as "en" or "fr-ca". Canonical
// form is lowercase with underscores normalized to hyphens, following
// original_source/src/locale.rs.
type ID string

// Canonical normalizes a raw language tag into an ID.
func Canonical(raw string) ID {
	return ID(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", "-")))
}

// Index is the set of enabled languages for a project, plus which one
// is the fallback.
type Index struct {
	fallback ID
	enabled  map[ID]bool
	order    []ID // declaration order, fallback first
}

// NewIndex builds an Index from a fallback language and the full set
// of enabled languages (which must include fallback).
func NewIndex(fallback string, langs []string) *Index {
	idx := &Index{
		fallback: Canonical(fallback),
		enabled:  make(map[ID]bool),
	}
	idx.enabled[idx.fallback] = true
	idx.order = append(idx.order, idx.fallback)
	for _, l := range langs {
		id := Canonical(l)
		if id == idx.fallback {
			continue
		}
		if !idx.enabled[id] {
			idx.enabled[id] = true
			idx.order = append(idx.order, id)
		}
	}
	return idx
}

// Fallback returns the fallback language ID.
func (idx *Index) Fallback() ID { return idx.fallback }

// Languages returns every enabled language, fallback first.
func (idx *Index) Languages() []ID {
	out := make([]ID, len(idx.order))
	copy(out, idx.order)
	return out
}

// Translations returns every enabled language except the fallback.
func (idx *Index) Translations() []ID {
	out := make([]ID, 0, len(idx.order))
	for _, id := range idx.order {
		if id != idx.fallback {
			out = append(out, id)
		}
	}
	return out
}

// Multi reports whether more than one language is enabled.
func (idx *Index) Multi() bool { return len(idx.order) > 1 }

// Enabled reports whether id is one of the enabled languages.
func (idx *Index) Enabled(id ID) bool { return idx.enabled[id] }

// SplitSuffix inspects a file name of the form "<stem>.<lang>.<ext>"
// and, if <lang> is an enabled language ID, returns the conceptual
// unsuffixed name "<stem>.<ext>" and that language. Files with no
// recognized suffix belong to the fallback language and are returned
// unchanged.
//
// name must be a base file name (no directory components).
func (idx *Index) SplitSuffix(name string) (unsuffixed string, lang ID) {
	// Find the last two dot-separated components: ext, then candidate lang.
	ext := extOf(name)
	if ext == "" {
		return name, idx.fallback
	}
	stemWithLang := strings.TrimSuffix(name, ext)
	stemWithLang = strings.TrimSuffix(stemWithLang, ".")
	dot := strings.LastIndex(stemWithLang, ".")
	if dot < 0 {
		return name, idx.fallback
	}
	candidate := Canonical(stemWithLang[dot+1:])
	if !idx.enabled[candidate] {
		return name, idx.fallback
	}
	stem := stemWithLang[:dot]
	return stem + ext, candidate
}

func extOf(name string) string {
	dot := strings.LastIndex(name, ".")
	if dot < 0 {
		return ""
	}
	return name[dot:]
}

// OutputSubdir returns the output subdirectory component for lang
// under a profile directory: "" for the fallback when not Multi, or
// "<lang>" when Multi is true. Once Multi flips on, every language
// nests under its own subdirectory, including the fallback.
func (idx *Index) OutputSubdir(lang ID) string {
	if !idx.Multi() {
		return ""
	}
	return string(lang)
}
