// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

// Package frontmatter splits the TOML (Markdown) or HTML-comment
// (HTML) front-matter header off a source file's contents.
package frontmatter

import (
	"errors"
	"strings"
)

// ErrUnterminated is returned when a front-matter header is opened but
// never closed; it is always fatal to the caller.
var ErrUnterminated = errors.New("unterminated front-matter header")

const tomlFence = "+++"

// Split extracts the front-matter header from contents for a Markdown
// source: a "+++" line, the TOML header, then a closing "+++" line.
// It returns the body (everything after the header), whether a header
// was present, and the raw TOML text (without the fences).
func Split(contents string) (body string, hasFrontMatter bool, raw string, err error) {
	trimmed := strings.TrimLeft(contents, "﻿")
	if !strings.HasPrefix(trimmed, tomlFence) {
		return contents, false, "", nil
	}

	rest := trimmed[len(tomlFence):]
	// A line break right after the opening fence is dropped; the rest of
	// the fence line is not checked.
	rest = strings.TrimPrefix(rest, "\r\n")
	rest = strings.TrimPrefix(rest, "\n")

	idx := findClosingFence(rest)
	if idx < 0 {
		return "", true, "", ErrUnterminated
	}

	raw = rest[:idx]
	after := rest[idx+len(tomlFence):]
	after = strings.TrimPrefix(after, "\r\n")
	after = strings.TrimPrefix(after, "\n")

	return after, true, raw, nil
}

// findClosingFence finds a line that is exactly "+++" (optionally with
// trailing whitespace) and returns the byte offset of its start, or -1
// if none is found.
func findClosingFence(s string) int {
	offset := 0
	for {
		nl := strings.IndexByte(s[offset:], '\n')
		var line string
		lineEnd := offset
		if nl < 0 {
			line = s[offset:]
			lineEnd = len(s)
		} else {
			line = s[offset : offset+nl]
			lineEnd = offset + nl
		}
		if strings.TrimRight(line, " \t\r") == tomlFence {
			return offset
		}
		if nl < 0 {
			return -1
		}
		_ = lineEnd
		offset += nl + 1
		if offset >= len(s) {
			return -1
		}
	}
}

// SplitHTML extracts the front-matter header from an HTML source: a
// leading "<!--" ... "-->" comment. It returns the body (everything
// after the comment), whether a header was present, and the raw text
// inside the comment.
func SplitHTML(contents string) (body string, hasFrontMatter bool, raw string, err error) {
	trimmed := strings.TrimLeft(contents, "﻿ \t\r\n")
	const open = "<!--"
	const closeTag = "-->"

	if !strings.HasPrefix(trimmed, open) {
		return contents, false, "", nil
	}

	rest := trimmed[len(open):]
	idx := strings.Index(rest, closeTag)
	if idx < 0 {
		return "", true, "", ErrUnterminated
	}

	raw = rest[:idx]
	after := rest[idx+len(closeTag):]
	after = strings.TrimPrefix(after, "\r\n")
	after = strings.TrimPrefix(after, "\n")

	return after, true, raw, nil
}
