// © 2026 The weft authors. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE file.

package content

// Action is what the Compiler does with a Resource: never produces
// HTML.
type Action int

const (
	ActionCopy Action = iota
	ActionSymlink
	ActionIgnore
)

// Resource is a non-rendered source: an asset, data file, or symlink
// target.
type Resource struct {
	Source string
	Target string
	Action Action
	Lang   string // empty for resources shared across all languages
}
