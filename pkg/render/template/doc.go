// Package template defines the renderer-agnostic template seam used by the
// section renderers and the composer's document shell. The gotemplate
// sub-package provides the pongo2-backed implementation.
package template
