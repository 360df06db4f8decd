// Package render provides output renderers for the canonhtml pipeline.
// This file implements the HTML renderer, the canonical output format.
package render

import (
	"fmt"

	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/serialize"
)

// HTMLRenderer writes the canonical serialization of the tree.
type HTMLRenderer struct {
	serializer *serialize.Serializer
}

// NewHTMLRenderer creates an HTMLRenderer backed by s.
func NewHTMLRenderer(s *serialize.Serializer) *HTMLRenderer {
	return &HTMLRenderer{serializer: s}
}

// Render serializes root.
func (r *HTMLRenderer) Render(root *core.Element) ([]byte, error) {
	out, err := r.serializer.Serialize(root)
	if err != nil {
		return nil, fmt.Errorf("serializing: %w", err)
	}
	return []byte(out), nil
}

// Extension returns the file extension for HTML output.
func (r *HTMLRenderer) Extension() string {
	return ".html"
}
