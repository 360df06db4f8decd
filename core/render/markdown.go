// Package render: Markdown renderer.
// Serializes the tree canonically first, then converts that HTML with
// html-to-markdown so both outputs come from the same markup.
package render

import (
	"fmt"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/serialize"
)

// MarkdownRenderer renders the tree as Markdown.
type MarkdownRenderer struct {
	serializer *serialize.Serializer
}

// NewMarkdownRenderer creates a MarkdownRenderer backed by s.
func NewMarkdownRenderer(s *serialize.Serializer) *MarkdownRenderer {
	return &MarkdownRenderer{serializer: s}
}

// Render converts root into Markdown bytes.
func (r *MarkdownRenderer) Render(root *core.Element) ([]byte, error) {
	html, err := r.serializer.Serialize(root)
	if err != nil {
		return nil, fmt.Errorf("serializing: %w", err)
	}
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return nil, fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return []byte(markdown), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}
