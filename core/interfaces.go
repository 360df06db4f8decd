// Package core defines the document tree and the pipeline interfaces for canonhtml.
// Each stage of the pipeline is a clean, testable interface.
package core

import "context"

// Extractor turns raw HTML into the document tree that gets serialized.
type Extractor interface {
	Extract(html string) (*Element, error)
}

// Renderer converts a document tree into a final output format.
type Renderer interface {
	Render(root *Element) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".html", ".md").
	Extension() string
}

// Fetcher retrieves a named reference-data file from a remote source.
type Fetcher interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}
