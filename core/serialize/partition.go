// Package serialize: block partitioning.
// A block element's children are split into segments: nested block elements
// that get their own line, and anonymous Runs of inline siblings that share one.
package serialize

import (
	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/normalize"
)

// Segment is either a Run or a Nested block element.
type Segment interface {
	segment()
}

// Run is a contiguous group of inline siblings rendered as one line.
// It borrows its nodes from the tree for the duration of a render.
type Run []core.Node

// Nested is a child element that occupies its own line.
type Nested struct {
	Element *core.Element
}

func (Run) segment()    {}
func (Nested) segment() {}

// blank reports whether the run carries nothing but one whitespace text node.
func (r Run) blank() bool {
	if len(r) == 0 {
		return true
	}
	if len(r) != 1 {
		return false
	}
	t, ok := r[0].(core.Text)
	return ok && normalize.IsBlank(string(t))
}

// breaksLine reports whether n is an element that does not flow inline.
func (c *Classifier) breaksLine(n core.Node) bool {
	el, ok := n.(*core.Element)
	return ok && !c.IsInline(el.Name())
}

// Partition groups children into segments in document order. Runs that hold
// only insignificant whitespace between two block elements are dropped.
func (c *Classifier) Partition(children []core.Node) []Segment {
	var segments []Segment
	var pending Run
	flush := func() {
		if !pending.blank() {
			segments = append(segments, pending)
		}
		pending = nil
	}
	for _, child := range children {
		if c.breaksLine(child) {
			flush()
			segments = append(segments, Nested{Element: child.(*core.Element)})
			continue
		}
		pending = append(pending, child)
	}
	flush()
	return segments
}

// contentKind is how a block element lays out its children.
type contentKind int

const (
	contentEmpty contentKind = iota
	contentInlines
	contentBlocks
)

// kindOf inspects the direct children of el.
func (c *Classifier) kindOf(el *core.Element) contentKind {
	for _, child := range el.Children {
		if c.breaksLine(child) {
			return contentBlocks
		}
	}
	if el.HasElementChildren() {
		return contentInlines
	}
	for _, child := range el.Children {
		if t, ok := child.(core.Text); ok && !normalize.IsBlank(string(t)) {
			return contentInlines
		}
	}
	return contentEmpty
}
