package core

import "strings"

// NodeType distinguishes the variants of Node.
type NodeType int

const (
	ElementNode NodeType = iota
	TextNode
)

// Node is either an *Element or a Text.
type Node interface {
	Type() NodeType
}

// Element is a tagged node with attributes and ordered children.
// Tag and attribute names may be namespace-qualified as "{uri}local".
type Element struct {
	Tag      string
	Attrs    map[string]string
	Children []Node
}

// Text is a run of character data.
type Text string

// Type implements Node.
func (e *Element) Type() NodeType { return ElementNode }

// Type implements Node.
func (t Text) Type() NodeType { return TextNode }

// NewElement builds an element with the given attributes and children.
// attrs may be nil.
func NewElement(tag string, attrs map[string]string, children ...Node) *Element {
	return &Element{Tag: tag, Attrs: attrs, Children: children}
}

// LocalName strips a leading "{uri}" qualifier from a tag or attribute name.
func LocalName(name string) string {
	if strings.HasPrefix(name, "{") {
		if i := strings.IndexByte(name, '}'); i >= 0 {
			return name[i+1:]
		}
	}
	return name
}

// Name returns the element's tag without its namespace qualifier.
func (e *Element) Name() string {
	return LocalName(e.Tag)
}

// HasElementChildren reports whether any direct child is an element.
func (e *Element) HasElementChildren() bool {
	for _, c := range e.Children {
		if c.Type() == ElementNode {
			return true
		}
	}
	return false
}
