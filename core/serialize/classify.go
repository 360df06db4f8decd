// Package serialize: element classification.
// Every tag maps to exactly one Category through a fixed precedence chain,
// so the same tag renders with the same strategy anywhere in the tree.
package serialize

import "strings"

// Category selects the rendering strategy for an element.
type Category int

const (
	Void Category = iota
	Raw
	Opaque
	Inline
	Block
)

func (c Category) String() string {
	switch c {
	case Void:
		return "void"
	case Raw:
		return "raw"
	case Opaque:
		return "opaque"
	case Inline:
		return "inline"
	case Block:
		return "block"
	default:
		return "unknown"
	}
}

// voidElements carry no content and never get an end tag.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true,
	"command": true, "embed": true, "hr": true, "img": true,
	"input": true, "keygen": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// rawElements hold verbatim text only.
var rawElements = map[string]bool{
	"xmp": true, "script": true, "style": true,
}

// inlineElements render within a running line of text.
var inlineElements = map[string]bool{
	"a": true, "em": true, "strong": true, "small": true, "s": true,
	"cite": true, "q": true, "dfn": true, "abbr": true, "data": true,
	"time": true, "code": true, "var": true, "samp": true, "kbd": true,
	"sub": true, "sup": true, "i": true, "b": true, "u": true,
	"mark": true, "ruby": true, "bdi": true, "bdo": true, "span": true,
	"br": true, "wbr": true, "img": true, "meter": true, "progress": true,
}

// optionalEndTags are the legacy elements whose closing tag is omitted.
var optionalEndTags = map[string]bool{
	"td": true, "th": true, "tr": true, "thead": true, "tbody": true,
	"tfoot": true, "colgroup": true, "col": true, "li": true, "dt": true,
	"dd": true, "html": true, "head": true, "body": true,
}

// leadingNewlineTags lose one newline directly after their start tag when
// parsed, so content that begins with a newline needs a second one.
var leadingNewlineTags = map[string]bool{
	"pre": true, "listing": true, "textarea": true,
}

// tagSet is one lookup layer. A nil set matches nothing.
type tagSet map[string]bool

func newTagSet(tags []string) tagSet {
	s := make(tagSet, len(tags))
	for _, t := range tags {
		s[t] = true
	}
	return s
}

func (s tagSet) has(tag string) bool { return s[tag] }

// Classifier maps local tag names to categories. The caller's override
// layers are fixed at construction, so a Classifier is safe for concurrent use.
type Classifier struct {
	opaque tagSet
	block  tagSet
}

// NewClassifier creates a Classifier. opaqueTags render their whole subtree
// pre-formatted; blockTags exempt hyphenated custom elements from the
// inline heuristic.
func NewClassifier(opaqueTags, blockTags []string) *Classifier {
	return &Classifier{
		opaque: newTagSet(opaqueTags),
		block:  newTagSet(blockTags),
	}
}

// Classify returns the category of tag: Void, then Raw, then Opaque, then
// Inline, else Block. The first match wins.
func (c *Classifier) Classify(tag string) Category {
	switch {
	case voidElements[tag]:
		return Void
	case rawElements[tag]:
		return Raw
	case c.opaque.has(tag):
		return Opaque
	case c.IsInline(tag):
		return Inline
	default:
		return Block
	}
}

// IsInline is the inline test on its own: the built-in table first, then
// hyphenated names unless the caller's block layer claims them.
func (c *Classifier) IsInline(tag string) bool {
	if inlineElements[tag] {
		return true
	}
	return strings.Contains(tag, "-") && !c.block.has(tag)
}

// OmitsEndTag reports whether tag's closing tag is left out of block output.
func OmitsEndTag(tag string) bool {
	return optionalEndTags[tag]
}
