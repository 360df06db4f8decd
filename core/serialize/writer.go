// Package serialize renders a document tree as canonical, indented HTML.
//
// Each element is classified (see Classifier) and written with the strategy
// of its category:
//
//   - void elements emit a start tag only
//   - raw elements (script, style, xmp) emit their text verbatim
//   - opaque elements, and everything inside them, keep their exact whitespace
//   - inline elements flow on the current line with normalized edge whitespace
//   - block elements get their own line, and their block children are indented
//     one space per level
//
// Output is deterministic: attributes are sorted by name and indentation
// depends only on tree shape.
package serialize

import (
	"io"
	"sort"
	"strings"

	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/normalize"
)

// Doctype prefixes every serialized document.
const Doctype = "<!doctype html>"

// Context is the per-call rendering state threaded down the recursion.
// It is passed by value and never stored.
type Context struct {
	Indent   int
	InPre    bool
	InInline bool
}

// nested is the context of a block child one level deeper.
func (ctx Context) nested() Context {
	ctx.Indent++
	return ctx
}

// Indentation only applies to block layout, so entering pre-formatted or
// inline content resets it.
func preContext() Context    { return Context{InPre: true} }
func inlineContext() Context { return Context{InInline: true} }

// Serializer renders trees. It holds no per-call state, so one Serializer
// may serve concurrent calls on independent trees.
type Serializer struct {
	classifier *Classifier
}

// New creates a Serializer with the caller's opaque and block overrides.
func New(opaqueTags, blockTags []string) *Serializer {
	return &Serializer{classifier: NewClassifier(opaqueTags, blockTags)}
}

// Serialize renders root as a complete document starting with the doctype.
func (s *Serializer) Serialize(root *core.Element) (string, error) {
	var buf strings.Builder
	buf.WriteString(Doctype)
	w := &writer{classifier: s.classifier, buf: &buf}
	if err := w.element(root, Context{}); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SerializeTo renders root into out. Nothing is written if rendering fails.
func (s *Serializer) SerializeTo(out io.Writer, root *core.Element) error {
	str, err := s.Serialize(root)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, str)
	return err
}

// writer owns the output buffer of one Serialize call.
type writer struct {
	classifier *Classifier
	buf        *strings.Builder
}

// categoryIn folds the inherited context into the element's own category.
// Void and raw elements keep their category even inside opaque or inline
// content.
func (w *writer) categoryIn(tag string, ctx Context) Category {
	cat := w.classifier.Classify(tag)
	switch {
	case cat <= Raw:
		return cat
	case ctx.InPre:
		return Opaque
	case cat == Opaque:
		return Opaque
	case ctx.InInline:
		return Inline
	default:
		return cat
	}
}

func (w *writer) element(el *core.Element, ctx Context) error {
	tag := el.Name()
	switch w.categoryIn(tag, ctx) {
	case Void:
		w.indent(ctx.Indent)
		w.startTag(tag, el)
		return nil
	case Raw:
		return w.raw(tag, el)
	case Opaque:
		return w.opaque(tag, el)
	case Inline:
		w.startTag(tag, el)
		if err := w.inline(el.Children); err != nil {
			return err
		}
		w.endTag(tag)
		return nil
	default:
		return w.block(tag, el, ctx)
	}
}

func (w *writer) raw(tag string, el *core.Element) error {
	w.startTag(tag, el)
	for _, child := range el.Children {
		switch n := child.(type) {
		case *core.Element:
			return &RawChildError{Tag: tag, Child: n.Name()}
		case core.Text:
			w.buf.WriteString(string(n))
		}
	}
	w.endTag(tag)
	return nil
}

func (w *writer) opaque(tag string, el *core.Element) error {
	w.startTag(tag, el)
	if leadingNewlineTags[tag] && startsWithNewline(el.Children) {
		w.buf.WriteByte('\n')
	}
	for _, child := range el.Children {
		switch n := child.(type) {
		case *core.Element:
			if err := w.element(n, preContext()); err != nil {
				return err
			}
		case core.Text:
			w.buf.WriteString(escapeText(string(n)))
		}
	}
	w.endTag(tag)
	return nil
}

// inline writes nodes on the current line. It serves both inline elements
// and anonymous Runs, which have no tags of their own.
func (w *writer) inline(nodes []core.Node) error {
	for _, child := range nodes {
		switch n := child.(type) {
		case *core.Element:
			if err := w.element(n, inlineContext()); err != nil {
				return err
			}
		case core.Text:
			w.buf.WriteString(escapeText(normalize.Whitespace(string(n))))
		}
	}
	return nil
}

func (w *writer) block(tag string, el *core.Element, ctx Context) error {
	w.indent(ctx.Indent)
	w.startTag(tag, el)

	switch w.classifier.kindOf(el) {
	case contentEmpty:
	case contentInlines:
		if err := w.inline(el.Children); err != nil {
			return err
		}
	case contentBlocks:
		inner := ctx.nested()
		for _, seg := range w.classifier.Partition(el.Children) {
			switch s := seg.(type) {
			case Run:
				w.buf.WriteByte('\n')
				w.indent(inner.Indent)
				if err := w.inline(s); err != nil {
					return err
				}
			case Nested:
				w.buf.WriteByte('\n')
				if err := w.element(s.Element, inner); err != nil {
					return err
				}
			}
		}
		if !OmitsEndTag(tag) {
			w.buf.WriteByte('\n')
			w.indent(ctx.Indent)
		}
	}

	if !OmitsEndTag(tag) {
		w.endTag(tag)
	}
	return nil
}

func startsWithNewline(children []core.Node) bool {
	if len(children) == 0 {
		return false
	}
	t, ok := children[0].(core.Text)
	return ok && strings.HasPrefix(string(t), "\n")
}

func (w *writer) indent(level int) {
	for i := 0; i < level; i++ {
		w.buf.WriteByte(' ')
	}
}

func (w *writer) startTag(tag string, el *core.Element) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	for _, name := range sortedAttrNames(el.Attrs) {
		w.buf.WriteByte(' ')
		w.buf.WriteString(core.LocalName(name))
		w.buf.WriteString(`="`)
		w.buf.WriteString(escapeAttr(el.Attrs[name]))
		w.buf.WriteByte('"')
	}
	w.buf.WriteByte('>')
}

func (w *writer) endTag(tag string) {
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

// sortedAttrNames orders attributes by local name; qualified names that share
// a local name fall back to the full name so the order stays total.
func sortedAttrNames(attrs map[string]string) []string {
	if len(attrs) == 0 {
		return nil
	}
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		li, lj := core.LocalName(names[i]), core.LocalName(names[j])
		if li != lj {
			return li < lj
		}
		return names[i] < names[j]
	})
	return names
}
