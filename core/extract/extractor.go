// Package extract implements the Extractor interface.
// It parses HTML and converts the chosen root element into a core tree:
//  1. The root is the document's <html> element, or the first match of a
//     CSS selector when one is configured
//  2. Only elements and text survive; comments and doctypes are dropped
//  3. Foreign elements and attributes keep their namespace as "{uri}name"
package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/gaurav-prasanna/canonhtml/core"
)

// ErrNoRoot is returned when the document has no element to serialize.
var ErrNoRoot = errors.New("no root element found in HTML")

// Namespace URIs for the short names golang.org/x/net/html assigns.
var namespaceURIs = map[string]string{
	"svg":   "http://www.w3.org/2000/svg",
	"math":  "http://www.w3.org/1998/Math/MathML",
	"xlink": "http://www.w3.org/1999/xlink",
	"xml":   "http://www.w3.org/XML/1998/namespace",
	"xmlns": "http://www.w3.org/2000/xmlns/",
}

// HTMLExtractor parses HTML and returns the tree under the selected root.
type HTMLExtractor struct {
	Selector string
}

// New creates an HTMLExtractor. An empty selector selects <html>.
func New(selector string) *HTMLExtractor {
	return &HTMLExtractor{Selector: selector}
}

// Extract parses src and converts the selected root element.
func (e *HTMLExtractor) Extract(src string) (*core.Element, error) {
	selector := e.Selector
	if selector == "" {
		selector = "html"
	}
	matcher, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("compiling selector %q: %w", selector, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	sel := doc.FindMatcher(matcher)
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w (selector %q)", ErrNoRoot, selector)
	}
	return FromNode(sel.Get(0)), nil
}

// FromNode converts an element node and its subtree. It returns nil for
// anything that is not an element.
func FromNode(n *html.Node) *core.Element {
	if n == nil || n.Type != html.ElementNode {
		return nil
	}
	el := &core.Element{Tag: qualify(n.Namespace, n.Data)}
	if len(n.Attr) > 0 {
		el.Attrs = make(map[string]string, len(n.Attr))
		for _, a := range n.Attr {
			name := qualify(a.Namespace, a.Key)
			if _, dup := el.Attrs[name]; dup {
				continue // first occurrence wins, as in the HTML parser
			}
			el.Attrs[name] = a.Val
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.ElementNode:
			el.Children = append(el.Children, FromNode(c))
		case html.TextNode:
			el.Children = appendText(el.Children, c.Data)
		}
	}
	return el
}

// appendText merges adjacent text, which appears once comments are dropped.
func appendText(children []core.Node, data string) []core.Node {
	if last := len(children) - 1; last >= 0 {
		if prev, ok := children[last].(core.Text); ok {
			children[last] = prev + core.Text(data)
			return children
		}
	}
	return append(children, core.Text(data))
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	uri, ok := namespaceURIs[namespace]
	if !ok {
		uri = namespace
	}
	return "{" + uri + "}" + name
}
