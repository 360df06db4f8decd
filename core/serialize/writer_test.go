package serialize

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/canonhtml/core"
)

func el(tag string, children ...core.Node) *core.Element {
	return core.NewElement(tag, nil, children...)
}

func elAttrs(tag string, attrs map[string]string, children ...core.Node) *core.Element {
	return core.NewElement(tag, attrs, children...)
}

func txt(s string) core.Text { return core.Text(s) }

// body strips the doctype so expectations stay readable.
func body(t *testing.T, s *Serializer, root *core.Element) string {
	t.Helper()
	out, err := s.Serialize(root)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, Doctype), "missing doctype in %q", out)
	return strings.TrimPrefix(out, Doctype)
}

func TestSerializeDoctype(t *testing.T) {
	s := New(nil, nil)
	out, err := s.Serialize(el("html"))
	require.NoError(t, err)
	assert.Equal(t, "<!doctype html><html>", out)
}

func TestSerialize(t *testing.T) {
	s := New([]string{"pre", "xmp", "script", "style"}, nil)

	tests := []struct {
		name string
		root *core.Element
		want string
	}{
		{
			name: "empty element",
			root: el("div"),
			want: "<div></div>",
		},
		{
			name: "empty optional end tag",
			root: el("li"),
			want: "<li>",
		},
		{
			name: "whitespace-only element is empty",
			root: el("p", txt("\n   ")),
			want: "<p></p>",
		},
		{
			name: "void element",
			root: elAttrs("img", map[string]string{"src": "a.png", "alt": "A"}),
			want: `<img alt="A" src="a.png">`,
		},
		{
			name: "sorted attributes",
			root: elAttrs("div", map[string]string{"b": "2", "a": "1"}, txt("x")),
			want: `<div a="1" b="2">x</div>`,
		},
		{
			name: "namespaced tag",
			root: el("{http://www.w3.org/1999/xhtml}div"),
			want: "<div></div>",
		},
		{
			name: "namespaced attribute",
			root: elAttrs("use", map[string]string{"{http://www.w3.org/1999/xlink}href": "#i", "class": "c"}),
			want: `<use class="c" href="#i"></use>`,
		},
		{
			name: "adjacent inlines stay on one line",
			root: el("p", el("a", txt("x")), el("b", txt("y"))),
			want: "<p><a>x</a><b>y</b></p>",
		},
		{
			name: "inline text is normalized",
			root: el("p", txt("\n   Hello   "), el("em", txt(" world ")), txt("\n")),
			want: "<p> Hello <em> world </em> </p>",
		},
		{
			name: "text escaping",
			root: el("p", txt("a < b & c > d")),
			want: "<p>a &lt; b &amp; c &gt; d</p>",
		},
		{
			name: "attribute escaping",
			root: elAttrs("p", map[string]string{"title": `say "hi" & <bye>`}),
			want: `<p title="say &quot;hi&quot; &amp; <bye>"></p>`,
		},
		{
			name: "block children are indented",
			root: el("div", el("p", txt("a")), el("p", txt("b"))),
			want: "<div>\n <p>a</p>\n <p>b</p>\n</div>",
		},
		{
			name: "source whitespace between blocks is dropped",
			root: el("div", txt("\n    "), el("p", txt("a")), txt("\n    "), el("p", txt("b")), txt("\n")),
			want: "<div>\n <p>a</p>\n <p>b</p>\n</div>",
		},
		{
			name: "runs between blocks get their own line",
			root: el("div", txt("Hello "), el("p", txt("a")), txt(" tail ")),
			want: "<div>\n Hello \n <p>a</p>\n  tail \n</div>",
		},
		{
			name: "deep nesting uses one space per level",
			root: el("section", el("div", el("p", txt("x")))),
			want: "<section>\n <div>\n  <p>x</p>\n </div>\n</section>",
		},
		{
			name: "optional end tags in block layout",
			root: el("ul", el("li", txt("a")), el("li", txt("b"))),
			want: "<ul>\n <li>a\n <li>b\n</ul>",
		},
		{
			name: "table sections omit end tags",
			root: el("table", el("tbody", el("tr", el("td", txt("1"))))),
			want: "<table>\n <tbody>\n  <tr>\n   <td>1\n</table>",
		},
		{
			name: "void element in block layout",
			root: el("div", el("hr"), el("p", txt("x"))),
			want: "<div>\n <hr>\n <p>x</p>\n</div>",
		},
		{
			name: "void element inside inline content",
			root: el("p", txt("a"), el("br"), txt("b")),
			want: "<p>a<br>b</p>",
		},
		{
			name: "raw element text is verbatim",
			root: el("script", txt("if (a < b && c) {}")),
			want: "<script>if (a < b && c) {}</script>",
		},
		{
			name: "raw element inside a block",
			root: el("div", txt("x"), el("style", txt(" p > a { } "))),
			want: "<div>\n x\n<style> p > a { } </style>\n</div>",
		},
		{
			name: "opaque keeps whitespace and escapes",
			root: el("pre", txt(" a <\n  "), el("b", txt("  x  ")), txt("\n")),
			want: "<pre> a &lt;\n  <b>  x  </b>\n</pre>",
		},
		{
			name: "opaque forces descendants to be pre-formatted",
			root: el("pre", el("div", txt("\n"), el("p", txt("  y  ")), txt("\n"))),
			want: "<pre><div>\n<p>  y  </p>\n</div></pre>",
		},
		{
			name: "pre doubles a leading newline",
			root: el("pre", txt("\nfoo")),
			want: "<pre>\n\nfoo</pre>",
		},
		{
			name: "only a leading text child counts",
			root: el("pre", el("b"), txt("\nfoo")),
			want: "<pre><b></b>\nfoo</pre>",
		},
		{
			name: "void inside opaque is not indented",
			root: el("div", el("pre", txt("a"), el("br"), txt("b"))),
			want: "<div>\n<pre>a<br>b</pre>\n</div>",
		},
		{
			name: "block inside inline renders inline",
			root: el("p", el("span", el("div", txt("\n x \n")))),
			want: "<p><span><div> x </div></span></p>",
		},
		{
			name: "hyphenated custom element is inline",
			root: el("div", el("my-widget", txt("x"))),
			want: "<div><my-widget>x</my-widget></div>",
		},
		{
			name: "inline root",
			root: el("span", txt(" x ")),
			want: "<span> x </span>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, body(t, s, tt.root))
		})
	}
}

func TestSerializeLeadingNewline(t *testing.T) {
	s := New([]string{"pre", "listing", "textarea", "div"}, nil)
	tests := []struct {
		root *core.Element
		want string
	}{
		{el("listing", txt("\n\nx")), "<listing>\n\n\nx</listing>"},
		{el("textarea", txt("\nx")), "<textarea>\n\nx</textarea>"},
		{el("div", txt("\nx")), "<div>\nx</div>"},
		{el("div", el("pre", txt("\nx"))), "<div><pre>\n\nx</pre></div>"},
		{el("pre", txt("x\n")), "<pre>x\n</pre>"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, body(t, s, tt.root))
	}
}

func TestSerializeBlockOverride(t *testing.T) {
	s := New(nil, []string{"my-widget"})
	root := el("div", el("my-widget", txt("x")))
	assert.Equal(t, "<div>\n <my-widget>x</my-widget>\n</div>", body(t, s, root))
}

func TestSerializeBlocksStaySeparated(t *testing.T) {
	// Dropping the whitespace run between two blocks must not fuse them.
	s := New(nil, nil)
	root := el("div", el("p", txt("a")), txt(" "), el("p", txt("b")))
	out := body(t, s, root)
	assert.Equal(t, "<div>\n <p>a</p>\n <p>b</p>\n</div>", out)
	assert.NotContains(t, out, "</p><p>")
}

func TestSerializeDocument(t *testing.T) {
	s := New([]string{"pre"}, nil)
	root := el("html",
		el("head", el("title", txt("T")), elAttrs("meta", map[string]string{"charset": "utf-8"})),
		el("body",
			el("h1", txt("Title")),
			el("p", txt("Some "), el("code", txt("code")), txt(" here.")),
			el("pre", txt("line 1\n  line 2")),
		),
	)
	want := "<!doctype html><html>\n" +
		" <head>\n" +
		"  <title>T</title>\n" +
		`  <meta charset="utf-8">` + "\n" +
		" <body>\n" +
		"  <h1>Title</h1>\n" +
		"  <p>Some <code>code</code> here.</p>\n" +
		"<pre>line 1\n  line 2</pre>"
	out, err := s.Serialize(root)
	require.NoError(t, err)
	assert.Equal(t, want, out)
}

func TestSerializeRawChildFails(t *testing.T) {
	s := New(nil, nil)
	root := el("div", el("p", txt("ok")), el("script", txt("a"), el("b", txt("oops"))))

	out, err := s.Serialize(root)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.True(t, errors.Is(err, ErrRawChild))

	var rawErr *RawChildError
	require.True(t, errors.As(err, &rawErr))
	assert.Equal(t, "script", rawErr.Tag)
	assert.Equal(t, "b", rawErr.Child)
	assert.Contains(t, err.Error(), "<script>")
}

func TestSerializeTo(t *testing.T) {
	s := New(nil, nil)
	var sb strings.Builder
	require.NoError(t, s.SerializeTo(&sb, el("p", txt("x"))))
	assert.Equal(t, "<!doctype html><p>x</p>", sb.String())

	sb.Reset()
	err := s.SerializeTo(&sb, el("style", el("p")))
	require.Error(t, err)
	assert.Empty(t, sb.String())
}

func TestSerializeDoesNotMutateTree(t *testing.T) {
	s := New([]string{"pre"}, nil)
	attrs := map[string]string{"z": "1", "a": "2"}
	root := el("div", txt("  x  "), elAttrs("p", attrs, txt(" y ")), el("pre", txt(" z ")))
	before := *root
	beforeChildren := append([]core.Node(nil), root.Children...)

	_, err := s.Serialize(root)
	require.NoError(t, err)

	assert.Equal(t, before.Tag, root.Tag)
	assert.Equal(t, beforeChildren, root.Children)
	assert.Equal(t, map[string]string{"z": "1", "a": "2"}, attrs)
}

func TestSerializeIsDeterministic(t *testing.T) {
	s := New(nil, nil)
	attrs := map[string]string{}
	for _, k := range []string{"data-z", "id", "class", "data-a", "lang", "title", "dir", "hidden"} {
		attrs[k] = k
	}
	root := elAttrs("div", attrs, txt("x"))
	first := body(t, s, root)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, body(t, s, root))
	}
	assert.Equal(t, `<div class="class" data-a="data-a" data-z="data-z" dir="dir" hidden="hidden" id="id" lang="lang" title="title">x</div>`, first)
}

func TestSerializeConcurrent(t *testing.T) {
	s := New([]string{"pre"}, nil)
	roots := []*core.Element{
		el("div", el("p", txt("a")), el("p", txt("b"))),
		el("pre", el("div", txt(" keep "))),
		el("ul", el("li", el("a", txt("x")))),
	}
	want := make([]string, len(roots))
	for i, r := range roots {
		want[i] = body(t, s, r)
	}

	var wg sync.WaitGroup
	got := make([][]string, 8)
	for g := range got {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for _, r := range roots {
				out, _ := s.Serialize(r)
				got[g] = append(got[g], strings.TrimPrefix(out, Doctype))
			}
		}(g)
	}
	wg.Wait()
	for _, g := range got {
		assert.Equal(t, want, g)
	}
}

func TestContextIsCopied(t *testing.T) {
	ctx := Context{Indent: 2, InInline: false}
	inner := ctx.nested()
	assert.Equal(t, 2, ctx.Indent)
	assert.Equal(t, 3, inner.Indent)
	assert.Equal(t, Context{InPre: true}, preContext())
	assert.Equal(t, Context{InInline: true}, inlineContext())
}
