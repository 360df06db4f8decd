package render

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/canonhtml/core"
	"github.com/gaurav-prasanna/canonhtml/core/serialize"
)

func page() *core.Element {
	return core.NewElement("html", nil,
		core.NewElement("body", nil,
			core.NewElement("h1", nil, core.Text("Title")),
			core.NewElement("p", nil, core.Text("Some "), core.NewElement("strong", nil, core.Text("bold")), core.Text(" text.")),
		),
	)
}

func TestRenderers(t *testing.T) {
	s := serialize.New(nil, nil)
	var _ core.Renderer = NewHTMLRenderer(s)
	var _ core.Renderer = NewMarkdownRenderer(s)

	t.Run("html", func(t *testing.T) {
		r := NewHTMLRenderer(s)
		data, err := r.Render(page())
		require.NoError(t, err)
		assert.Equal(t, "<!doctype html><html>\n <body>\n  <h1>Title</h1>\n  <p>Some <strong>bold</strong> text.</p>", string(data))
		assert.Equal(t, ".html", r.Extension())
	})

	t.Run("markdown", func(t *testing.T) {
		r := NewMarkdownRenderer(s)
		data, err := r.Render(page())
		require.NoError(t, err)
		assert.Contains(t, string(data), "# Title")
		assert.Contains(t, string(data), "Some **bold** text.")
		assert.Equal(t, ".md", r.Extension())
	})
}

func TestRenderersPropagateSerializeErrors(t *testing.T) {
	s := serialize.New(nil, nil)
	bad := core.NewElement("script", nil, core.NewElement("b", nil))

	for _, r := range []core.Renderer{NewHTMLRenderer(s), NewMarkdownRenderer(s)} {
		_, err := r.Render(bad)
		require.Error(t, err)
		assert.True(t, errors.Is(err, serialize.ErrRawChild))
	}
}
