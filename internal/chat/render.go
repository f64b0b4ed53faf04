package chat

import (
	"bytes"

	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Renderer turns assistant Markdown into HTML for the chat UI. Raw HTML in
// model output is escaped.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a GFM renderer with fenced-code highlighting.
func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)}
}

// Render converts Markdown to HTML. On failure the caller gets "" and can
// fall back to the plain text.
func (r *Renderer) Render(markdown string) string {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return ""
	}
	return buf.String()
}
