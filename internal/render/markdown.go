package render

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
)

// Markdown converts post bodies to HTML. Raw HTML inside the source is
// omitted by goldmark, so the output can be inserted into a page as is.
type Markdown struct {
	md goldmark.Markdown
}

type MarkdownOptions struct {
	// Emoji turns :shortcode: sequences into emoji.
	Emoji bool
}

// NewMarkdown builds a converter with GFM (tables, strikethrough, autolinks,
// task lists). Fenced code blocks are part of CommonMark.
func NewMarkdown(opts MarkdownOptions) *Markdown {
	exts := []goldmark.Extender{extension.GFM}
	if opts.Emoji {
		exts = append(exts, emoji.Emoji)
	}
	return &Markdown{md: goldmark.New(goldmark.WithExtensions(exts...))}
}

// Render never fails: if conversion errors, the escaped source is returned.
func (m *Markdown) Render(src string) string {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		return "<p>" + template.HTMLEscapeString(src) + "</p>"
	}
	return buf.String()
}
