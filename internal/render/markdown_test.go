package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown(MarkdownOptions{})

	t.Run("fenced code", func(t *testing.T) {
		out := md.Render("```go\nfmt.Println(1)\n```\n")
		assert.Contains(t, out, `<pre><code class="language-go">`)
		assert.Contains(t, out, "fmt.Println(1)")
	})

	t.Run("tables", func(t *testing.T) {
		out := md.Render("| a | b |\n|---|---|\n| 1 | 2 |\n")
		assert.Contains(t, out, "<table>")
		assert.Contains(t, out, "<td>1</td>")
	})

	t.Run("raw html is not passed through", func(t *testing.T) {
		out := md.Render("hi <script>alert(1)</script>")
		assert.NotContains(t, out, "<script>")
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", md.Render(""))
	})

	t.Run("deterministic", func(t *testing.T) {
		src := "# Title\n\nSome *text*."
		assert.Equal(t, md.Render(src), md.Render(src))
	})
}

func TestMarkdownEmoji(t *testing.T) {
	plain := NewMarkdown(MarkdownOptions{}).Render("ship it :rocket:")
	assert.Contains(t, plain, ":rocket:")

	withEmoji := NewMarkdown(MarkdownOptions{Emoji: true}).Render("ship it :rocket:")
	assert.False(t, strings.Contains(withEmoji, ":rocket:"))
}
