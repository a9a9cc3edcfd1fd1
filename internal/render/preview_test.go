package render

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"strips markers", "# Title *bold* `code`", 200, "Title bold code"},
		{"blockquote", "> quoted\n> more", 200, "quoted more"},
		{"collapses whitespace", "  a\n\n\tb   c  ", 200, "a b c"},
		{"short text verbatim", "World", 200, "World"},
		{"links untouched", "[x](http://e.com)", 200, "[x](http://e.com)"},
		{"exact length no ellipsis", "abcde", 5, "abcde"},
		{"truncates", "abcdefgh", 5, "abcde..."},
		{"empty", "", 200, ""},
		{"only markers", "### ***", 200, ""},
		{"default length", strings.Repeat("x", 250), 0, strings.Repeat("x", 200) + "..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Preview(tc.in, tc.max))
		})
	}
}

func TestPreviewCountsCharacters(t *testing.T) {
	got := Preview(strings.Repeat("é", 10), 4)
	assert.Equal(t, "éééé...", got)
	assert.Equal(t, 7, utf8.RuneCountInString(got))
}
