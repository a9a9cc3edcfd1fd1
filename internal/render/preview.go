package render

import "strings"

// DefaultPreviewLength is the excerpt size used by listings.
const DefaultPreviewLength = 200

// markerStripper removes Markdown marker characters one by one. It is a text
// substitution, not a parser: links, lists and nesting come through as-is.
var markerStripper = strings.NewReplacer("#", "", "*", "", "`", "", ">", "")

// Preview derives a plain-text excerpt from a Markdown body: markers stripped,
// whitespace runs collapsed, ends trimmed. Text longer than maxLength
// characters is cut to exactly maxLength and "..." is appended.
// A non-positive maxLength means DefaultPreviewLength.
func Preview(body string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultPreviewLength
	}
	s := strings.Join(strings.Fields(markerStripper.Replace(body)), " ")
	r := []rune(s)
	if len(r) > maxLength {
		return string(r[:maxLength]) + "..."
	}
	return s
}
