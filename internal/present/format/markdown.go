package format

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/hxblog/pkg/api"
)

// WritePrettyPost renders a single post with markdown formatting using glamour.
func WritePrettyPost(w io.Writer, p api.Post) error {
	meta := fmt.Sprintf("**ID:** %d | **Created:** %s", p.ID, p.CreatedAt.Local().Format(time.RFC3339))
	if p.UpdatedAt.After(p.CreatedAt) {
		meta += fmt.Sprintf(" | **Updated:** %s", p.UpdatedAt.Local().Format(time.RFC3339))
	}
	md := fmt.Sprintf("# %s\n\n> %s\n\n---\n\n%s\n", p.Title, meta, strings.TrimSpace(p.Body))

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}

	_, err = io.WriteString(w, out)
	return err
}
