package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/hxblog/pkg/api"
)

// TSV columns: id, title, created, updated
var headerLine = "id\ttitle\tcreated\tupdated\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", "\\t")
	field = strings.ReplaceAll(field, "\n", "\\n")
	return field
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}

func WritePlainPosts(w io.Writer, posts []api.Post, headers bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, headerLine)
	}
	for _, p := range posts {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", p.ID, esc(p.Title), stamp(p.CreatedAt), stamp(p.UpdatedAt))
	}
	return tw.Flush()
}

// WritePlainPost writes a header block followed by the raw Markdown body.
func WritePlainPost(w io.Writer, p api.Post) error {
	_, err := fmt.Fprintf(w, "id: %d\ntitle: %s\ncreated: %s\nupdated: %s\n\n%s\n",
		p.ID, p.Title, stamp(p.CreatedAt), stamp(p.UpdatedAt), strings.TrimSpace(p.Body))
	return err
}
