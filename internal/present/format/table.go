package format

import (
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/mithrel/hxblog/internal/render"
	"github.com/mithrel/hxblog/pkg/api"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	previewStyle = cellStyle.Foreground(lipgloss.Color("245"))
)

const tablePreviewLength = 60

// WriteTablePosts draws posts as a bordered table with a short preview
// column. previewLength <= 0 uses a width that fits a terminal row.
func WriteTablePosts(w io.Writer, posts []api.Post, previewLength int) error {
	if previewLength <= 0 || previewLength > tablePreviewLength {
		previewLength = tablePreviewLength
	}
	rows := make([][]string, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			p.CreatedAt.Local().Format("2006-01-02 15:04"),
			render.Preview(p.Body, previewLength),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "TITLE", "CREATED", "PREVIEW").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 3:
				return previewStyle
			default:
				return cellStyle
			}
		})

	_, err := io.WriteString(w, t.Render()+"\n")
	return err
}
