package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/editor"
	"github.com/mithrel/hxblog/pkg/api"
)

func newPostAddCmd() *cobra.Command {
	var body, bodyFile string
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a post (opens $EDITOR when no body is given)",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			text, err := bodyFromFlags(body, bodyFile)
			if err != nil {
				return err
			}
			if text == "" {
				var changed bool
				title, text, changed, err = editDraft("new", title, "")
				if err != nil {
					return err
				}
				if !changed {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edits; post not created.")
					return nil
				}
			}
			d, err := api.NewDraft(title, text)
			if err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, h db.Handle) error {
				p, err := h.Create(ctx, d)
				if err != nil {
					return err
				}
				printSaved(cmd.OutOrStdout(), "Created", p.ID, p.Title)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&body, "body", "b", "", "Markdown body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "read the Markdown body from a file (- for stdin)")
	return cmd
}

func bodyFromFlags(body, bodyFile string) (string, error) {
	if body != "" && bodyFile != "" {
		return "", fmt.Errorf("choose either --body or --body-file")
	}
	if bodyFile == "" {
		return body, nil
	}
	var data []byte
	var err error
	if bodyFile == "-" {
		data, err = readAllStdin()
	} else {
		data, err = os.ReadFile(bodyFile)
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// editDraft opens the editor on a draft file named after name and returns
// the parsed title and body.
func editDraft(name, title, body string) (string, string, bool, error) {
	path, err := editor.PathFor(name)
	if err != nil {
		return "", "", false, err
	}
	out, changed, err := editor.OpenAt(path, []byte(editor.ComposeContent(title, body)))
	_ = os.Remove(path)
	if err != nil || !changed {
		return title, body, false, err
	}
	t, b := editor.ParseEdited(string(out))
	return t, b, true, nil
}
