package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/pkg/api"
)

func newPostEditCmd() *cobra.Command {
	var title, body, bodyFile string
	cmd := &cobra.Command{
		Use:               "edit <id>",
		Short:             "Update a post (opens $EDITOR unless --title or --body is given)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePostIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text, err := bodyFromFlags(body, bodyFile)
			if err != nil {
				return err
			}
			titleSet := cmd.Flags().Changed("title")

			err = withStore(cmd, func(ctx context.Context, h db.Handle) error {
				cur, err := h.Get(ctx, id)
				if err != nil {
					return err
				}
				newTitle, newBody := cur.Title, cur.Body
				if titleSet {
					newTitle = title
				}
				if text != "" {
					newBody = text
				}
				if !titleSet && text == "" {
					var changed bool
					newTitle, newBody, changed, err = editDraft(strconv.FormatInt(id, 10), cur.Title, cur.Body)
					if err != nil {
						return err
					}
					if !changed {
						_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No edits; post unchanged.")
						return nil
					}
				}
				d, err := api.NewDraft(newTitle, newBody)
				if err != nil {
					return err
				}
				p, err := h.Update(ctx, id, d)
				if err != nil {
					return err
				}
				printSaved(cmd.OutOrStdout(), "Updated", p.ID, p.Title)
				return nil
			})
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("post %d not found", id)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&body, "body", "b", "", "new Markdown body")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "read the new body from a file (- for stdin)")
	return cmd
}
