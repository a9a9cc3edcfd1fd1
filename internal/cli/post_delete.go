package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
)

func newPostDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:               "delete <id>...",
		Short:             "Delete posts; missing ids are ignored",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completePostIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			if err := confirmDelete(fmt.Sprintf("Delete %d posts?", len(ids)), "This permanently removes the posts.", yes || len(ids) == 1); err != nil {
				return err
			}
			return withStore(cmd, func(ctx context.Context, h db.Handle) error {
				for _, id := range ids {
					if err := h.Delete(ctx, id); err != nil {
						return err
					}
				}
				if len(ids) == 1 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Post %d deleted.\n", ids[0])
				} else {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d posts.\n", len(ids))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation prompt for bulk deletes")
	return cmd
}

func confirmDelete(title, desc string, yes bool) error {
	if yes {
		return nil
	}
	if !term.IsTerminal(os.Stdin.Fd()) {
		return fmt.Errorf("confirmation required; rerun with --yes")
	}
	confirm := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(desc).
				Value(&confirm),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}
	if !confirm {
		return fmt.Errorf("aborted")
	}
	return nil
}
