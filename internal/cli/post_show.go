package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present"
	"github.com/mithrel/hxblog/pkg/api"
)

func newPostShowCmd() *cobra.Command {
	var outputMode string
	cmd := &cobra.Command{
		Use:               "show <id>",
		Short:             "Display a post",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePostIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			opts, err := presentOptions(cmd, outputMode, true)
			if err != nil {
				return err
			}
			var p api.Post
			err = withStore(cmd, func(ctx context.Context, h db.Handle) error {
				p, err = h.Get(ctx, id)
				return err
			})
			if errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("post %d not found", id)
			}
			if err != nil {
				return err
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPost(w, p, opts)
			})
		},
	}
	outputFlag(cmd, &outputMode, "pretty")
	return cmd
}
