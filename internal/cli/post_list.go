package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present"
	"github.com/mithrel/hxblog/pkg/api"
)

func newPostListCmd() *cobra.Command {
	var outputMode string
	var noHeaders bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := presentOptions(cmd, outputMode, !noHeaders)
			if err != nil {
				return err
			}
			var posts []api.Post
			if err := withStore(cmd, func(ctx context.Context, h db.Handle) error {
				posts, err = h.List(ctx)
				return err
			}); err != nil {
				return err
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPosts(w, posts, opts)
			})
		},
	}
	outputFlag(cmd, &outputMode, "plain")
	cmd.Flags().BoolVar(&noHeaders, "noheaders", false, "hide column headers (plain)")
	return cmd
}
