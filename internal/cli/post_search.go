package cli

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present"
	"github.com/mithrel/hxblog/internal/util"
	"github.com/mithrel/hxblog/pkg/api"
)

func newPostSearchCmd() *cobra.Command {
	var outputMode string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy search post titles and bodies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := presentOptions(cmd, outputMode, true)
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
			hits := util.RankPosts(strings.Join(args, " "), posts, limit)
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), func(w io.Writer) error {
				return present.RenderPosts(w, hits, opts)
			})
		},
	}
	outputFlag(cmd, &outputMode, "plain")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "maximum results (0 for all)")
	return cmd
}
