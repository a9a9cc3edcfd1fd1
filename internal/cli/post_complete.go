package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/util"
)

const maxCompletions = 20

// completePostIDs offers "id<TAB>title" candidates; the title is shown as
// the description by shells that support it.
func completePostIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if cmd.Context() == nil {
		cmd.SetContext(context.Background())
	}
	// Completion runs without the usual pre-run hooks, so wire the app here.
	if cmd.Context().Value(appKey) == nil {
		if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		defer func() { _ = getApp(cmd).Close() }()
	}
	var cands []string
	err := withStore(cmd, func(ctx context.Context, h db.Handle) error {
		posts, err := h.List(ctx)
		if err != nil {
			return err
		}
		for _, p := range posts {
			cands = append(cands, strconv.FormatInt(p.ID, 10)+"\t"+p.Title)
		}
		return nil
	})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return util.ScoreCompletions(toComplete, cands, maxCompletions), cobra.ShellCompDirectiveNoFileComp
}
