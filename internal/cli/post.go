package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present"
)

// newPostCmd defines the parent "post" command.
func newPostCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Manage posts directly in the store",
	}
	cmd.AddCommand(newPostListCmd())
	cmd.AddCommand(newPostShowCmd())
	cmd.AddCommand(newPostAddCmd())
	cmd.AddCommand(newPostEditCmd())
	cmd.AddCommand(newPostDeleteCmd())
	cmd.AddCommand(newPostSearchCmd())
	return cmd
}

// withStore runs fn with a store handle that is released afterwards.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, h db.Handle) error) error {
	ctx := cmd.Context()
	return db.WithHandle(ctx, getApp(cmd).Store, func(h db.Handle) error {
		return fn(ctx, h)
	})
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid post id %q", s)
	}
	return id, nil
}

// outputFlag registers --output with shell completion.
func outputFlag(cmd *cobra.Command, target *string, def string) {
	cmd.Flags().StringVar(target, "output", def, "output mode: plain|pretty|json|ndjson")
	_ = cmd.RegisterFlagCompletionFunc("output", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"plain", "pretty", "json", "ndjson"}, cobra.ShellCompDirectiveNoFileComp
	})
}

func presentOptions(cmd *cobra.Command, outputMode string, headers bool) (present.Options, error) {
	mode, ok := present.ParseMode(strings.ToLower(outputMode))
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", outputMode)
	}
	return present.Options{
		Mode:          mode,
		Headers:       headers,
		PreviewLength: getApp(cmd).Cfg.GetInt("preview.max_length"),
	}, nil
}

func printSaved(w io.Writer, verb string, id int64, title string) {
	_, _ = fmt.Fprintf(w, "%s %d\t%s\n", verb, id, title)
}
