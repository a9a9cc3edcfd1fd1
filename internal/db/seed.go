package db

import (
	"context"

	"github.com/mithrel/hxblog/pkg/api"
)

var seedPosts = []api.Draft{
	{
		Title: "Welcome to hxblog",
		Body: "This post was created because the store was empty.\n\n" +
			"Posts are written in **Markdown**. Fenced code and tables work:\n\n" +
			"```go\nfmt.Println(\"hello\")\n```\n\n" +
			"| feature | status |\n|---|---|\n| tables | yes |\n| code | yes |\n",
	},
}

// Seed inserts the welcome posts when the relation is empty. It reports
// whether anything was written.
func Seed(ctx context.Context, h Handle) (bool, error) {
	n, err := h.Count(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	for _, d := range seedPosts {
		if _, err := h.Create(ctx, d); err != nil {
			return false, err
		}
	}
	return true, nil
}
