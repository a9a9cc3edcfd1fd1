package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/hxblog/pkg/api"
)

func WriteJSONPosts(w io.Writer, posts []api.Post, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if posts == nil {
		posts = []api.Post{}
	}
	return enc.Encode(posts)
}

func WriteJSONPost(w io.Writer, p api.Post, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(p)
}
