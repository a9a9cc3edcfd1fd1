package format

import (
	"encoding/json"
	"io"

	"github.com/mithrel/hxblog/pkg/api"
)

// WriteNDJSONPosts writes posts as newline-delimited JSON objects.
func WriteNDJSONPosts(w io.Writer, posts []api.Post) error {
	enc := json.NewEncoder(w)
	for _, p := range posts {
		if err := enc.Encode(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteNDJSONPost writes a single post as one JSON line.
func WriteNDJSONPost(w io.Writer, p api.Post) error {
	return json.NewEncoder(w).Encode(p)
}
