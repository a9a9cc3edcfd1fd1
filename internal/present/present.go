// Package present writes posts to a terminal or pipe in one of several
// output modes.
package present

import (
	"io"

	"github.com/mithrel/hxblog/internal/present/format"
	"github.com/mithrel/hxblog/pkg/api"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeJSON
	ModeNDJSON
)

type Options struct {
	Mode          Mode
	JSONIndent    bool
	Headers       bool
	PreviewLength int
}

// ParseMode parses a string like "plain", "pretty", "json", "ndjson".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "json":
		return ModeJSON, true
	case "ndjson":
		return ModeNDJSON, true
	default:
		return ModePlain, false
	}
}

// RenderPosts renders a list of posts according to options.
func RenderPosts(w io.Writer, posts []api.Post, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONPosts(w, posts, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONPosts(w, posts)
	case ModePretty:
		return format.WriteTablePosts(w, posts, opts.PreviewLength)
	default:
		return format.WritePlainPosts(w, posts, opts.Headers)
	}
}

// RenderPost renders a single post according to options.
func RenderPost(w io.Writer, p api.Post, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONPost(w, p, opts.JSONIndent)
	case ModeNDJSON:
		return format.WriteNDJSONPost(w, p)
	case ModePretty:
		return format.WritePrettyPost(w, p)
	default:
		return format.WritePlainPost(w, p)
	}
}
