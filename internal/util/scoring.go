package util

import (
	"github.com/sahilm/fuzzy"

	"github.com/mithrel/hxblog/pkg/api"
)

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// postSource matches against "title body" for each post.
type postSource []api.Post

func (s postSource) String(i int) string { return s[i].Title + " " + s[i].Body }
func (s postSource) Len() int            { return len(s) }

// RankPosts returns the posts fuzzily matching query, best first, at most n
// (all when n <= 0). An empty query matches nothing.
func RankPosts(query string, posts []api.Post, n int) []api.Post {
	if query == "" {
		return nil
	}
	matches := fuzzy.FindFrom(query, postSource(posts))
	if n > 0 && len(matches) > n {
		matches = matches[:n]
	}
	out := make([]api.Post, 0, len(matches))
	for _, m := range matches {
		out = append(out, posts[m.Index])
	}
	return out
}
