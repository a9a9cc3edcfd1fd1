package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/feeds"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/render"
	"github.com/mithrel/hxblog/pkg/api"
)

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	var feed *feeds.Feed
	err := db.WithHandle(r.Context(), s.store, func(h db.Handle) error {
		var err error
		feed, err = s.buildFeed(r.Context(), h)
		return err
	})
	if err != nil {
		s.log.Printf("server: feed: %v", err)
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}
	rss, err := feed.ToRss()
	if err != nil {
		s.log.Printf("server: feed: %v", err)
		http.Error(w, "feed unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	_, _ = w.Write([]byte(rss))
}

// buildFeed lists the newest posts, capped at feed.limit.
func (s *Server) buildFeed(ctx context.Context, h db.Handle) (*feeds.Feed, error) {
	posts, err := h.List(ctx)
	if err != nil {
		return nil, err
	}
	if limit := s.cfg.GetInt("feed.limit"); limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	base := strings.TrimRight(s.cfg.GetString("site.base_url"), "/")
	title := s.cfg.GetString("site.title")
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: base + "/"},
		Description: title,
		Id:          base + "/",
	}
	if len(posts) > 0 {
		feed.Created = posts[0].CreatedAt
		feed.Updated = newestUpdate(posts)
	}

	previewLen := s.cfg.GetInt("preview.max_length")
	for _, p := range posts {
		link := fmt.Sprintf("%s/posts/%d", base, p.ID)
		feed.Items = append(feed.Items, &feeds.Item{
			Title:       p.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Created:     p.CreatedAt,
			Updated:     p.UpdatedAt,
			Description: render.Preview(p.Body, previewLen),
			Content:     s.md.Render(p.Body),
		})
	}
	return feed, nil
}

func newestUpdate(posts []api.Post) (t time.Time) {
	for _, p := range posts {
		if p.UpdatedAt.After(t) {
			t = p.UpdatedAt
		}
	}
	return t
}
