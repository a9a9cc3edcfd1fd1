package api

import "time"

// Post is a single blog entry. Body holds raw Markdown.
type Post struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Draft is the user-supplied half of a Post, as submitted by a form.
type Draft struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}
