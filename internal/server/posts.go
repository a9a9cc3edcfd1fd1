package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present/fragment"
	"github.com/mithrel/hxblog/pkg/api"
)

const (
	// headerPushURL tells the client which location to record in its history.
	headerPushURL  = "HX-Push-Url"
	collectionRoot = "/"

	msgNotFound = "Post not found"
	msgCreated  = "Post created"
	msgUpdated  = "Post updated"
	msgDeleted  = "Post deleted"
)

func (s *Server) listPosts(ctx context.Context, h db.Handle, _ *http.Request) (*fragment.Response, error) {
	return s.listResponse(ctx, h)
}

func (s *Server) listResponse(ctx context.Context, h db.Handle) (*fragment.Response, error) {
	posts, err := h.List(ctx)
	if err != nil {
		return nil, err
	}
	f, err := s.views.List(posts)
	if err != nil {
		return nil, err
	}
	return fragment.NewResponse(http.StatusOK).Append(f), nil
}

func (s *Server) newPostForm(_ context.Context, _ db.Handle, _ *http.Request) (*fragment.Response, error) {
	f, err := s.views.Form(nil)
	if err != nil {
		return nil, err
	}
	return fragment.NewResponse(http.StatusOK).Append(f), nil
}

func (s *Server) createPost(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	d, err := api.NewDraft(r.PostFormValue("title"), r.PostFormValue("body"))
	if err != nil {
		return validationFailed(err), nil
	}
	p, err := h.Create(ctx, d)
	if err != nil {
		return nil, err
	}
	s.log.Printf("created post id=%d", p.ID)
	resp, err := s.listResponse(ctx, h)
	if err != nil {
		return nil, err
	}
	resp.Header.Set(headerPushURL, collectionRoot)
	return resp.Append(fragment.Flash(msgCreated, fragment.SeveritySuccess)), nil
}

func (s *Server) showPost(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	p, resp, err := lookup(ctx, h, r)
	if resp != nil || err != nil {
		return resp, err
	}
	etag := entityTag(p, isPartial(r))
	if r.Header.Get("If-None-Match") == etag {
		resp := fragment.NewResponse(http.StatusNotModified)
		resp.Header.Set("ETag", etag)
		return resp, nil
	}
	f, err := s.views.Single(p)
	if err != nil {
		return nil, err
	}
	resp = fragment.NewResponse(http.StatusOK).Append(f)
	resp.Header.Set("ETag", etag)
	return resp, nil
}

func (s *Server) editPostForm(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	p, resp, err := lookup(ctx, h, r)
	if resp != nil || err != nil {
		return resp, err
	}
	f, err := s.views.Form(&p)
	if err != nil {
		return nil, err
	}
	return fragment.NewResponse(http.StatusOK).Append(f), nil
}

// updatePost validates the fields before it looks the post up, so an empty
// field on a missing id reports 422 rather than 404.
func (s *Server) updatePost(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	d, err := api.NewDraft(r.PostFormValue("title"), r.PostFormValue("body"))
	if err != nil {
		return validationFailed(err), nil
	}
	id, ok := postID(r)
	if !ok {
		return notFound(), nil
	}
	p, err := h.Update(ctx, id, d)
	if isNotFound(err) {
		return notFound(), nil
	}
	if err != nil {
		return nil, err
	}
	s.log.Printf("updated post id=%d", p.ID)
	f, err := s.views.Single(p)
	if err != nil {
		return nil, err
	}
	return fragment.NewResponse(http.StatusOK).
		Append(f).
		Append(fragment.Flash(msgUpdated, fragment.SeveritySuccess)), nil
}

func (s *Server) confirmDelete(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	p, resp, err := lookup(ctx, h, r)
	if resp != nil || err != nil {
		return resp, err
	}
	f, err := s.views.ConfirmDelete(p)
	if err != nil {
		return nil, err
	}
	return fragment.NewResponse(http.StatusOK).Append(f), nil
}

// deletePost never fails on a missing or malformed id.
func (s *Server) deletePost(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error) {
	if id, ok := postID(r); ok {
		if err := h.Delete(ctx, id); err != nil {
			return nil, err
		}
		s.log.Printf("deleted post id=%d", id)
	}
	resp, err := s.listResponse(ctx, h)
	if err != nil {
		return nil, err
	}
	resp.Header.Set(headerPushURL, collectionRoot)
	return resp.Append(fragment.Flash(msgDeleted, fragment.SeveritySuccess)), nil
}

// entityTag validates one representation of a post. The full page and the
// bare fragment differ in body, so they never share a tag.
func entityTag(p api.Post, partial bool) string {
	if partial {
		return `"` + p.Hash() + `"`
	}
	return `"` + p.Hash() + `-p"`
}

// lookup loads the post named by the route. A missing post yields a ready
// 404 response.
func lookup(ctx context.Context, h db.Handle, r *http.Request) (api.Post, *fragment.Response, error) {
	id, ok := postID(r)
	if !ok {
		return api.Post{}, notFound(), nil
	}
	p, err := h.Get(ctx, id)
	if isNotFound(err) {
		return api.Post{}, notFound(), nil
	}
	if err != nil {
		return api.Post{}, nil, err
	}
	return p, nil, nil
}

// postID parses the {id} route parameter. Ids that cannot name a post are
// reported as absent.
func postID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func notFound() *fragment.Response {
	return flashOnly(http.StatusNotFound, msgNotFound, fragment.SeverityError)
}

func validationFailed(err error) *fragment.Response {
	msg := "Title and body are required"
	var ve *api.ValidationError
	if errors.As(err, &ve) {
		msg = ve.Error()
	}
	return flashOnly(http.StatusUnprocessableEntity, msg, fragment.SeverityError)
}
