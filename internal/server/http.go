package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present/fragment"
)

// Server serves the blog's fragment endpoints backed by a Store.
type Server struct {
	cfg   *viper.Viper
	store db.Store
	views *fragment.Renderer
	md    fragment.MarkdownRenderer
	log   *log.Logger
}

// New builds a Server. A nil logger falls back to the standard logger.
func New(cfg *viper.Viper, store db.Store, views *fragment.Renderer, md fragment.MarkdownRenderer, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{cfg: cfg, store: store, views: views, md: md, log: logger}
}

// operation handles one request against a handle scoped to that request.
// It returns the fragments to send; a non-nil error is a storage fault.
type operation func(ctx context.Context, h db.Handle, r *http.Request) (*fragment.Response, error)

// Router returns an http.Handler with registered routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(methodOverride)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	if s.cfg.GetBool("feed.enabled") {
		r.Get("/feed.xml", s.handleFeed)
	}

	r.Get("/", s.handle(s.listPosts))
	r.Route("/posts", func(r chi.Router) {
		r.Get("/new", s.handle(s.newPostForm))
		r.Post("/", s.handle(s.createPost))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handle(s.showPost))
			r.Put("/", s.handle(s.updatePost))
			r.Delete("/", s.handle(s.deletePost))
			r.Get("/edit", s.handle(s.editPostForm))
			r.Get("/confirm-delete", s.handle(s.confirmDelete))
		})
	})
	return r
}

// handle acquires a store handle for the lifetime of one request, runs op
// with it and writes whatever op produced. The handle is released on every
// path.
func (s *Server) handle(op operation) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var resp *fragment.Response
		err := db.WithHandle(r.Context(), s.store, func(h db.Handle) error {
			var err error
			resp, err = op(r.Context(), h, r)
			return err
		})
		if err != nil {
			s.log.Printf("server: %s %s: %v", r.Method, r.URL.Path, err)
			resp = flashOnly(http.StatusInternalServerError, "Something went wrong, please try again", fragment.SeverityError)
		}
		s.write(w, r, resp)
	}
}

func (s *Server) write(w http.ResponseWriter, r *http.Request, resp *fragment.Response) {
	for k, vs := range resp.Header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	// One URL serves both the full page and the bare fragment.
	w.Header().Add("Vary", "HX-Request")
	body := resp.Body()
	if !isPartial(r) && resp.Status != http.StatusNotModified {
		page, err := s.views.Page(resp)
		if err != nil {
			s.log.Printf("server: render page: %v", err)
		} else {
			body = page
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(resp.Status)
	if resp.Status == http.StatusNotModified {
		return
	}
	_, _ = w.Write([]byte(body))
}

// isPartial reports whether the request came from the fragment-swapping
// client rather than a plain page load.
func isPartial(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// methodOverride lets plain HTML forms reach PUT and DELETE routes through a
// hidden _method field.
func methodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			switch m := strings.ToUpper(r.PostFormValue("_method")); m {
			case http.MethodPut, http.MethodDelete:
				r.Method = m
			}
		}
		next.ServeHTTP(w, r)
	})
}

func flashOnly(status int, msg string, sev fragment.Severity) *fragment.Response {
	return fragment.NewResponse(status).Append(fragment.Flash(msg, sev))
}

func isNotFound(err error) bool { return errors.Is(err, db.ErrNotFound) }
