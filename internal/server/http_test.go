package server

import (
	"bytes"
	"context"
	"errors"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present/fragment"
	"github.com/mithrel/hxblog/internal/render"
	"github.com/mithrel/hxblog/pkg/api"
)

type testEnv struct {
	store   db.Store
	md      *render.Markdown
	logs    *bytes.Buffer
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return newTestEnvWithStore(t, store)
}

func newTestEnvWithStore(t *testing.T, store db.Store) *testEnv {
	t.Helper()
	cfg := viper.New()
	cfg.Set("site.title", "Test Blog")
	cfg.Set("site.base_url", "https://blog.example")
	cfg.Set("feed.enabled", true)
	cfg.Set("feed.limit", 20)
	cfg.Set("preview.max_length", 200)

	md := render.NewMarkdown(render.MarkdownOptions{})
	views, err := fragment.NewRenderer(md, fragment.Options{SiteTitle: "Test Blog"})
	require.NoError(t, err)
	logs := &bytes.Buffer{}
	logger := log.New(logs, "", 0)
	return &testEnv{store: store, md: md, logs: logs, handler: New(cfg, store, views, md, logger).Router()}
}

// do sends a partial-page request unless full is set.
func (e *testEnv) do(t *testing.T, method, path string, form url.Values, full bool) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if !full {
		req.Header.Set("HX-Request", "true")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) count(t *testing.T) int {
	t.Helper()
	var n int
	require.NoError(t, db.WithHandle(context.Background(), e.store, func(h db.Handle) error {
		var err error
		n, err = h.Count(context.Background())
		return err
	}))
	return n
}

func (e *testEnv) create(t *testing.T, title, body string) api.Post {
	t.Helper()
	var p api.Post
	require.NoError(t, db.WithHandle(context.Background(), e.store, func(h db.Handle) error {
		var err error
		p, err = h.Create(context.Background(), api.Draft{Title: title, Body: body})
		return err
	}))
	return p
}

func doc(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(rec.Body.String()))
	require.NoError(t, err)
	return d
}

func form(title, body string) url.Values {
	return url.Values{"title": {title}, "body": {body}}
}

func flashText(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return doc(t, rec).Find("#flash").Text()
}

func TestListEmpty(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	d := doc(t, rec)
	assert.Equal(t, 1, d.Find("section.posts").Length())
	assert.Equal(t, 0, d.Find("article").Length())
	assert.Empty(t, rec.Header().Get(headerPushURL))
}

func TestCreateThenList(t *testing.T) {
	e := newTestEnv(t)
	require.Equal(t, 0, e.count(t))

	rec := e.do(t, http.MethodPost, "/posts", form("Hello", "World"), false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(headerPushURL))
	assert.Equal(t, 1, e.count(t))

	body := rec.Body.String()
	listAt := strings.Index(body, `class="posts"`)
	flashAt := strings.Index(body, `id="flash"`)
	require.True(t, listAt >= 0 && flashAt >= 0)
	assert.Less(t, listAt, flashAt, "flash follows the primary fragment")

	d := doc(t, rec)
	items := d.Find("article.post-preview")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "Hello", strings.TrimSpace(items.Find("h2").Text()))
	assert.Equal(t, "World", items.Find("p.preview").Text())
	assert.Equal(t, msgCreated, d.Find("#flash").Text())
	assert.True(t, d.Find("#flash").HasClass("flash-success"))
}

func TestCreateTrimsFields(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/posts", form("  Spaced  ", "\n body \n"), false)
	require.Equal(t, http.StatusOK, rec.Code)

	var posts []api.Post
	require.NoError(t, db.WithHandle(context.Background(), e.store, func(h db.Handle) error {
		var err error
		posts, err = h.List(context.Background())
		return err
	}))
	require.Len(t, posts, 1)
	assert.Equal(t, "Spaced", posts[0].Title)
	assert.Equal(t, "body", posts[0].Body)
}

func TestCreateRejectsEmptyFields(t *testing.T) {
	cases := []struct {
		name  string
		title string
		body  string
		msg   string
	}{
		{"empty title", "", "body", "title is required"},
		{"blank title", "   ", "body", "title is required"},
		{"empty body", "title", "", "body is required"},
		{"both empty", "", "", "title is required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestEnv(t)
			rec := e.do(t, http.MethodPost, "/posts", form(tc.title, tc.body), false)
			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			assert.Equal(t, 0, e.count(t))
			assert.Empty(t, rec.Header().Get(headerPushURL))

			d := doc(t, rec)
			assert.Equal(t, 0, d.Find("section.posts").Length(), "no list fragment")
			assert.Equal(t, tc.msg, d.Find("#flash").Text())
			assert.True(t, d.Find("#flash").HasClass("flash-error"))
		})
	}
}

func TestCreateThenShowRendersMarkdown(t *testing.T) {
	e := newTestEnv(t)
	bodies := []string{
		"plain",
		"# Title\n\nSome *text* and `code`.",
		"```go\nfmt.Println(\"hi\")\n```\n",
		"| a | b |\n|---|---|\n| 1 | 2 |\n",
	}
	for i, body := range bodies {
		rec := e.do(t, http.MethodPost, "/posts", form("Post", body), false)
		require.Equal(t, http.StatusOK, rec.Code)

		id := int64(i + 1)
		rec = e.do(t, http.MethodGet, "/posts/"+itoa(id), nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), e.md.Render(body))
		assert.Equal(t, "Post", doc(t, rec).Find("article.post h1").Text())
		assert.Empty(t, flashText(t, rec))
	}
}

func TestShowNotFound(t *testing.T) {
	e := newTestEnv(t)
	for _, path := range []string{"/posts/42", "/posts/abc", "/posts/0", "/posts/-1"} {
		t.Run(path, func(t *testing.T) {
			rec := e.do(t, http.MethodGet, path, nil, false)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			d := doc(t, rec)
			assert.Equal(t, msgNotFound, d.Find("#flash").Text())
			assert.True(t, d.Find("#flash").HasClass("flash-error"))
			assert.Equal(t, 0, d.Find("article").Length())
		})
	}
}

func TestShowETag(t *testing.T) {
	e := newTestEnv(t)
	p := e.create(t, "Cached", "Body")

	rec := e.do(t, http.MethodGet, "/posts/"+itoa(p.ID), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/posts/"+itoa(p.ID), nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.String())

	upd := e.do(t, http.MethodPut, "/posts/"+itoa(p.ID), form("Cached", "New body"), false)
	require.Equal(t, http.StatusOK, upd.Code)
	rec = e.do(t, http.MethodGet, "/posts/"+itoa(p.ID), nil, false)
	assert.NotEqual(t, etag, rec.Header().Get("ETag"))
}

func TestShowETagPerRepresentation(t *testing.T) {
	e := newTestEnv(t)
	p := e.create(t, "Cached", "Body")
	path := "/posts/" + itoa(p.ID)

	partial := e.do(t, http.MethodGet, path, nil, false)
	full := e.do(t, http.MethodGet, path, nil, true)
	require.Equal(t, http.StatusOK, partial.Code)
	require.Equal(t, http.StatusOK, full.Code)
	assert.Contains(t, partial.Header().Values("Vary"), "HX-Request")
	assert.Contains(t, full.Header().Values("Vary"), "HX-Request")
	assert.NotEqual(t, partial.Header().Get("ETag"), full.Header().Get("ETag"))

	// A tag cached from the full page must not validate the fragment.
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("If-None-Match", full.Header().Get("ETag"))
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, partial.Body.String(), rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("If-None-Match", full.Header().Get("ETag"))
	rec = httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Contains(t, rec.Header().Values("Vary"), "HX-Request")
}

func TestMutationsAreLogged(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/posts", form("Logged", "body"), false)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodPut, "/posts/1", form("Logged", "edited"), false)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = e.do(t, http.MethodDelete, "/posts/1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	out := e.logs.String()
	assert.Contains(t, out, "created post id=1")
	assert.Contains(t, out, "updated post id=1")
	assert.Contains(t, out, "deleted post id=1")

	// Rejected input changes nothing and logs no mutation.
	e.logs.Reset()
	e.do(t, http.MethodPost, "/posts", form("", "body"), false)
	assert.NotContains(t, e.logs.String(), "created post")
}

func TestForms(t *testing.T) {
	e := newTestEnv(t)

	t.Run("new", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/posts/new", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)
		target, _ := doc(t, rec).Find("form").Attr("hx-post")
		assert.Equal(t, "/posts", target)
	})

	t.Run("edit", func(t *testing.T) {
		p := e.create(t, "Draft", "Original")
		rec := e.do(t, http.MethodGet, "/posts/"+itoa(p.ID)+"/edit", nil, false)
		assert.Equal(t, http.StatusOK, rec.Code)
		d := doc(t, rec)
		title, _ := d.Find("input#title").Attr("value")
		assert.Equal(t, "Draft", title)
		assert.Equal(t, "Original", d.Find("textarea#body").Text())
	})

	t.Run("edit missing", func(t *testing.T) {
		rec := e.do(t, http.MethodGet, "/posts/999/edit", nil, false)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, msgNotFound, flashText(t, rec))
	})
}

func TestUpdate(t *testing.T) {
	e := newTestEnv(t)
	p := e.create(t, "Before", "Old body")

	rec := e.do(t, http.MethodPut, "/posts/"+itoa(p.ID), form(" After ", "New *body*"), false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(headerPushURL))
	d := doc(t, rec)
	assert.Equal(t, "After", d.Find("article.post h1").Text())
	assert.Contains(t, rec.Body.String(), e.md.Render("New *body*"))
	assert.Equal(t, msgUpdated, d.Find("#flash").Text())

	var got api.Post
	require.NoError(t, db.WithHandle(context.Background(), e.store, func(h db.Handle) error {
		var err error
		got, err = h.Get(context.Background(), p.ID)
		return err
	}))
	assert.Equal(t, p.CreatedAt, got.CreatedAt)
	assert.False(t, got.UpdatedAt.Before(p.UpdatedAt))
}

func TestUpdateEmptyBodyKeepsOriginal(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodPost, "/posts", form("Keep", "Original body"), false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPut, "/posts/1", form("Keep", "   "), false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "body is required", flashText(t, rec))

	rec = e.do(t, http.MethodGet, "/posts/1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), e.md.Render("Original body"))
}

func TestUpdateValidatesBeforeLookup(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPut, "/posts/77", form("", "body"), false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = e.do(t, http.MethodPut, "/posts/77", form("title", "body"), false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, flashText(t, rec))
	assert.Equal(t, 0, e.count(t))
}

func TestConfirmDelete(t *testing.T) {
	e := newTestEnv(t)
	p := e.create(t, "Goner", "x")

	rec := e.do(t, http.MethodGet, "/posts/"+itoa(p.ID)+"/confirm-delete", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Goner", doc(t, rec).Find(".confirm-delete strong").Text())

	rec = e.do(t, http.MethodGet, "/posts/404/confirm-delete", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 1, e.count(t))
}

func TestDelete(t *testing.T) {
	e := newTestEnv(t)
	keep := e.create(t, "Keep", "a")
	gone := e.create(t, "Gone", "b")

	rec := e.do(t, http.MethodDelete, "/posts/"+itoa(gone.ID), nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(headerPushURL))
	d := doc(t, rec)
	items := d.Find("article.post-preview")
	require.Equal(t, 1, items.Length())
	assert.Equal(t, "post-"+itoa(keep.ID), items.AttrOr("id", ""))
	assert.Equal(t, msgDeleted, d.Find("#flash").Text())
	assert.Equal(t, 1, e.count(t))
}

func TestDeleteIsIdempotent(t *testing.T) {
	e := newTestEnv(t)
	e.create(t, "Survivor", "still here")

	for i := 0; i < 2; i++ {
		rec := e.do(t, http.MethodDelete, "/posts/12345", nil, false)
		require.Equal(t, http.StatusOK, rec.Code)
		d := doc(t, rec)
		assert.Equal(t, 1, d.Find("article.post-preview").Length())
		assert.True(t, d.Find("#flash").HasClass("flash-success"))
	}
	rec := e.do(t, http.MethodDelete, "/posts/not-a-number", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, e.count(t))
}

func TestListNewestFirst(t *testing.T) {
	e := newTestEnv(t)
	for _, title := range []string{"A", "B", "C"} {
		rec := e.do(t, http.MethodPost, "/posts", form(title, "body "+title), false)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	rec := e.do(t, http.MethodGet, "/", nil, false)
	var got []string
	doc(t, rec).Find("article.post-preview h2").Each(func(_ int, s *goquery.Selection) {
		got = append(got, strings.TrimSpace(s.Text()))
	})
	assert.Equal(t, []string{"C", "B", "A"}, got)
}

func TestFullPageForPlainRequests(t *testing.T) {
	e := newTestEnv(t)
	e.create(t, "Visible", "text")

	rec := e.do(t, http.MethodGet, "/", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	d := doc(t, rec)
	assert.Equal(t, "Test Blog", d.Find("title").Text())
	assert.Equal(t, 1, d.Find("main#content article.post-preview").Length())
	assert.Equal(t, 1, d.Find("#flash").Length())

	rec = e.do(t, http.MethodGet, "/posts/999", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	d = doc(t, rec)
	assert.Equal(t, 1, d.Find("main#content").Length())
	assert.Equal(t, msgNotFound, d.Find("#flash").Text())
}

func TestMethodOverride(t *testing.T) {
	e := newTestEnv(t)
	p := e.create(t, "Old", "old")

	f := form("New", "new")
	f.Set("_method", "PUT")
	rec := e.do(t, http.MethodPost, "/posts/"+itoa(p.ID), f, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "New", doc(t, rec).Find("article.post h1").Text())

	rec = e.do(t, http.MethodPost, "/posts/"+itoa(p.ID), url.Values{"_method": {"delete"}}, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, e.count(t))
}

func TestHealthzAndFeed(t *testing.T) {
	e := newTestEnv(t)
	e.create(t, "Feed item", "# Heading\n\nfeed body")

	rec := e.do(t, http.MethodGet, "/healthz", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = e.do(t, http.MethodGet, "/feed.xml", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/rss+xml")
	out := rec.Body.String()
	assert.Contains(t, out, "<rss")
	assert.Contains(t, out, "<title>Feed item</title>")
	assert.Contains(t, out, "https://blog.example/posts/1")
}

type failingStore struct{}

func (failingStore) Acquire(context.Context) (db.Handle, error) { return nil, errors.New("db down") }
func (failingStore) Close() error                               { return nil }

func TestStorageFaultIs500(t *testing.T) {
	e := newTestEnvWithStore(t, failingStore{})
	rec := e.do(t, http.MethodGet, "/", nil, false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, doc(t, rec).Find("#flash").HasClass("flash-error"))
	assert.Contains(t, e.logs.String(), "db down")
}

type countingStore struct {
	db.Store
	acquired, released atomic.Int32
}

type countingHandle struct {
	db.Handle
	s *countingStore
}

func (s *countingStore) Acquire(ctx context.Context) (db.Handle, error) {
	h, err := s.Store.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	s.acquired.Add(1)
	return countingHandle{Handle: h, s: s}, nil
}

func (h countingHandle) Release() error {
	h.s.released.Add(1)
	return h.Handle.Release()
}

func TestHandlesReleasedOnEveryPath(t *testing.T) {
	inner, err := db.Open(context.Background(), "mem://")
	require.NoError(t, err)
	cs := &countingStore{Store: inner}
	e := newTestEnvWithStore(t, cs)

	e.do(t, http.MethodGet, "/", nil, false)
	e.do(t, http.MethodPost, "/posts", form("", ""), false)
	e.do(t, http.MethodPost, "/posts", form("ok", "ok"), false)
	e.do(t, http.MethodGet, "/posts/99", nil, false)
	e.do(t, http.MethodPut, "/posts/1", form("x", ""), false)
	e.do(t, http.MethodDelete, "/posts/1", nil, false)

	assert.Equal(t, int32(6), cs.acquired.Load())
	assert.Equal(t, cs.acquired.Load(), cs.released.Load())
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
