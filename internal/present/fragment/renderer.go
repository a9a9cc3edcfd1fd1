package fragment

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/mithrel/hxblog/internal/render"
	"github.com/mithrel/hxblog/pkg/api"
)

//go:embed templates/*.html
var templatesFS embed.FS

// View names one of the fixed fragment templates.
type View string

const (
	ViewList          View = "list"
	ViewSingle        View = "single"
	ViewForm          View = "form"
	ViewConfirmDelete View = "confirm_delete"
)

// MarkdownRenderer converts a post body to HTML.
type MarkdownRenderer interface {
	Render(src string) string
}

type Options struct {
	SiteTitle     string
	PreviewLength int
}

// Renderer fills the fixed templates with post data. It performs no
// validation and no persistence.
type Renderer struct {
	tmpl *template.Template
	md   MarkdownRenderer
	opts Options
}

func NewRenderer(md MarkdownRenderer, opts Options) (*Renderer, error) {
	if opts.SiteTitle == "" {
		opts.SiteTitle = "hxblog"
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = render.DefaultPreviewLength
	}
	tmpl, err := template.New("fragments").Funcs(template.FuncMap{
		"date": formatDate,
		"iso":  formatISO,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse fragment templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, md: md, opts: opts}, nil
}

type listItem struct {
	api.Post
	Preview string
}

type listData struct {
	SiteTitle string
	Items     []listItem
}

type singleData struct {
	api.Post
	HTML template.HTML
}

type formData struct {
	Post  *api.Post
	Title string
	Body  string
}

// Render builds the fragment for view. data must be []api.Post for list,
// api.Post for single and confirm_delete, and *api.Post (nil for a new post)
// for form.
func (r *Renderer) Render(view View, data any) (Fragment, error) {
	var payload any
	switch view {
	case ViewList:
		posts, ok := data.([]api.Post)
		if !ok {
			return Fragment{}, fmt.Errorf("view %s: want []api.Post, got %T", view, data)
		}
		items := make([]listItem, 0, len(posts))
		for _, p := range posts {
			items = append(items, listItem{Post: p, Preview: render.Preview(p.Body, r.opts.PreviewLength)})
		}
		payload = listData{SiteTitle: r.opts.SiteTitle, Items: items}
	case ViewSingle:
		p, ok := data.(api.Post)
		if !ok {
			return Fragment{}, fmt.Errorf("view %s: want api.Post, got %T", view, data)
		}
		payload = singleData{Post: p, HTML: template.HTML(r.md.Render(p.Body))}
	case ViewForm:
		p, ok := data.(*api.Post)
		if !ok && data != nil {
			return Fragment{}, fmt.Errorf("view %s: want *api.Post, got %T", view, data)
		}
		fd := formData{Post: p}
		if p != nil {
			fd.Title, fd.Body = p.Title, p.Body
		}
		payload = fd
	case ViewConfirmDelete:
		p, ok := data.(api.Post)
		if !ok {
			return Fragment{}, fmt.Errorf("view %s: want api.Post, got %T", view, data)
		}
		payload = p
	default:
		return Fragment{}, fmt.Errorf("unknown view %q", view)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(view), payload); err != nil {
		return Fragment{}, fmt.Errorf("render %s: %w", view, err)
	}
	return Fragment{Target: RegionContent, HTML: buf.String()}, nil
}

func (r *Renderer) List(posts []api.Post) (Fragment, error) { return r.Render(ViewList, posts) }

func (r *Renderer) Single(p api.Post) (Fragment, error) { return r.Render(ViewSingle, p) }

// Form renders the create form when p is nil, the edit form otherwise.
func (r *Renderer) Form(p *api.Post) (Fragment, error) { return r.Render(ViewForm, p) }

func (r *Renderer) ConfirmDelete(p api.Post) (Fragment, error) { return r.Render(ViewConfirmDelete, p) }

type pageData struct {
	SiteTitle string
	Content   template.HTML
	Flash     template.HTML
}

// Page wraps a response's fragments in the full document, for requests that
// did not come from the partial-page client.
func (r *Renderer) Page(resp *Response) (string, error) {
	d := pageData{SiteTitle: r.opts.SiteTitle}
	if f, ok := resp.Part(RegionContent); ok {
		d.Content = template.HTML(f.HTML)
	}
	if f, ok := resp.Part(RegionFlash); ok {
		d.Flash = template.HTML(f.HTML)
	}
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "page", d); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

func formatDate(t time.Time) string { return t.UTC().Format("2 Jan 2006 15:04") }

func formatISO(t time.Time) string { return t.UTC().Format(time.RFC3339) }
