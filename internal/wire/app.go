package wire

import (
	"context"
	"log"
	"os"

	"github.com/spf13/viper"

	"github.com/mithrel/hxblog/internal/config"
	"github.com/mithrel/hxblog/internal/db"
	"github.com/mithrel/hxblog/internal/present/fragment"
	"github.com/mithrel/hxblog/internal/render"
	"github.com/mithrel/hxblog/internal/server"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg      *viper.Viper
	Log      *log.Logger
	Store    db.Store
	Markdown *render.Markdown
	Views    *fragment.Renderer
}

// BuildApp wires dependencies with the provided config.
func BuildApp(ctx context.Context, cfg *viper.Viper) (*App, error) {
	logger := log.New(os.Stdout, "hxblog ", log.LstdFlags)
	store, err := db.Open(ctx, config.ResolveDBURL(cfg))
	if err != nil {
		return nil, err
	}
	md := render.NewMarkdown(render.MarkdownOptions{Emoji: cfg.GetBool("markdown.emoji")})
	views, err := fragment.NewRenderer(md, fragment.Options{
		SiteTitle:     cfg.GetString("site.title"),
		PreviewLength: cfg.GetInt("preview.max_length"),
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return &App{
		Cfg:      cfg,
		Log:      logger,
		Store:    store,
		Markdown: md,
		Views:    views,
	}, nil
}

// Server builds the HTTP front end over the app's store.
func (a *App) Server() *server.Server {
	return server.New(a.Cfg, a.Store, a.Views, a.Markdown, a.Log)
}

func (a *App) Close() error {
	return a.Store.Close()
}
