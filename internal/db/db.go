package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mithrel/hxblog/pkg/api"
)

// Store hands out request-scoped handles onto the posts relation.
type Store interface {
	Acquire(ctx context.Context) (Handle, error)
	Close() error
}

// Handle is one request's view of the posts relation. Every mutating call is
// atomic: its change is either fully visible to later reads or absent.
// Release must be called once the request is done with the handle.
type Handle interface {
	Create(ctx context.Context, d api.Draft) (api.Post, error)
	Get(ctx context.Context, id int64) (api.Post, error)
	// List returns every post, newest created_at first, ties by id descending.
	List(ctx context.Context) ([]api.Post, error)
	Update(ctx context.Context, id int64, d api.Draft) (api.Post, error)
	// Delete removes the post if present; a missing id is not an error.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
	Release() error
}

var (
	ErrNotFound          = errors.New("not found")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// CheckURL accepts the URLs Open understands: sqlite://, postgres://,
// postgresql://, mem:// and bare sqlite paths.
func CheckURL(url string) error {
	scheme, _, ok := strings.Cut(url, "://")
	if !ok {
		return nil
	}
	switch scheme {
	case "sqlite", "postgres", "postgresql", "mem":
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnsupportedScheme, scheme)
}

// Open returns a Store based on a URL: sqlite://path, postgres://..., or mem://.
// A bare path is treated as a sqlite file.
func Open(ctx context.Context, url string) (Store, error) {
	if err := CheckURL(url); err != nil {
		return nil, err
	}
	switch {
	case strings.HasPrefix(url, "mem://"):
		return openMem(), nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return openPostgres(ctx, url)
	default:
		return openSQLite(ctx, url)
	}
}
