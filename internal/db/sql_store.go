package db

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mithrel/hxblog/pkg/api"
)

// sqlStore serves both sqlite and postgres through database/sql. Queries are
// written with '?' placeholders and rebound for postgres.
type sqlStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

const postColumns = `id, title, body, created_at, updated_at`

func (s *sqlStore) Acquire(ctx context.Context) (Handle, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, err
	}
	return &sqlHandle{conn: conn, s: s}, nil
}

func (s *sqlStore) Close() error { return s.db.Close() }

// sqlHandle pins one pooled connection for the lifetime of a request.
type sqlHandle struct {
	conn *sql.Conn
	s    *sqlStore
}

func (h *sqlHandle) q(query string) string { return rebind(h.s.dialect, query) }

func (h *sqlHandle) Create(ctx context.Context, d api.Draft) (api.Post, error) {
	if err := d.Validate(); err != nil {
		return api.Post{}, err
	}
	now := h.s.now()
	p := api.Post{Title: d.Title, Body: d.Body, CreatedAt: now, UpdatedAt: now}
	row := h.conn.QueryRowContext(ctx, h.q(`INSERT INTO posts(title, body, created_at, updated_at) VALUES(?,?,?,?) RETURNING id`),
		p.Title, p.Body, p.CreatedAt, p.UpdatedAt)
	if err := row.Scan(&p.ID); err != nil {
		return api.Post{}, connErr(err)
	}
	return p, nil
}

func (h *sqlHandle) Get(ctx context.Context, id int64) (api.Post, error) {
	row := h.conn.QueryRowContext(ctx, h.q(`SELECT `+postColumns+` FROM posts WHERE id=?`), id)
	p, err := scanPost(row)
	return p, connErr(err)
}

func (h *sqlHandle) List(ctx context.Context) ([]api.Post, error) {
	rows, err := h.conn.QueryContext(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, connErr(err)
	}
	defer rows.Close()
	out := []api.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (h *sqlHandle) Update(ctx context.Context, id int64, d api.Draft) (api.Post, error) {
	if err := d.Validate(); err != nil {
		return api.Post{}, err
	}
	tx, err := h.conn.BeginTx(ctx, nil)
	if err != nil {
		return api.Post{}, connErr(err)
	}
	defer tx.Rollback()

	cur, err := scanPost(tx.QueryRowContext(ctx, h.q(`SELECT `+postColumns+` FROM posts WHERE id=?`), id))
	if err != nil {
		return api.Post{}, err
	}
	cur.Title = d.Title
	cur.Body = d.Body
	cur.UpdatedAt = notBefore(h.s.now(), cur.UpdatedAt)

	res, err := tx.ExecContext(ctx, h.q(`UPDATE posts SET title=?, body=?, updated_at=? WHERE id=?`),
		cur.Title, cur.Body, cur.UpdatedAt, id)
	if err != nil {
		return api.Post{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return api.Post{}, ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return api.Post{}, err
	}
	return cur, nil
}

func (h *sqlHandle) Delete(ctx context.Context, id int64) error {
	_, err := h.conn.ExecContext(ctx, h.q(`DELETE FROM posts WHERE id=?`), id)
	return connErr(err)
}

func (h *sqlHandle) Count(ctx context.Context) (int, error) {
	var n int
	err := h.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&n)
	return n, connErr(err)
}

// Release returns the pinned connection to the pool.
func (h *sqlHandle) Release() error {
	return connErr(h.conn.Close())
}

// connErr reports use of a closed connection as ErrReleased.
func connErr(err error) error {
	if errors.Is(err, sql.ErrConnDone) {
		return ErrReleased
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (api.Post, error) {
	var p api.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Post{}, ErrNotFound
		}
		return api.Post{}, err
	}
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, nil
}

// rebind rewrites '?' placeholders to $1..$n for postgres.
func rebind(dialect, query string) string {
	if dialect != dialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
