package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mithrel/hxblog/pkg/api"
)

type memStore struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]api.Post
	now    func() time.Time
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[int64]api.Post), now: defaultNow}
}

func (m *memStore) Acquire(ctx context.Context) (Handle, error) {
	return &memHandle{m: m}, nil
}

func (m *memStore) Close() error { return nil }

type memHandle struct {
	m        *memStore
	released bool
}

func (h *memHandle) Create(ctx context.Context, d api.Draft) (api.Post, error) {
	if h.released {
		return api.Post{}, ErrReleased
	}
	if err := d.Validate(); err != nil {
		return api.Post{}, err
	}
	m := h.m
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := m.now()
	p := api.Post{ID: m.nextID, Title: d.Title, Body: d.Body, CreatedAt: now, UpdatedAt: now}
	m.byID[p.ID] = p
	return p, nil
}

func (h *memHandle) Get(ctx context.Context, id int64) (api.Post, error) {
	if h.released {
		return api.Post{}, ErrReleased
	}
	h.m.mu.RLock()
	defer h.m.mu.RUnlock()
	p, ok := h.m.byID[id]
	if !ok {
		return api.Post{}, ErrNotFound
	}
	return p, nil
}

func (h *memHandle) List(ctx context.Context) ([]api.Post, error) {
	if h.released {
		return nil, ErrReleased
	}
	h.m.mu.RLock()
	out := make([]api.Post, 0, len(h.m.byID))
	for _, p := range h.m.byID {
		out = append(out, p)
	}
	h.m.mu.RUnlock()
	sortNewestFirst(out)
	return out, nil
}

func (h *memHandle) Update(ctx context.Context, id int64, d api.Draft) (api.Post, error) {
	if h.released {
		return api.Post{}, ErrReleased
	}
	if err := d.Validate(); err != nil {
		return api.Post{}, err
	}
	m := h.m
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return api.Post{}, ErrNotFound
	}
	p.Title = d.Title
	p.Body = d.Body
	p.UpdatedAt = notBefore(m.now(), p.UpdatedAt)
	m.byID[id] = p
	return p, nil
}

func (h *memHandle) Delete(ctx context.Context, id int64) error {
	if h.released {
		return ErrReleased
	}
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	delete(h.m.byID, id)
	return nil
}

func (h *memHandle) Count(ctx context.Context) (int, error) {
	if h.released {
		return 0, ErrReleased
	}
	h.m.mu.RLock()
	defer h.m.mu.RUnlock()
	return len(h.m.byID), nil
}

func (h *memHandle) Release() error {
	if h.released {
		return ErrReleased
	}
	h.released = true
	return nil
}

func sortNewestFirst(posts []api.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
}

// defaultNow is the store clock. Postgres keeps microseconds, so every backend
// truncates to match and round-trips compare equal.
func defaultNow() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }

// notBefore keeps updated_at monotonic when the wall clock steps backwards.
func notBefore(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}
