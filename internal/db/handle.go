package db

import (
	"context"
	"errors"
)

// WithHandle acquires a handle, passes it to fn, and releases it whether fn
// succeeds or not. A release failure is reported only when fn succeeded.
func WithHandle(ctx context.Context, s Store, fn func(Handle) error) (err error) {
	h, err := s.Acquire(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if rerr := h.Release(); rerr != nil && err == nil {
			err = rerr
		}
	}()
	return fn(h)
}

// ErrReleased is returned by handle methods called after Release.
var ErrReleased = errors.New("handle already released")
