package connpool

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Handle is a borrowed connection. Releasing it returns the physical
// connection to the pool instead of closing it.
//
// A Handle is single-use: after Release or Destroy, further calls return
// ErrAlreadyReleased and the connection must no longer be used through it.
type Handle[C Conn] struct {
	pool     *Pool[C]
	entry    *entry[C]
	released atomic.Bool
}

// Conn returns the physical connection.
func (h *Handle[C]) Conn() C {
	return h.entry.conn
}

// ID returns the identifier the pool assigned to the physical connection.
// It stays the same across borrows.
func (h *Handle[C]) ID() uuid.UUID {
	return h.entry.id
}

// CreatedAt returns when the physical connection was opened.
func (h *Handle[C]) CreatedAt() time.Time {
	return h.entry.createdAt
}

// Release appends the connection to the tail of the pool's idle queue.
func (h *Handle[C]) Release() error {
	if !h.released.CompareAndSwap(false, true) {
		h.pool.logger.Warn("connection released twice", "conn", h.entry.id)
		return ErrAlreadyReleased
	}
	return h.pool.recycle(h.entry)
}

// Destroy closes the physical connection instead of returning it to the
// pool. Use it when the connection is known to be broken.
func (h *Handle[C]) Destroy(ctx context.Context) error {
	if !h.released.CompareAndSwap(false, true) {
		return ErrAlreadyReleased
	}
	return h.pool.destroy(ctx, []*entry[C]{h.entry})
}

// Released reports whether Release or Destroy has been called.
func (h *Handle[C]) Released() bool {
	return h.released.Load()
}
