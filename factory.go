package connpool

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Conn is a physical database connection managed by a Pool.
//
// *pgx.Conn satisfies Conn directly; database/sql connections are adapted by
// the sqlconn package.
type Conn interface {
	// Ping reports whether the connection is still usable.
	Ping(ctx context.Context) error

	// Close destroys the physical connection.
	Close(ctx context.Context) error
}

// Factory opens physical connections for a Pool.
type Factory[C Conn] interface {
	Connect(ctx context.Context) (C, error)
}

// FactoryFunc adapts an ordinary function to the Factory interface.
type FactoryFunc[C Conn] func(ctx context.Context) (C, error)

// Connect calls f(ctx).
func (f FactoryFunc[C]) Connect(ctx context.Context) (C, error) {
	return f(ctx)
}

// entry is a physical connection together with its bookkeeping.
type entry[C Conn] struct {
	id        uuid.UUID
	conn      C
	createdAt time.Time

	// Guarded by Pool.mu.
	idle    bool // queued in Pool.idle
	probing bool // being pinged by CheckLiveness; not handed out
}

// createBatch attempts to open n connections. A failed attempt is logged and
// does not stop the remaining ones, so fewer than n entries may be returned.
// The returned error joins every individual failure. p.mu must be held.
func (p *Pool[C]) createBatch(ctx context.Context, n int) ([]*entry[C], error) {
	entries := make([]*entry[C], 0, n)
	var errs []error

	for range n {
		conn, err := p.factory.Connect(ctx)
		if err != nil {
			p.stats.createFailures++
			p.logger.Warn("failed to create connection", "error", err)
			errs = append(errs, fmt.Errorf("failed to create connection: %w", err))
			continue
		}

		e := &entry[C]{
			id:        uuid.New(),
			conn:      conn,
			createdAt: time.Now(),
		}
		p.stats.created++
		p.logger.Debug("created connection", "conn", e.id)
		entries = append(entries, e)
	}

	return entries, errors.Join(errs...)
}

// destroy closes the physical connections of entries. It must be called
// without holding p.mu.
func (p *Pool[C]) destroy(ctx context.Context, entries []*entry[C]) error {
	var errs []error
	for _, e := range entries {
		if err := e.conn.Close(ctx); err != nil {
			p.logger.Warn("failed to close connection", "conn", e.id, "error", err)
			errs = append(errs, fmt.Errorf("failed to close connection %s: %w", e.id, err))
		}
	}

	p.mu.Lock()
	p.stats.destroyed += uint64(len(entries))
	p.mu.Unlock()

	return errors.Join(errs...)
}
