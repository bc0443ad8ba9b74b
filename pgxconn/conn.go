package pgxconn

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yuku/connpool"
)

// Conn is a borrowed *pgx.Conn. Every method of *pgx.Conn is available on it
// except Close, which returns the connection to the pool.
type Conn struct {
	*pgx.Conn
	handle *connpool.Handle[*pgx.Conn]
}

// Close returns the connection to the pool. The physical connection stays
// open. A second call returns connpool.ErrAlreadyReleased.
func (c *Conn) Close(ctx context.Context) error {
	return c.handle.Release()
}

// Release is Close without a context.
func (c *Conn) Release() error {
	return c.handle.Release()
}

// Destroy closes the physical connection instead of returning it to the pool.
func (c *Conn) Destroy(ctx context.Context) error {
	return c.handle.Destroy(ctx)
}

// ID identifies the physical connection across borrows.
func (c *Conn) ID() uuid.UUID {
	return c.handle.ID()
}
