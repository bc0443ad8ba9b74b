package sqlconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/yuku/connpool"
)

// Conn is a borrowed *sql.Conn. Close returns the session to the pool
// instead of terminating it.
type Conn struct {
	*sql.Conn
	handle *connpool.Handle[*PhysicalConn]
}

// Close returns the session to the pool. A second call returns
// connpool.ErrAlreadyReleased.
func (c *Conn) Close() error {
	return c.handle.Release()
}

// Destroy terminates the session instead of returning it to the pool.
func (c *Conn) Destroy(ctx context.Context) error {
	return c.handle.Destroy(ctx)
}

// ID identifies the session across borrows.
func (c *Conn) ID() uuid.UUID {
	return c.handle.ID()
}

// Pool is a connpool.Pool of database/sql sessions.
type Pool struct {
	*connpool.Pool[*PhysicalConn]
	factory *Factory
}

// Open builds a pool from cfg and opens its first batch of sessions.
func Open(ctx context.Context, cfg *connpool.Config) (*Pool, error) {
	factory, err := NewFactory(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := connpool.New[*PhysicalConn](ctx, cfg, factory)
	if err != nil {
		_ = factory.Close()
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Pool{Pool: pool, factory: factory}, nil
}

// Borrow takes an idle session out of the pool. See connpool.Pool.Borrow.
func (p *Pool) Borrow(ctx context.Context) (*Conn, error) {
	h, err := p.Pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: h.Conn().Conn, handle: h}, nil
}

// Close destroys the idle sessions and closes the underlying *sql.DB.
func (p *Pool) Close(ctx context.Context) error {
	return errors.Join(p.Pool.Close(ctx), p.factory.Close())
}

// Driver returns the registered database/sql driver in use.
func (p *Pool) Driver() string {
	return p.factory.Driver()
}
