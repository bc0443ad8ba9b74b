package pgxconn

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yuku/connpool"
)

// DriverName is the Config.Driver value selecting this package.
const DriverName = "pgx"

// Pool is a connpool.Pool of native pgx connections.
type Pool struct {
	*connpool.Pool[*pgx.Conn]
}

// Open builds a pool from cfg and opens its first batch of connections.
func Open(ctx context.Context, cfg *connpool.Config) (*Pool, error) {
	factory, err := NewFactory(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := connpool.New[*pgx.Conn](ctx, cfg, factory)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return &Pool{Pool: pool}, nil
}

// Borrow takes an idle connection out of the pool. See connpool.Pool.Borrow.
func (p *Pool) Borrow(ctx context.Context) (*Conn, error) {
	h, err := p.Pool.Borrow(ctx)
	if err != nil {
		return nil, err
	}
	return &Conn{Conn: h.Conn(), handle: h}, nil
}

var shared = connpool.NewLazy(func() (*connpool.Pool[*pgx.Conn], error) {
	cfg, err := connpool.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	pool, err := Open(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	return pool.Pool, nil
})

// Default returns the process-wide pool configured from the environment (see
// connpool.Config.OverrideFromEnv). It is built on the first call.
func Default() (*Pool, error) {
	pool, err := shared.Get()
	if err != nil {
		return nil, err
	}
	return &Pool{Pool: pool}, nil
}
