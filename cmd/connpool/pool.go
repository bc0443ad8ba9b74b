package main

import (
	"context"
	"fmt"
	"time"

	"github.com/yuku/connpool"
	"github.com/yuku/connpool/pgxconn"
	"github.com/yuku/connpool/sqlconn"
)

// pool is the part of a driver pool the commands use.
type pool interface {
	Stats() connpool.Stats
	CheckLiveness(ctx context.Context) (bool, error)
	Sweep(ctx context.Context, interval time.Duration) error
	Close(ctx context.Context) error

	// Probe borrows a connection, runs SELECT 1 on it and releases it.
	Probe(ctx context.Context) error
}

type pgxPool struct {
	*pgxconn.Pool
}

func (p pgxPool) Probe(ctx context.Context) error {
	conn, err := p.Borrow(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to run probe query: %w", err)
	}
	return nil
}

type sqlPool struct {
	*sqlconn.Pool
}

func (p sqlPool) Probe(ctx context.Context) error {
	conn, err := p.Borrow(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	var one int
	if err := conn.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("failed to run probe query: %w", err)
	}
	return nil
}

// openPool opens a native pgx pool for the "pgx" driver or an empty driver,
// and a database/sql pool for every other driver.
func openPool(ctx context.Context, cfg *connpool.Config) (pool, error) {
	if cfg.Driver == "" || cfg.Driver == pgxconn.DriverName {
		p, err := pgxconn.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return pgxPool{p}, nil
	}

	p, err := sqlconn.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sqlPool{p}, nil
}

// loadConfig reads path when it is not empty and applies environment
// overrides on top.
func loadConfig(path string) (*connpool.Config, error) {
	cfg := &connpool.Config{}
	if path != "" {
		loaded, err := connpool.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := cfg.OverrideFromEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}
