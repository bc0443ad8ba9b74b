package sqlconn

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yuku/connpool"
)

// PhysicalConn adapts a single *sql.Conn to connpool.Conn.
type PhysicalConn struct {
	*sql.Conn
}

// Ping verifies that the session is still alive.
func (c *PhysicalConn) Ping(ctx context.Context) error {
	return c.PingContext(ctx)
}

// Close terminates the session. *sql.Conn.Close takes no context.
func (c *PhysicalConn) Close(_ context.Context) error {
	return c.Conn.Close()
}

// Factory opens single database/sql sessions for a connpool.Pool.
//
// The underlying *sql.DB retains no idle connections, so that closing a
// PhysicalConn terminates the session instead of parking it in a second pool.
type Factory struct {
	db     *sql.DB
	driver string
}

// NewFactory resolves cfg.Driver, builds the data source name and opens the
// *sql.DB sessions are drawn from. No connection is made yet.
func NewFactory(cfg *connpool.Config) (*Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	driver, err := DriverFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn, err := DataSourceName(driver, cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}
	db.SetMaxIdleConns(0)

	return &Factory{db: db, driver: driver}, nil
}

// Connect opens a new session.
func (f *Factory) Connect(ctx context.Context) (*PhysicalConn, error) {
	conn, err := f.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to connect with %s: %w", f.driver, err)
	}
	return &PhysicalConn{Conn: conn}, nil
}

// Driver returns the registered database/sql driver in use.
func (f *Factory) Driver() string {
	return f.driver
}

// Close closes the underlying *sql.DB.
func (f *Factory) Close() error {
	return f.db.Close()
}
