package pgxconn

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yuku/connpool"
)

// Factory opens native pgx connections from a connpool.Config.
type Factory struct {
	connConfig *pgx.ConnConfig
}

// NewFactory parses cfg.URL and applies cfg.Username and cfg.Password on top
// of the credentials it carries. cfg.Driver must be empty or "pgx".
func NewFactory(cfg *connpool.Config) (*Factory, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.Driver != "" && cfg.Driver != DriverName {
		return nil, &connpool.ConfigError{
			Field: "Driver",
			Err:   fmt.Errorf("must be empty or %q for pgxconn, got %q", DriverName, cfg.Driver),
		}
	}
	if err := cfg.RequireURL(); err != nil {
		return nil, err
	}

	connConfig, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, &connpool.ConfigError{Field: "URL", Err: fmt.Errorf("failed to parse: %w", err)}
	}
	if cfg.Username != "" {
		connConfig.User = cfg.Username
	}
	if cfg.Password != "" {
		connConfig.Password = cfg.Password
	}

	return &Factory{connConfig: connConfig}, nil
}

// Connect opens a new physical connection.
func (f *Factory) Connect(ctx context.Context) (*pgx.Conn, error) {
	conn, err := pgx.ConnectConfig(ctx, f.connConfig.Copy())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", f.connConfig.Host, err)
	}
	return conn, nil
}

// ConnConfig returns a copy of the parsed connection configuration.
func (f *Factory) ConnConfig() *pgx.ConnConfig {
	return f.connConfig.Copy()
}
