package connpool

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	// DefaultInitialSize is the batch size used when Config.InitialSize is zero.
	DefaultInitialSize = 10

	// DefaultMaxGrowths is the number of batches a pool may create before
	// Borrow starts reporting ErrPoolExhausted. The initial batch counts as
	// the first one, so a pool holds at most DefaultMaxGrowths*InitialSize
	// connections.
	DefaultMaxGrowths = 5

	// DefaultProbeTimeout bounds each liveness probe run by CheckLiveness.
	DefaultProbeTimeout = 10 * time.Second
)

// Config holds the configuration for creating a connection pool.
type Config struct {
	// Driver identifies the database driver used to open physical
	// connections. The core pool does not interpret it; the pgxconn and
	// sqlconn packages do.
	Driver string

	// URL is the connection string passed to the driver.
	URL string

	// Username and Password override the credentials embedded in URL
	// when they are not empty.
	Username string
	Password string

	// InitialSize is the number of connections opened per batch: once when
	// the pool is built, and again every time the pool grows.
	// Default: DefaultInitialSize.
	InitialSize int

	// MaxGrowths is the maximum number of batches, including the initial
	// one, the pool may create between two liveness resets.
	// Default: DefaultMaxGrowths.
	MaxGrowths int

	// ProbeTimeout bounds a single liveness probe. A probe that does not
	// answer in time counts as a failed probe.
	// Default: DefaultProbeTimeout.
	ProbeTimeout time.Duration

	// Logger receives pool events. Default: slog.Default().
	Logger *slog.Logger
}

// Validate checks if the configuration is valid.
// Zero values are valid; they are replaced with defaults when the pool is built.
func (c *Config) Validate() error {
	if c.InitialSize < 0 {
		return &ConfigError{Field: "InitialSize", Err: fmt.Errorf("must not be negative, got %d", c.InitialSize)}
	}

	if c.MaxGrowths < 0 {
		return &ConfigError{Field: "MaxGrowths", Err: fmt.Errorf("must not be negative, got %d", c.MaxGrowths)}
	}

	if c.ProbeTimeout < 0 {
		return &ConfigError{Field: "ProbeTimeout", Err: fmt.Errorf("must not be negative, got %s", c.ProbeTimeout)}
	}

	return nil
}

// RequireURL reports a *ConfigError when URL is empty.
// Factories that need a connection string call it before connecting.
func (c *Config) RequireURL() error {
	if c.URL == "" {
		return &ConfigError{Field: "URL", Err: errors.New("is required")}
	}
	return nil
}

// withDefaults returns a copy of c with zero values replaced by defaults.
func (c *Config) withDefaults() Config {
	cfg := *c

	if cfg.InitialSize == 0 {
		cfg.InitialSize = DefaultInitialSize
	}

	if cfg.MaxGrowths == 0 {
		cfg.MaxGrowths = DefaultMaxGrowths
	}

	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return cfg
}
