package connpool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolExhausted is returned by Borrow when no idle connection is left
	// and the pool has already grown as far as it is allowed to. It is a
	// transient condition; the caller may retry later.
	ErrPoolExhausted = errors.New("connection pool exhausted")

	// ErrPoolClosed is returned when the pool has been closed.
	ErrPoolClosed = errors.New("connection pool is closed")

	// ErrAlreadyReleased is returned when a borrowed handle is released or
	// destroyed more than once.
	ErrAlreadyReleased = errors.New("connection already released")
)

// ConfigError reports a missing or invalid configuration value.
// A pool cannot be built from a configuration that produces one.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// IsConfigError reports whether err is or wraps a *ConfigError.
func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}
