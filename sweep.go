package connpool

import (
	"context"
	"errors"
	"time"
)

// Sweep calls CheckLiveness every interval until ctx is done or the pool is
// closed. It always returns a non-nil error.
func (p *Pool[C]) Sweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			reset, err := p.CheckLiveness(ctx)
			switch {
			case errors.Is(err, ErrPoolClosed):
				return err
			case ctx.Err() != nil:
				return ctx.Err()
			case err != nil:
				p.logger.Warn("liveness check failed", "error", err)
			case reset:
				p.logger.Info("connection pool reset by liveness check")
			}
		}
	}
}
