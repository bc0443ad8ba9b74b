package connpool_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/connpool"
)

func TestSweep(t *testing.T) {
	t.Run("resets a stale pool and stops on cancel", func(t *testing.T) {
		pool, _ := newTestPool(t, connpool.Config{InitialSize: 2})
		pool.IdleConns()[1].Kill()

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- pool.Sweep(ctx, 5*time.Millisecond) }()

		require.Eventually(t, func() bool {
			return pool.Stats().Resets >= 1
		}, time.Second, 5*time.Millisecond, "sweeper should reset the pool")

		cancel()
		select {
		case err := <-done:
			require.ErrorIs(t, err, context.Canceled)
		case <-time.After(time.Second):
			t.Fatal("sweeper did not stop")
		}

		assert.Equal(t, uint64(1), pool.Stats().Resets, "fresh connections should pass later sweeps")
	})

	t.Run("stops when the pool is closed", func(t *testing.T) {
		pool, _ := newTestPool(t, connpool.Config{InitialSize: 1})
		require.NoError(t, pool.Close(context.Background()))

		err := pool.Sweep(context.Background(), time.Millisecond)
		require.ErrorIs(t, err, connpool.ErrPoolClosed)
	})
}
