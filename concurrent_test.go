package connpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/connpool"
	"github.com/yuku/connpool/internal/testutil"
)

func TestPoolConcurrency(t *testing.T) {
	ctx := context.Background()

	t.Run("ConcurrentBorrowRelease", func(t *testing.T) {
		pool, _ := newTestPool(t, connpool.Config{InitialSize: 5, MaxGrowths: 4})

		const numWorkers = 50
		const iterations = 20
		var wg sync.WaitGroup
		var exhausted atomic.Int64
		errs := make(chan error, numWorkers)

		for range numWorkers {
			wg.Add(1)
			go func() {
				defer wg.Done()

				for range iterations {
					h, err := pool.Borrow(ctx)
					if errors.Is(err, connpool.ErrPoolExhausted) {
						exhausted.Add(1)
						continue
					}
					if err != nil {
						errs <- err
						return
					}
					if err := h.Release(); err != nil {
						errs <- err
						return
					}
				}
			}()
		}

		wg.Wait()
		close(errs)
		for err := range errs {
			t.Errorf("worker error: %v", err)
		}

		stats := pool.Stats()
		assert.LessOrEqual(t, stats.Created, uint64(20), "pool must not exceed MaxGrowths*InitialSize")
		assert.LessOrEqual(t, stats.GrowthCount, 4)
		assert.Equal(t, int(stats.Created), stats.Idle, "every connection should be back")
		assert.Equal(t, stats.Borrowed, stats.Recycled)
		assert.Equal(t, uint64(exhausted.Load()), stats.Exhausted)

		seen := make(map[*testutil.FakeConn]bool)
		for _, c := range pool.IdleConns() {
			require.Falsef(t, seen[c], "connection %d queued twice", c.Seq)
			seen[c] = true
		}
	})

	t.Run("ConcurrentDoubleRelease", func(t *testing.T) {
		pool, _ := newTestPool(t, connpool.Config{InitialSize: 1, MaxGrowths: 1})

		h, err := pool.Borrow(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		var ok atomic.Int64
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if h.Release() == nil {
					ok.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int64(1), ok.Load(), "exactly one release should win")
		assert.Equal(t, 1, pool.Stats().Idle)
	})

	t.Run("ConcurrentLivenessCheck", func(t *testing.T) {
		pool, factory := newTestPool(t, connpool.Config{InitialSize: 3, MaxGrowths: 3})

		var wg sync.WaitGroup
		stop := make(chan struct{})

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if conns := factory.Conns(); len(conns) > 0 {
					conns[len(conns)-1].Kill()
				}
				if _, err := pool.CheckLiveness(ctx); err != nil {
					t.Errorf("liveness check failed: %v", err)
					return
				}
			}
		}()

		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					h, err := pool.Borrow(ctx)
					if err != nil {
						continue
					}
					_ = h.Release()
				}
			}()
		}

		// Wait for the borrowers, then stop the checker.
		go func() {
			for pool.Stats().Borrowed+pool.Stats().Exhausted < 500 {
				select {
				case <-stop:
					return
				default:
				}
			}
			close(stop)
		}()
		wg.Wait()

		for _, c := range pool.IdleConns() {
			assert.Falsef(t, c.Closed(), "idle connection %d was destroyed", c.Seq)
		}
	})
}

func TestLazy(t *testing.T) {
	t.Run("builds exactly once", func(t *testing.T) {
		var builds atomic.Int64
		lazy := connpool.NewLazy(func() (*fakePool, error) {
			builds.Add(1)
			return connpool.New[*testutil.FakeConn](context.Background(), &connpool.Config{
				InitialSize: 2,
				Logger:      testutil.DiscardLogger(),
			}, testutil.NewFakeFactory())
		})

		const numWorkers = 20
		var wg sync.WaitGroup
		pools := make([]*fakePool, numWorkers)
		for i := range numWorkers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				p, err := lazy.Get()
				if err != nil {
					t.Errorf("get failed: %v", err)
					return
				}
				pools[i] = p
			}(i)
		}
		wg.Wait()

		assert.Equal(t, int64(1), builds.Load())
		for _, p := range pools {
			assert.Same(t, pools[0], p)
		}
		assert.Equal(t, 2, pools[0].Stats().Idle)
	})

	t.Run("returns the same error every time", func(t *testing.T) {
		var builds atomic.Int64
		lazy := connpool.NewLazy(func() (*fakePool, error) {
			builds.Add(1)
			return connpool.New[*testutil.FakeConn](context.Background(), &connpool.Config{InitialSize: -1}, testutil.NewFakeFactory())
		})

		_, err1 := lazy.Get()
		_, err2 := lazy.Get()
		require.Error(t, err1)
		assert.Equal(t, err1, err2)
		assert.Equal(t, int64(1), builds.Load())
	})
}
