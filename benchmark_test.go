package connpool_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/yuku/connpool"
	"github.com/yuku/connpool/internal/testutil"
)

func newBenchmarkPool(b *testing.B, cfg connpool.Config) *fakePool {
	b.Helper()

	cfg.Logger = testutil.DiscardLogger()
	pool, err := connpool.New[*testutil.FakeConn](context.Background(), &cfg, testutil.NewFakeFactory())
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() { _ = pool.Close(context.Background()) })
	return pool
}

// BenchmarkBorrowRelease benchmarks the basic borrow/release cycle.
func BenchmarkBorrowRelease(b *testing.B) {
	ctx := context.Background()
	pool := newBenchmarkPool(b, connpool.Config{InitialSize: 10})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := pool.Borrow(ctx)
		if err != nil {
			b.Fatal(err)
		}
		if err := h.Release(); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkBorrowReleaseParallel benchmarks the cycle with every goroutine
// contending for the pool lock. Exhaustion is expected and not an error.
func BenchmarkBorrowReleaseParallel(b *testing.B) {
	ctx := context.Background()
	pool := newBenchmarkPool(b, connpool.Config{InitialSize: 10, MaxGrowths: 5})

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := pool.Borrow(ctx)
			if err != nil {
				continue
			}
			_ = h.Release()
		}
	})
}

// BenchmarkCheckLiveness benchmarks a sweep over a healthy pool.
func BenchmarkCheckLiveness(b *testing.B) {
	ctx := context.Background()

	for _, size := range []int{10, 100} {
		b.Run(fmt.Sprintf("%dconns", size), func(b *testing.B) {
			pool := newBenchmarkPool(b, connpool.Config{InitialSize: size})

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := pool.CheckLiveness(ctx); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

