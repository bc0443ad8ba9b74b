// Package connpool provides a bounded, lazily growing pool of reusable database
// connections whose "close" returns the connection to the pool instead of
// terminating it.
//
// connpool keeps a FIFO queue of idle physical connections. A pool is created
// with one batch of connections; when a caller borrows from an empty pool, the
// pool opens another batch, up to a fixed number of batches. Past that ceiling
// borrowing fails fast with ErrPoolExhausted rather than waiting for a
// connection to come back. A liveness check can be run periodically: the first
// connection that fails its probe causes the whole pool to be discarded and
// rebuilt.
//
// # Key Features
//
//   - Batch growth on demand, capped at MaxGrowths*InitialSize connections
//   - Non-blocking Borrow with an explicit ErrPoolExhausted signal
//   - Single-use handles that recycle on release and reject a second release
//   - All-or-nothing liveness reset with a per-probe timeout
//   - Exactly-once lazy construction through Lazy
//
// # Basic Usage
//
// The core is generic over the physical connection type. Most programs use one
// of the driver packages instead of the core directly:
//
//   - pgxconn pools native *pgx.Conn connections
//   - sqlconn pools database/sql connections (lib/pq, pgx stdlib, MySQL, SQLite)
//
// With pgxconn:
//
//	cfg, err := connpool.LoadConfig("connpool.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	pool, err := pgxconn.Open(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close(ctx)
//
//	conn, err := pool.Borrow(ctx)
//	if errors.Is(err, connpool.ErrPoolExhausted) {
//		// try again later
//	}
//	defer conn.Close(ctx) // returns the connection to the pool
//
//	_, err = conn.Exec(ctx, "UPDATE users SET active = true WHERE id = $1", id)
//
// # Process-wide Pool
//
// A pool shared by a whole process is built through Lazy so that it is created
// on first use and exactly once, even when the first Borrow calls race:
//
//	var shared = connpool.NewLazy(func() (*connpool.Pool[*pgx.Conn], error) {
//		return connpool.New[*pgx.Conn](context.Background(), cfg, factory)
//	})
//
// Collaborators should receive the pool as a value rather than look it up, so
// that tests can build isolated pools with New.
//
// # Liveness
//
// CheckLiveness probes idle connections one by one. Sweep runs it on a ticker:
//
//	go pool.Sweep(ctx, time.Minute)
package connpool
