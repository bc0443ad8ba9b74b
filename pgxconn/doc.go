// Package pgxconn pools native github.com/jackc/pgx/v5 connections with
// connpool, so that pgx-specific features remain available on borrowed
// connections.
//
// # Basic Usage
//
//	pool, err := pgxconn.Open(ctx, &connpool.Config{
//	    URL:         "postgres://localhost:5432/app?sslmode=disable",
//	    InitialSize: 10,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Close(ctx)
//
//	conn, err := pool.Borrow(ctx)
//	if err != nil {
//	    return err
//	}
//	defer conn.Close(ctx)
//
//	batch := &pgx.Batch{}
//	batch.Queue("INSERT INTO users (name) VALUES ($1)", "Alice")
//	err = conn.SendBatch(ctx, batch).Close()
//
// # Closing Connections
//
// Conn embeds *pgx.Conn. Its Close does not terminate the session: it puts
// the physical connection back at the tail of the pool's idle queue. Use
// Destroy for a connection that is known to be broken.
//
// # Credentials
//
// Config.URL accepts anything pgx.ParseConfig does, URL or key=value form.
// Config.Username and Config.Password, when set, replace the user and password
// found in the URL.
//
// # Process-wide Pool
//
// Default returns a pool configured from CONNPOOL_* environment variables
// (DATABASE_URL is used when CONNPOOL_URL is unset). It is built once, on the
// first call.
package pgxconn
