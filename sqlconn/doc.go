// Package sqlconn pools database/sql sessions with connpool.
//
// Each pooled connection is one *sql.Conn taken from a *sql.DB that keeps no
// idle connections of its own. Borrowed connections embed *sql.Conn, so the
// usual ExecContext, QueryContext, BeginTx and Raw methods are available;
// Close returns the session to the pool instead of terminating it.
//
// # Drivers
//
// Config.Driver selects the database/sql driver:
//
//   - "postgres", "postgresql", "pq", "org.postgresql.Driver": github.com/lib/pq
//   - "pgx": github.com/jackc/pgx/v5/stdlib
//   - "mysql", "com.mysql.jdbc.Driver", "com.mysql.cj.jdbc.Driver": github.com/go-sql-driver/mysql
//   - "sqlite", "sqlite3", "org.sqlite.JDBC": github.com/mattn/go-sqlite3
//
// Config.URL may keep a "jdbc:" prefix. jdbc:mysql://host:port/db URLs are
// converted to the DSN format go-sql-driver/mysql expects.
//
// # Basic Usage
//
//	pool, err := sqlconn.Open(ctx, &connpool.Config{
//	    Driver:   "mysql",
//	    URL:      "jdbc:mysql://localhost:3306/app",
//	    Username: "app",
//	    Password: "secret",
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
//	defer conn.Close()
//
//	_, err = conn.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at < NOW()")
package sqlconn
