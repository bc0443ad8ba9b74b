package dbutil_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuku/connpool"
	"github.com/yuku/connpool/dbutil"
	"github.com/yuku/connpool/internal/testutil"
	"github.com/yuku/connpool/pgxconn"
)

type user struct {
	ID   int32
	Name string
}

// setupUsers opens a single-session pool and fills a temporary table on that
// session. Every helper call below lands on the same session.
func setupUsers(t *testing.T, n int) *pgxconn.Pool {
	t.Helper()

	ctx := context.Background()
	pool, err := pgxconn.Open(ctx, testutil.PostgresConfig(t, 1, 1))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close(ctx) })

	_, err = dbutil.Exec(ctx, pool, `CREATE TEMP TABLE users (id int PRIMARY KEY, name text NOT NULL)`)
	require.NoError(t, err)

	affected, err := dbutil.Exec(ctx, pool,
		`INSERT INTO users (id, name) SELECT i, 'user' || i FROM generate_series(1, $1::int) AS i`, n)
	require.NoError(t, err)
	require.Equal(t, int64(n), affected)

	return pool
}

func TestQuery(t *testing.T) {
	ctx := context.Background()
	pool := setupUsers(t, 3)

	users, err := dbutil.Query(ctx, pool, pgx.RowToStructByName[user],
		"SELECT id, name FROM users WHERE id > $1 ORDER BY id", 1)
	require.NoError(t, err)
	assert.Equal(t, []user{{ID: 2, Name: "user2"}, {ID: 3, Name: "user3"}}, users)

	assert.Equal(t, 1, pool.Stats().Idle, "connection must be released")
}

func TestQueryOne(t *testing.T) {
	ctx := context.Background()
	pool := setupUsers(t, 3)

	name, err := dbutil.QueryOne(ctx, pool, pgx.RowTo[string], "SELECT name FROM users WHERE id = $1", 2)
	require.NoError(t, err)
	assert.Equal(t, "user2", name)

	_, err = dbutil.QueryOne(ctx, pool, pgx.RowTo[string], "SELECT name FROM users WHERE id = $1", 42)
	require.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = dbutil.QueryOne(ctx, pool, pgx.RowTo[string], "SELECT name FROM users")
	require.ErrorIs(t, err, pgx.ErrTooManyRows)
}

func TestExec(t *testing.T) {
	ctx := context.Background()
	pool := setupUsers(t, 5)

	affected, err := dbutil.Exec(ctx, pool, "DELETE FROM users WHERE id <= $1", 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	_, err = dbutil.Exec(ctx, pool, "INSERT INTO users (id, name) VALUES (3, 'dup')")
	require.Error(t, err)
	assert.Equal(t, 1, pool.Stats().Idle, "connection must be released after an error")
}

func TestPaging(t *testing.T) {
	ctx := context.Background()
	pool := setupUsers(t, 23)

	pages, err := dbutil.PageCount(ctx, pool, "SELECT id FROM users", 10)
	require.NoError(t, err)
	assert.Equal(t, 3, pages)

	pages, err = dbutil.PageCount(ctx, pool, "SELECT id FROM users WHERE id > $1", 5, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, pages)

	ids, err := dbutil.QueryPage(ctx, pool, pgx.RowTo[int32], "SELECT id FROM users ORDER BY id", 11, 10)
	require.NoError(t, err)
	assert.Equal(t, []int32{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids)

	ids, err = dbutil.QueryPage(ctx, pool, pgx.RowTo[int32],
		"SELECT id FROM users WHERE id % $1 = 0 ORDER BY id", 2, 5, 5)
	require.NoError(t, err)
	assert.Equal(t, []int32{10, 15, 20}, ids)

	ids, err = dbutil.QueryPage(ctx, pool, pgx.RowTo[int32], "SELECT id FROM users ORDER BY id", 100, 10)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestHelpers_Exhausted(t *testing.T) {
	ctx := context.Background()
	pool := setupUsers(t, 1)

	conn, err := pool.Borrow(ctx)
	require.NoError(t, err)
	defer conn.Release()

	_, err = dbutil.Exec(ctx, pool, "SELECT 1")
	require.ErrorIs(t, err, connpool.ErrPoolExhausted)
}
