// Package dbutil runs one-shot statements on connections borrowed from a
// pgxconn.Pool. Every helper borrows a connection, runs a single statement and
// returns the connection to the pool before it returns.
//
// Rows are mapped with pgx.RowToFunc values such as pgx.RowToStructByName:
//
//	type User struct {
//		ID   int64
//		Name string
//	}
//
//	users, err := dbutil.Query(ctx, pool, pgx.RowToStructByName[User],
//		"SELECT id, name FROM users WHERE active = $1", true)
package dbutil

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yuku/connpool/pgxconn"
)

// ErrInvalidPage is returned for a page size, offset or count out of range.
var ErrInvalidPage = errors.New("invalid page")

// Borrower hands out pooled connections. *pgxconn.Pool implements it.
type Borrower interface {
	Borrow(ctx context.Context) (*pgxconn.Conn, error)
}

// Query runs sql and maps every returned row with scan.
func Query[T any](ctx context.Context, pool Borrower, scan pgx.RowToFunc[T], sql string, args ...any) ([]T, error) {
	conn, err := pool.Borrow(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to borrow connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	result, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, fmt.Errorf("failed to collect rows: %w", err)
	}
	return result, nil
}

// QueryOne runs sql and maps its only row with scan. It returns an error
// wrapping pgx.ErrNoRows when there is no row, and pgx.ErrTooManyRows when
// there is more than one.
func QueryOne[T any](ctx context.Context, pool Borrower, scan pgx.RowToFunc[T], sql string, args ...any) (T, error) {
	var zero T

	conn, err := pool.Borrow(ctx)
	if err != nil {
		return zero, fmt.Errorf("failed to borrow connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return zero, fmt.Errorf("failed to query: %w", err)
	}
	result, err := pgx.CollectExactlyOneRow(rows, scan)
	if err != nil {
		return zero, fmt.Errorf("failed to collect row: %w", err)
	}
	return result, nil
}

// Exec runs an INSERT, UPDATE, DELETE or DDL statement and returns the number
// of rows affected.
func Exec(ctx context.Context, pool Borrower, sql string, args ...any) (int64, error) {
	conn, err := pool.Borrow(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to borrow connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to execute: %w", err)
	}
	return tag.RowsAffected(), nil
}
