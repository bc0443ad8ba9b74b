package dbutil

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// PageCount returns the number of pages of pageSize rows that sql yields.
func PageCount(ctx context.Context, pool Borrower, sql string, pageSize int, args ...any) (int, error) {
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidPage, pageSize)
	}

	total, err := QueryOne(ctx, pool, pgx.RowTo[int64], countSQL(sql), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return pageCount(total, pageSize), nil
}

// QueryPage returns at most count rows of sql starting at row begin. Rows are
// numbered from 1. sql should carry its own ORDER BY for stable pages.
func QueryPage[T any](ctx context.Context, pool Borrower, scan pgx.RowToFunc[T], sql string, begin, count int, args ...any) ([]T, error) {
	if begin < 1 {
		return nil, fmt.Errorf("%w: begin must be at least 1, got %d", ErrInvalidPage, begin)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count must not be negative, got %d", ErrInvalidPage, count)
	}
	if count == 0 {
		return []T{}, nil
	}

	args = append(args[:len(args):len(args)], count, begin-1)
	return Query(ctx, pool, scan, pageSQL(sql, len(args)-1), args...)
}

func pageCount(total int64, pageSize int) int {
	size := int64(pageSize)
	return int((total + size - 1) / size)
}

func countSQL(sql string) string {
	return fmt.Sprintf("SELECT count(*) FROM (%s) AS counted", sql)
}

// pageSQL wraps sql in a LIMIT/OFFSET query whose placeholders follow the
// limitArg-1 placeholders sql already uses.
func pageSQL(sql string, limitArg int) string {
	return fmt.Sprintf("SELECT * FROM (%s) AS paged LIMIT $%d OFFSET $%d", sql, limitArg, limitArg+1)
}
