package store

import (
	"context"
	"database/sql"
	"fmt"
)

// sqlExecutor is implemented by *sql.DB, *sql.Conn and *sql.Tx so procedure
// calls can run against whichever one the caller holds.
type sqlExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withConn runs fn on a dedicated connection and hands the connection back to
// the pool on every return path. Output parameters live in session variables,
// so the call and the read-back must share one connection.
func withConn[T any](ctx context.Context, db *sql.DB, fn func(exec sqlExecutor) (T, error)) (T, error) {
	conn, err := db.Conn(ctx)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	return fn(conn)
}
