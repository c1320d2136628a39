package storage

import (
	"context"
	"database/sql"
)

// Pool hands out dedicated connections. *sql.DB already satisfies it, and so
// does the pgx-backed handle returned by Open.
type Pool interface {
	Conn(ctx context.Context) (*sql.Conn, error)
	Close() error
}

// Runner is the command surface shared by *sql.Conn and *sql.Tx, so a
// statement can be bound to a connection alone or to its transaction.
type Runner interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Tx mirrors the subset of *sql.Tx we use.
type Tx interface {
	Runner
	Commit() error
	Rollback() error
}

var (
	_ Pool   = (*sql.DB)(nil)
	_ Runner = (*sql.Conn)(nil)
	_ Tx     = (*sql.Tx)(nil)
)
