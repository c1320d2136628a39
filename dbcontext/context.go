package dbcontext

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/metailurini/sqlcontext/apperrors"
	"github.com/metailurini/sqlcontext/config"
	"github.com/metailurini/sqlcontext/query"
	"github.com/metailurini/sqlcontext/storage"
	"github.com/metailurini/sqlcontext/timeprovider"
)

// AffectedOnFailure is the row count reported alongside an error.
const AffectedOnFailure int64 = -1

// Opener builds the pool for a descriptor. storage.Open is used when nil.
type Opener func(ctx context.Context, desc ConnectionDescriptor) (storage.Pool, error)

// Config controls a Context.
type Config struct {
	Logger       *slog.Logger
	TimeProvider timeprovider.Provider
	Opener       Opener
}

// Context runs queries against one database. It holds an assigned query for
// the ExecuteAffecting/ExecuteMapped style; Exec and Map take the query per
// call. All connection and transaction state lives in the per-call
// execution, so a Context may be shared between goroutines.
type Context struct {
	*Manager

	logger *slog.Logger
	clock  timeprovider.Provider

	mu    sync.Mutex
	query *query.Query
}

// New builds a Context for desc and opens its pool. No connection is made
// until the first probe or execution.
func New(ctx context.Context, desc ConnectionDescriptor, cfg Config) (*Context, error) {
	if desc.DSN == "" {
		return nil, fmt.Errorf("connection %q has no dsn: %w", desc.Name, apperrors.ErrConfigurationMissing)
	}
	if desc.Dialect == "" {
		desc.Dialect = storage.Postgres
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TimeProvider == nil {
		cfg.TimeProvider = timeprovider.RealProvider{}
	}
	open := cfg.Opener
	if open == nil {
		open = func(ctx context.Context, d ConnectionDescriptor) (storage.Pool, error) {
			return storage.Open(ctx, d.Dialect, d.DSN, d.Pooling)
		}
	}
	pool, err := open(ctx, desc)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", desc, err)
	}
	if pool == nil {
		return nil, fmt.Errorf("open %s: nil pool: %w", desc, apperrors.ErrNotConfigured)
	}
	return &Context{
		Manager: &Manager{desc: desc, pool: pool, logger: logger},
		logger:  logger,
		clock:   cfg.TimeProvider,
	}, nil
}

// PrepareContext builds a Context from the connection string stored under
// name in p.
func PrepareContext(ctx context.Context, p config.Provider, name string, dialect storage.Dialect, cfg Config) (*Context, error) {
	desc, err := ResolveKey(p, name, dialect)
	if err != nil {
		return nil, err
	}
	return New(ctx, desc, cfg)
}

// PrepareContextFrom builds a Context from discrete connection inputs, with
// credentials read from p.
func PrepareContextFrom(ctx context.Context, p config.Provider, opts BuildOptions, cfg Config) (*Context, error) {
	desc, err := ResolveBuild(p, opts)
	if err != nil {
		return nil, err
	}
	return New(ctx, desc, cfg)
}

// SetQuery assigns the query run by ExecuteAffecting and ExecuteMapped.
func (c *Context) SetQuery(q *query.Query) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// Assigned returns the query set with SetQuery, or nil.
func (c *Context) Assigned() *query.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// ExecuteAffecting runs the assigned query as a non-query and returns the
// affected row count. On failure the count is AffectedOnFailure.
func (c *Context) ExecuteAffecting(ctx context.Context) (int64, error) {
	return c.Exec(ctx, c.Assigned())
}

// ExecuteMapped runs the assigned query as a read and returns what mapper
// builds from the rows. On failure the zero value of T is returned.
func ExecuteMapped[T any](ctx context.Context, c *Context, mapper func(*sql.Rows) (T, error)) (T, error) {
	return Map(ctx, c, c.Assigned(), mapper)
}

// Exec runs q as a non-query and returns the affected row count.
//
// Errors: ErrInvalidQuery before any connection is made,
// ErrConnectionUnavailable when the probe fails, and *storage.DriverError
// (matching ErrDriverFailure) for anything the driver rejects. A transaction
// is rolled back on failure and the connection is always released.
func (c *Context) Exec(ctx context.Context, q *query.Query) (int64, error) {
	affected := AffectedOnFailure
	err := c.run(ctx, q, "exec", func(e *execution) error {
		res, err := e.conn.Runner().ExecContext(ctx, e.text, e.args...)
		if err != nil {
			return storage.NewDriverError("exec", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storage.NewDriverError("rows affected", err)
		}
		e.affected = n
		affected = n
		return nil
	})
	if err != nil {
		return AffectedOnFailure, err
	}
	return affected, nil
}

// Map runs q as a read and hands the rows to mapper exactly once, before the
// connection is released. The rows are only valid during that call. A mapper
// error or panic still rolls back and releases the connection.
func Map[T any](ctx context.Context, c *Context, q *query.Query, mapper func(*sql.Rows) (T, error)) (T, error) {
	var zero, result T
	if mapper == nil {
		return zero, fmt.Errorf("mapper is required: %w", apperrors.ErrInvalidArgument)
	}
	err := c.run(ctx, q, "query", func(e *execution) error {
		rows, err := e.conn.Runner().QueryContext(ctx, e.text, e.args...)
		if err != nil {
			return storage.NewDriverError("query", err)
		}
		defer rows.Close()

		v, err := mapper(rows)
		if err != nil {
			return fmt.Errorf("map rows: %w", err)
		}
		if err := rows.Err(); err != nil {
			return storage.NewDriverError("read rows", err)
		}
		if err := rows.Close(); err != nil {
			return storage.NewDriverError("close rows", err)
		}
		result = v
		return nil
	})
	if err != nil {
		return zero, err
	}
	return result, nil
}

// TryExecute calls fn and returns its value, or the zero value of T when fn
// returns an error or panics. The failure is logged and otherwise discarded.
// A nil c logs to slog.Default.
func TryExecute[T any](c *Context, fn func() (T, error)) (result T) {
	logger, name := slog.Default(), ""
	if c != nil {
		logger, name = c.logger, c.desc.Name
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("guarded call panicked", "conn", name, "panic", p)
			var zero T
			result = zero
		}
	}()
	v, err := fn()
	if err != nil {
		logger.Warn("guarded call failed", "conn", name, "err", err)
		var zero T
		return zero
	}
	return v
}
