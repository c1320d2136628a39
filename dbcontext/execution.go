package dbcontext

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/metailurini/sqlcontext/query"
	"github.com/metailurini/sqlcontext/storage"
	"github.com/metailurini/sqlcontext/timeprovider"
)

// execution is the state of one call: the query snapshot, what it was bound
// to, and the connection it runs on.
type execution struct {
	id       uuid.UUID
	op       string
	query    query.Query
	text     string
	args     []any
	conn     *Connection
	start    time.Time
	affected int64
}

// run validates and binds q, opens a connection (beginning a transaction when
// q asks for one), calls fn, then commits or rolls back and releases the
// connection on every exit path, panics included.
func (c *Context) run(ctx context.Context, q *query.Query, op string, fn func(*execution) error) (err error) {
	if err := q.Validate(); err != nil {
		return err
	}
	snap := q.Clone()
	text, args, err := c.desc.Dialect.Bind(snap)
	if err != nil {
		return err
	}

	e := &execution{
		id:       uuid.New(),
		op:       op,
		query:    snap,
		text:     text,
		args:     args,
		start:    c.clock.Now(),
		affected: AffectedOnFailure,
	}

	e.conn, err = c.OpenConnection(ctx)
	if err != nil {
		c.logFailure(e, err)
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			c.finish(e, fmt.Errorf("panic: %v", p))
			panic(p)
		}
		err = c.finish(e, err)
	}()

	if snap.Transaction {
		if err := e.conn.Begin(ctx, c.desc.Dialect.TxOptions(snap.Isolation)); err != nil {
			return storage.NewDriverError("begin", err)
		}
	}
	return fn(e)
}

// finish applies the transaction outcome for err and closes the connection.
// A failed commit turns a successful execution into a failed one.
func (c *Context) finish(e *execution, err error) error {
	if err != nil {
		// a cancelled context has already rolled the transaction back
		if rbErr := e.conn.ApplyTransactionOutcome(Rollback); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			c.logger.Error("rollback failed", "exec_id", e.id, "conn", c.desc.Name, "err", rbErr)
		}
	} else if cmErr := e.conn.ApplyTransactionOutcome(Commit); cmErr != nil {
		err = storage.NewDriverError("commit", cmErr)
	}

	if clErr := e.conn.Close(); clErr != nil {
		c.logger.Warn("close connection failed", "exec_id", e.id, "conn", c.desc.Name, "err", clErr)
	}

	if err != nil {
		c.logFailure(e, err)
		return err
	}
	attrs := []any{
		"exec_id", e.id,
		"conn", c.desc.Name,
		"op", e.op,
		"kind", e.query.Kind.String(),
		"tx", e.query.Transaction,
		"elapsed", timeprovider.Since(c.clock, e.start),
	}
	if e.op == "exec" {
		attrs = append(attrs, "affected", e.affected)
	}
	c.logger.Debug("query executed", attrs...)
	return nil
}

func (c *Context) logFailure(e *execution, err error) {
	c.logger.Warn(
		"query failed",
		"exec_id", e.id,
		"conn", c.desc.Name,
		"op", e.op,
		"kind", e.query.Kind.String(),
		"tx", e.query.Transaction,
		"elapsed", timeprovider.Since(c.clock, e.start),
		"err", err,
	)
}
