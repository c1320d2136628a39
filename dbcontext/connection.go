package dbcontext

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/metailurini/sqlcontext/storage"
)

// TxOutcome selects how an active transaction ends.
type TxOutcome int

const (
	Commit TxOutcome = iota + 1
	Rollback
)

func (o TxOutcome) String() string {
	switch o {
	case Commit:
		return "commit"
	case Rollback:
		return "rollback"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Connection is one dedicated connection with at most one transaction on it.
// It belongs to a single execution and is not safe for concurrent use.
type Connection struct {
	conn    *sql.Conn
	tx      *sql.Tx
	closed  bool
	release func()
}

// Begin starts a transaction on the connection.
func (c *Connection) Begin(ctx context.Context, opts *sql.TxOptions) error {
	if c.closed {
		return sql.ErrConnDone
	}
	if c.tx != nil {
		return errors.New("transaction already active")
	}
	tx, err := c.conn.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	c.tx = tx
	return nil
}

// InTransaction reports whether a transaction is active.
func (c *Connection) InTransaction() bool { return c.tx != nil }

// Runner returns the transaction when one is active, else the connection.
func (c *Connection) Runner() storage.Runner {
	if c.tx != nil {
		return c.tx
	}
	return c.conn
}

// ApplyTransactionOutcome commits or rolls back the active transaction. It is
// a no-op when none is active. The transaction is finished either way.
func (c *Connection) ApplyTransactionOutcome(op TxOutcome) error {
	if c.tx == nil {
		return nil
	}
	tx := c.tx
	c.tx = nil
	switch op {
	case Commit:
		return tx.Commit()
	case Rollback:
		return tx.Rollback()
	default:
		_ = tx.Rollback()
		return fmt.Errorf("unknown transaction outcome %s", op)
	}
}

// Close releases the connection. A transaction still active is rolled back
// first. Calling Close again does nothing.
func (c *Connection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	rbErr := c.ApplyTransactionOutcome(Rollback)
	err := c.conn.Close()
	if c.release != nil {
		c.release()
	}
	if errors.Is(rbErr, sql.ErrTxDone) {
		rbErr = nil
	}
	return errors.Join(rbErr, err)
}

// Closed reports whether Close has run.
func (c *Connection) Closed() bool { return c.closed }
