package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/metailurini/sqlcontext/apperrors"
)

func IsNoRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }

// DriverError reports a failure raised by the database driver while opening,
// beginning, executing, committing or rolling back. It matches
// apperrors.ErrDriverFailure and unwraps to the driver's own error.
type DriverError struct {
	// Op is the protocol step that failed, e.g. "exec" or "commit".
	Op string
	// Code is the SQLSTATE, MySQL error number or SQLite result code, when known.
	Code string
	Err  error
}

func (e *DriverError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("driver %s failed [%s]: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("driver %s failed: %v", e.Op, e.Err)
}

func (e *DriverError) Unwrap() error { return e.Err }

func (e *DriverError) Is(target error) bool { return target == apperrors.ErrDriverFailure }

// NewDriverError wraps err as a *DriverError for op. It returns nil for a nil
// err and leaves an existing *DriverError untouched.
func NewDriverError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *DriverError
	if errors.As(err, &de) {
		return err
	}
	return &DriverError{Op: op, Code: Code(err), Err: err}
}

// Code extracts the driver-specific error code from err, or "" when the
// driver is unknown.
func Code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}
	return ""
}

// MySQL error numbers for integrity failures.
var mysqlConstraintErrors = map[uint16]bool{
	1048: true, // column cannot be null
	1062: true, // duplicate entry
	1451: true, // parent row referenced
	1452: true, // child row without parent
	3819: true, // check constraint violated
}

// IsConstraintViolation reports whether err is an integrity constraint
// failure (unique, foreign key, not null, check) from any supported driver.
func IsConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return len(pgErr.Code) == 5 && pgErr.Code[:2] == "23"
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return mysqlConstraintErrors[myErr.Number]
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
	}
	return false
}
