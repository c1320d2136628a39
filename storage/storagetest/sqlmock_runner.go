package storagetest

import (
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

type SQLMockRunner struct {
	sqlDB *sql.DB
	Mock  sqlmock.Sqlmock
}

// NewSQLMockRunner builds a mock database that matches statements by exact
// text (whitespace-normalized). With monitorPings, liveness probes must be
// declared with Mock.ExpectPing.
func NewSQLMockRunner(monitorPings bool) (*SQLMockRunner, error) {
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(monitorPings),
	)
	if err != nil {
		return nil, err
	}
	return &SQLMockRunner{sqlDB: db, Mock: mock}, nil
}

// DB returns the mock-backed *sql.DB, which satisfies storage.Pool.
func (r *SQLMockRunner) DB() *sql.DB { return r.sqlDB }

// MustSQLMock creates a runner and registers a cleanup that closes the
// database and fails the test on unmet expectations.
func MustSQLMock(t *testing.T, monitorPings bool) *SQLMockRunner {
	t.Helper()
	runner, err := NewSQLMockRunner(monitorPings)
	if err != nil {
		t.Fatalf("failed to create sqlmock runner: %v", err)
	}
	t.Cleanup(func() {
		runner.ExpectationsWereMet(t)
	})
	return runner
}

func (r *SQLMockRunner) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	r.Mock.ExpectClose()
	if err := r.sqlDB.Close(); err != nil {
		t.Fatalf("failed to close sqlmock db: %v", err)
	}
	if err := r.Mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet sqlmock expectations: %v", err)
	}
}

// AssertNoConnInUse fails when a connection taken from db was not returned.
func AssertNoConnInUse(t *testing.T, db *sql.DB) {
	t.Helper()
	if inUse := db.Stats().InUse; inUse != 0 {
		t.Fatalf("expected every connection to be released, %d still in use", inUse)
	}
}
