package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/metailurini/sqlcontext/apperrors"
)

// Open returns a pool for dsn without contacting the server; reachability is
// checked later by the liveness probe. Pooling policy beyond reuse on/off is
// left to the driver.
func Open(ctx context.Context, d Dialect, dsn string, pooling bool) (Pool, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty dsn: %w", apperrors.ErrInvalidArgument)
	}
	switch d {
	case Postgres:
		return openPostgres(ctx, dsn, pooling)
	case MySQL, SQLite:
		db, err := sql.Open(d.DriverName(), dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", d, err)
		}
		if !pooling {
			db.SetMaxIdleConns(0)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("dialect %q: %w", d, apperrors.ErrNotSupported)
	}
}
