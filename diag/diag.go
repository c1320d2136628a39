// Package diag holds operational probes run against a configured database.
package diag

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/metailurini/sqlcontext/dbcontext"
	"github.com/metailurini/sqlcontext/mapper"
	"github.com/metailurini/sqlcontext/query"
	"github.com/metailurini/sqlcontext/storage"
	"github.com/metailurini/sqlcontext/timeprovider"
)

var serverTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// RecordClockDrift queries the database for its current time and logs the drift
// between the DB clock and the provided time provider. It returns the measured
// drift and any error encountered while querying the database.
func RecordClockDrift(ctx context.Context, c *dbcontext.Context, provider timeprovider.Provider, logger *slog.Logger) (time.Duration, error) {
	driftCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	dbNow, err := dbcontext.Map(driftCtx, c, query.New(c.Dialect().NowQuery()), scanServerTime)
	if storage.IsNoRows(err) {
		err = fmt.Errorf("server time query returned no rows: %w", err)
	}
	if err != nil {
		logger.Warn("clock drift measurement failed", "conn", c.Descriptor().Name, "err", err)
		return 0, err
	}

	appNow := provider.Now()
	drift := dbNow.Sub(appNow)
	logger.Info("clock drift measured", "conn", c.Descriptor().Name, "db_now", dbNow, "app_now", appNow, "drift", drift)
	return drift, nil
}

func scanServerTime(rows *sql.Rows) (time.Time, error) {
	v, err := mapper.Scalar[any](rows)
	if err != nil {
		return time.Time{}, err
	}
	return parseServerTime(v)
}

// parseServerTime accepts what the supported drivers return for a current
// time query: a time.Time, or text for SQLite and for MySQL without
// parseTime. Text without a zone is read as UTC, which is what NowQuery
// selects on every dialect.
func parseServerTime(v any) (time.Time, error) {
	var s string
	switch t := v.(type) {
	case time.Time:
		return t, nil
	case string:
		s = t
	case []byte:
		s = string(t)
	default:
		return time.Time{}, fmt.Errorf("unexpected server time type %T", v)
	}
	for _, layout := range serverTimeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable server time %q", s)
}
