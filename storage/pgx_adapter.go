package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// pgxPool is a *sql.DB served by a pgxpool.Pool. stdlib.OpenDBFromPool does
// not close the pool with the DB, so Close releases both.
type pgxPool struct {
	*sql.DB
	pool *pgxpool.Pool
}

func (p *pgxPool) Close() error {
	err := p.DB.Close()
	p.pool.Close()
	return err
}

// openPostgres builds a database/sql handle on the pgx driver. With pooling
// the connections are owned by a pgxpool; without it every released
// connection is closed instead of kept idle.
func openPostgres(ctx context.Context, dsn string, pooling bool) (Pool, error) {
	if pooling {
		cfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("create pgxpool: %w", err)
		}
		return &pgxPool{DB: stdlib.OpenDBFromPool(pool), pool: pool}, nil
	}

	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	db := stdlib.OpenDB(*cfg)
	db.SetMaxIdleConns(0)
	return db, nil
}
