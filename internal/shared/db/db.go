package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool *pgxpool.Pool
	once   sync.Once
)

// Querier is the part of pgx the repositories need. Both *pgxpool.Pool and
// pgx.Tx satisfy it.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// GetPostgresDBPool returns a singleton *pgxpool.Pool for the given DSN and
// pings it before handing it out. A zero maxConns or minConns keeps the pgx
// default (or the pool_max_conns / pool_min_conns DSN parameter).
func GetPostgresDBPool(ctx context.Context, dsn string, maxConns, minConns int32) (*pgxpool.Pool, error) {
	var err error
	once.Do(func() {
		config, configErr := pgxpool.ParseConfig(dsn)
		if configErr != nil {
			err = fmt.Errorf("failed to parse database config: %w", configErr)
			return
		}

		if limitErr := applyPoolLimits(config, maxConns, minConns); limitErr != nil {
			err = limitErr
			return
		}

		pool, connectErr := pgxpool.NewWithConfig(ctx, config)
		if connectErr != nil {
			err = fmt.Errorf("unable to connect to DB: %w", connectErr)
			return
		}
		dbPool = pool
	})

	if err != nil {
		return nil, err
	}
	if dbPool == nil {
		return nil, errors.New("database pool was not initialized")
	}
	if pingErr := dbPool.Ping(ctx); pingErr != nil {
		return nil, fmt.Errorf("database pool ping failed: %w", pingErr)
	}

	return dbPool, nil
}

func applyPoolLimits(config *pgxpool.Config, maxConns, minConns int32) error {
	if maxConns < 0 || minConns < 0 {
		return fmt.Errorf("pool limits cannot be negative (max %d, min %d)", maxConns, minConns)
	}
	if maxConns > 0 {
		config.MaxConns = maxConns
	}
	if minConns > 0 {
		config.MinConns = minConns
	}
	if config.MinConns > config.MaxConns {
		return fmt.Errorf("min conns %d exceeds max conns %d", config.MinConns, config.MaxConns)
	}
	return nil
}
