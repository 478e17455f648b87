package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
)

type DBOptions struct {
	DSN       string
	MaxConns  int32
	MinConns  int32
	ConnectTO time.Duration
	PingTO    time.Duration
}

// OpenDB builds the pgx pool backing the proposal service.
func OpenDB(ctx context.Context, opt DBOptions) (*pgxpool.Pool, error) {
	if opt.DSN == "" {
		return nil, fmt.Errorf("database DSN is not set")
	}
	if opt.MaxConns == 0 {
		opt.MaxConns = 10
	}
	if opt.MinConns == 0 {
		opt.MinConns = 2
	}
	if opt.ConnectTO == 0 {
		opt.ConnectTO = 5 * time.Second
	}
	if opt.PingTO == 0 {
		opt.PingTO = 2 * time.Second
	}

	cfg, err := pgxpool.ParseConfig(opt.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = opt.MaxConns
	cfg.MinConns = opt.MinConns
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second

	cctx, cancel := context.WithTimeout(ctx, opt.ConnectTO)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	pctx, pcancel := context.WithTimeout(ctx, opt.PingTO)
	defer pcancel()

	if err := pool.Ping(pctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	return pool, nil
}

// OpenSQLDB builds the database/sql handle backing the contract service,
// where the repository leans on lib/pq's typed constraint errors.
func OpenSQLDB(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}
