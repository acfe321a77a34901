package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// DB wraps a shared pgxpool.Pool and reports pool stats to Prometheus.
type DB struct {
	Pool *pgxpool.Pool
	stop chan struct{}
}

// New creates a connection pool, verifies connectivity, and starts the
// pool-stats reporter.
func New(ctx context.Context, dsn string) (*DB, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 50
	cfg.MinConns = 5
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	db := &DB{Pool: pool, stop: make(chan struct{})}
	go db.reportStats()
	return db, nil
}

// reportStats feeds pool gauges every 15 seconds until Close.
func (db *DB) reportStats() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		case <-db.stop:
			return
		}
	}
}

// Close stops the stats reporter and releases pool resources.
func (db *DB) Close() {
	close(db.stop)
	db.Pool.Close()
}
