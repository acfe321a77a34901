package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ibarrondo/aeronav/internal/pkg/config"
	"github.com/ibarrondo/aeronav/internal/pkg/logging"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|down>")
	}

	cfg, err := config.Load("aeronav-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("aeronav-migrate", cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		migrateUp(ctx, pool)
	case "down":
		slog.Warn("down migration not implemented, drop and re-run up")
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

// migrateUp applies every migrations/*.sql file in lexical order. Files are
// numbered, so lexical order is application order.
func migrateUp(ctx context.Context, pool *pgxpool.Pool) {
	files, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	if len(files) == 0 {
		log.Fatal("no migration files found under migrations/")
	}
	sort.Strings(files)

	start := time.Now()
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			log.Fatalf("read %s: %v", f, err)
		}

		t := time.Now()
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			log.Fatalf("exec %s: %v", f, err)
		}
		slog.Info("migration applied", "file", filepath.Base(f), "took", time.Since(t).String())
	}

	slog.Info("migrations complete", "applied", len(files), "took", time.Since(start).String())
}
