package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/ibarrondo/aeronav/internal/adapters/http"
	natsadapter "github.com/ibarrondo/aeronav/internal/adapters/nats"
	"github.com/ibarrondo/aeronav/internal/adapters/postgres"
	"github.com/ibarrondo/aeronav/internal/adapters/valkey"
	"github.com/ibarrondo/aeronav/internal/core/atmosphere"
	"github.com/ibarrondo/aeronav/internal/core/ports"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
	"github.com/ibarrondo/aeronav/internal/pkg/config"
	"github.com/ibarrondo/aeronav/internal/pkg/logging"
	"github.com/ibarrondo/aeronav/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("aeronav-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup("aeronav-api", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	var events ports.EventPublisher
	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		events = publisher
		defer publisher.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Repos
	waypointRepo := postgres.NewWaypointRepo(db)
	navlogRepo := postgres.NewNavLogRepo(db)

	// Use cases
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	navigationSvc := usecases.NewNavigationService(cacheSvc)
	altimetrySvc := usecases.NewAltimetryService(atmosphere.Limits{
		HardMin: cfg.Atmosphere.HardMinHPa,
		WarnMin: cfg.Atmosphere.WarnMinHPa,
		WarnMax: cfg.Atmosphere.WarnMaxHPa,
		HardMax: cfg.Atmosphere.HardMaxHPa,
	})
	waypointSvc := usecases.NewWaypointService(waypointRepo, cacheSvc)
	planSvc := usecases.NewPlanService(waypointRepo, navlogRepo, events)

	deps := &http.Dependencies{
		Navigation: navigationSvc,
		Altimetry:  altimetrySvc,
		Waypoints:  waypointSvc,
		Plans:      planSvc,
		Events:     events,
		NATS:       natsConn,
		DB:         db,
		Cache:      cache,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "AeroNav API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
