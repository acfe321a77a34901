package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"
	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Deprecation headers for the legacy distance endpoint
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{
			Path:        "/v1/distance",
			SunsetDate:  time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC),
			Alternative: "/v1/geodesy/inverse",
		},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/geodesy/inverse", timeout.NewWithContext(InverseHandler(deps), 15*time.Second))
	v1.Get("/geodesy/direct", timeout.NewWithContext(DirectHandler(deps), 15*time.Second))
	v1.Get("/geodesy/track", timeout.NewWithContext(TrackHandler(deps), 15*time.Second))
	v1.Get("/altimetry/qnh", timeout.NewWithContext(QNHHandler(deps), 15*time.Second))

	v1.Get("/waypoints/nearby", timeout.NewWithContext(NearbyWaypointsHandler(deps), 15*time.Second))
	v1.Get("/waypoints/search", timeout.NewWithContext(SearchWaypointsHandler(deps), 15*time.Second))
	v1.Get("/waypoints/batch", timeout.NewWithContext(BatchWaypointsHandler(deps), 15*time.Second))
	v1.Get("/waypoints/:ident", timeout.NewWithContext(GetWaypointHandler(deps), 15*time.Second))
	v1.Put("/waypoints", timeout.NewWithContext(UpsertWaypointHandler(deps), 15*time.Second))

	v1.Get("/legs", timeout.NewWithContext(LegHandler(deps), 15*time.Second))

	v1.Post("/navlogs", timeout.NewWithContext(BuildNavLogHandler(deps), 30*time.Second))
	v1.Get("/navlogs", timeout.NewWithContext(ListNavLogsHandler(deps), 15*time.Second))
	v1.Get("/navlogs/:id", timeout.NewWithContext(GetNavLogHandler(deps), 15*time.Second))
	v1.Delete("/navlogs/:id", timeout.NewWithContext(DeleteNavLogHandler(deps), 15*time.Second))

	// Legacy alias, see DeprecationMiddleware above
	v1.Get("/distance", timeout.NewWithContext(DistanceHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
