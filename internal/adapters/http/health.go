package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
		})
	}
}

// ReadyHandler reports whether the service can serve traffic: the database
// must answer, the broker and cache degrade to warnings in the checks map
// only when absent by configuration.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.Context(), 3*time.Second)
		defer cancel()

		checks := make(map[string]string)
		ready := true

		check := func(name string, fn func(context.Context) error) {
			if err := fn(ctx); err != nil {
				checks[name] = "error: " + err.Error()
				ready = false
				return
			}
			checks[name] = "ok"
		}

		if deps.DB != nil {
			check("database", deps.DB.Pool.Ping)
		} else {
			checks["database"] = "not configured"
			ready = false
		}

		if deps.NATS != nil {
			if deps.NATS.IsConnected() {
				checks["nats"] = "ok"
			} else {
				checks["nats"] = "disconnected"
				ready = false
			}
		} else {
			checks["nats"] = "not configured"
		}

		if deps.Cache != nil {
			check("cache", deps.Cache.Ping)
		} else {
			checks["cache"] = "not configured"
		}

		status, code := "ready", fiber.StatusOK
		if !ready {
			status, code = "not ready", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": checks,
		})
	}
}
