package http

import (
	"github.com/ibarrondo/aeronav/internal/adapters/postgres"
	"github.com/ibarrondo/aeronav/internal/adapters/valkey"
	"github.com/ibarrondo/aeronav/internal/core/ports"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
	"github.com/nats-io/nats.go"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Navigation *usecases.NavigationService
	Altimetry  *usecases.AltimetryService
	Waypoints  *usecases.WaypointService
	Plans      *usecases.PlanService
	Events     ports.EventPublisher
	NATS       *nats.Conn
	DB         *postgres.DB
	Cache      *valkey.Cache
}
