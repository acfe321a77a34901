package ports

import (
	"context"

	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// WaypointRepository persists named fixes.
type WaypointRepository interface {
	Upsert(ctx context.Context, wp *domain.Waypoint) error
	UpsertBatch(ctx context.Context, wps []domain.Waypoint) error
	GetByIdent(ctx context.Context, ident string) (*domain.Waypoint, error)
	GetByIdents(ctx context.Context, idents []string) ([]domain.Waypoint, error)
	FindNearby(ctx context.Context, lat, lon, radiusMeters float64, limit int) ([]domain.Waypoint, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Waypoint, error)
}

// NavLogRepository persists computed navigation logs.
type NavLogRepository interface {
	Insert(ctx context.Context, nl *domain.NavLog) error
	GetByID(ctx context.Context, id string) (*domain.NavLog, error)
	ListRecent(ctx context.Context, limit int) ([]domain.NavLog, error)
	Delete(ctx context.Context, id string) error
}
