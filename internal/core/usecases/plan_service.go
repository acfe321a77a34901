package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/geodesy"
	"github.com/ibarrondo/aeronav/internal/core/ports"
	"github.com/ibarrondo/aeronav/internal/pkg/metrics"
)

// maxRouteWaypoints bounds the number of idents in a single navigation log.
const maxRouteWaypoints = 50

// PlanService builds navigation logs from stored waypoints.
type PlanService struct {
	waypoints ports.WaypointRepository
	navlogs   ports.NavLogRepository
	events    ports.EventPublisher
}

// NewPlanService creates a new PlanService. events may be nil, in which case
// no leg/plan events are published.
func NewPlanService(waypoints ports.WaypointRepository, navlogs ports.NavLogRepository, events ports.EventPublisher) *PlanService {
	return &PlanService{waypoints: waypoints, navlogs: navlogs, events: events}
}

// Leg computes the geodesic between two stored waypoints.
func (s *PlanService) Leg(ctx context.Context, fromIdent, toIdent string) (*domain.NavLogLeg, error) {
	from, err := s.waypoints.GetByIdent(ctx, strings.ToUpper(strings.TrimSpace(fromIdent)))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", fromIdent, err)
	}
	to, err := s.waypoints.GetByIdent(ctx, strings.ToUpper(strings.TrimSpace(toIdent)))
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", toIdent, err)
	}

	return computeLeg(0, from, to)
}

// ResolveRoute maps an ordered list of idents to waypoints, preserving order.
// Every ident must resolve; unknown idents are an error.
func (s *PlanService) ResolveRoute(ctx context.Context, idents []string) ([]domain.Waypoint, error) {
	if len(idents) < 2 {
		return nil, fmt.Errorf("a route needs at least 2 waypoints, got %d", len(idents))
	}
	if len(idents) > maxRouteWaypoints {
		return nil, fmt.Errorf("a route may have at most %d waypoints, got %d", maxRouteWaypoints, len(idents))
	}

	upper := make([]string, len(idents))
	for i, id := range idents {
		upper[i] = strings.ToUpper(strings.TrimSpace(id))
	}

	found, err := s.waypoints.GetByIdents(ctx, upper)
	if err != nil {
		return nil, err
	}
	byIdent := make(map[string]domain.Waypoint, len(found))
	for _, wp := range found {
		byIdent[wp.Ident] = wp
	}

	route := make([]domain.Waypoint, 0, len(upper))
	for _, id := range upper {
		wp, ok := byIdent[id]
		if !ok {
			return nil, fmt.Errorf("unknown waypoint %q", id)
		}
		route = append(route, wp)
	}
	return route, nil
}

// ComputeLegs solves the inverse problem for each consecutive pair of the
// route. Consecutive identical waypoints yield a zero-length leg.
func (s *PlanService) ComputeLegs(ctx context.Context, route []domain.Waypoint) ([]domain.NavLogLeg, error) {
	legs := make([]domain.NavLogLeg, 0, len(route)-1)
	for i := 0; i+1 < len(route); i++ {
		leg, err := computeLeg(i+1, &route[i], &route[i+1])
		if err != nil {
			return nil, fmt.Errorf("leg %s-%s: %w", route[i].Ident, route[i+1].Ident, err)
		}
		legs = append(legs, *leg)
	}
	return legs, nil
}

// BuildNavLog resolves a route, computes its legs, persists the result, and
// publishes leg/plan events.
func (s *PlanService) BuildNavLog(ctx context.Context, name string, idents []string) (*domain.NavLog, error) {
	route, err := s.ResolveRoute(ctx, idents)
	if err != nil {
		return nil, err
	}

	legs, err := s.ComputeLegs(ctx, route)
	if err != nil {
		return nil, err
	}

	nl := &domain.NavLog{Name: name, Legs: legs}
	for _, leg := range legs {
		nl.TotalMeters += leg.DistanceMeters
	}
	nl.TotalNM = nl.TotalMeters / domain.MetersPerNauticalMile

	if err := s.navlogs.Insert(ctx, nl); err != nil {
		return nil, fmt.Errorf("store navlog: %w", err)
	}
	metrics.NavLogsBuilt.Inc()

	if s.events != nil {
		for i := range legs {
			if err := s.events.PublishLegComputed(ctx, &legs[i]); err != nil {
				slog.Warn("publish leg event failed", "leg", legs[i].Seq, "error", err)
			}
		}
		if err := s.events.PublishPlanReady(ctx, nl); err != nil {
			slog.Warn("publish plan ready failed", "navlog", nl.ID, "error", err)
		}
	}

	return nl, nil
}

// GetNavLog returns a stored navigation log.
func (s *PlanService) GetNavLog(ctx context.Context, id string) (*domain.NavLog, error) {
	return s.navlogs.GetByID(ctx, id)
}

// ListNavLogs returns the most recently created navigation logs.
func (s *PlanService) ListNavLogs(ctx context.Context, limit int) ([]domain.NavLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.navlogs.ListRecent(ctx, limit)
}

// DeleteNavLog removes a stored navigation log.
func (s *PlanService) DeleteNavLog(ctx context.Context, id string) error {
	return s.navlogs.Delete(ctx, id)
}

func computeLeg(seq int, from, to *domain.Waypoint) (*domain.NavLogLeg, error) {
	res, err := geodesy.Inverse(from.Location, to.Location)
	if err != nil {
		return nil, err
	}
	return &domain.NavLogLeg{
		Seq:            seq,
		FromIdent:      from.Ident,
		ToIdent:        to.Ident,
		From:           from.Location,
		To:             to.Location,
		DistanceMeters: res.DistanceMeters,
		DistanceNM:     res.DistanceMeters / domain.MetersPerNauticalMile,
		InitialBearing: res.InitialBearing,
	}, nil
}
