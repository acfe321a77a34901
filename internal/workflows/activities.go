package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/ports"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
)

// PlanActivities holds the activity implementations for the flight plan workflow.
type PlanActivities struct {
	Plans   *usecases.PlanService
	NavLogs ports.NavLogRepository
	Events  ports.EventPublisher
}

// ResolveRoute maps an ordered ident list to stored waypoints.
func (a *PlanActivities) ResolveRoute(ctx context.Context, idents []string) ([]domain.Waypoint, error) {
	return a.Plans.ResolveRoute(ctx, idents)
}

// ComputeLegs solves the inverse problem for each consecutive waypoint pair.
func (a *PlanActivities) ComputeLegs(ctx context.Context, route []domain.Waypoint) ([]domain.NavLogLeg, error) {
	return a.Plans.ComputeLegs(ctx, route)
}

// StoreNavLog persists a navigation log and returns its ID.
func (a *PlanActivities) StoreNavLog(ctx context.Context, name string, legs []domain.NavLogLeg) (string, error) {
	nl := &domain.NavLog{Name: name, Legs: legs}
	for _, leg := range legs {
		nl.TotalMeters += leg.DistanceMeters
	}
	nl.TotalNM = nl.TotalMeters / domain.MetersPerNauticalMile

	if err := a.NavLogs.Insert(ctx, nl); err != nil {
		return "", fmt.Errorf("store navlog: %w", err)
	}
	return nl.ID, nil
}

// PublishPlanReady emits the plan-ready event for a stored log.
func (a *PlanActivities) PublishPlanReady(ctx context.Context, navlogID string) error {
	nl, err := a.NavLogs.GetByID(ctx, navlogID)
	if err != nil {
		return fmt.Errorf("load navlog %s: %w", navlogID, err)
	}
	if a.Events == nil {
		slog.Info("plan ready (no publisher)", "navlog", navlogID)
		return nil
	}
	return a.Events.PublishPlanReady(ctx, nl)
}

// DeleteNavLog removes a stored log (saga compensation / rollback).
func (a *PlanActivities) DeleteNavLog(ctx context.Context, navlogID string) error {
	if err := a.NavLogs.Delete(ctx, navlogID); err != nil {
		return fmt.Errorf("delete navlog %s: %w", navlogID, err)
	}
	slog.Info("navlog deleted (saga compensation)", "navlog", navlogID)
	return nil
}
