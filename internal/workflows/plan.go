package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// PlanInput is the input for the flight plan workflow.
type PlanInput struct {
	RequestID string
	Name      string
	Idents    []string
}

// FlightPlanWorkflow orchestrates resolving a route, computing its legs,
// storing the navigation log, and publishing the plan-ready event. If
// publishing fails, the stored log is deleted (saga compensation).
func FlightPlanWorkflow(ctx workflow.Context, input PlanInput) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting flight plan workflow", "request", input.RequestID, "waypoints", len(input.Idents))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Resolve idents to stored waypoints
	var route []domain.Waypoint
	if err := workflow.ExecuteActivity(ctx, "ResolveRoute", input.Idents).Get(ctx, &route); err != nil {
		return "", err
	}

	// Step 2: Solve the inverse problem for each consecutive pair
	var legs []domain.NavLogLeg
	if err := workflow.ExecuteActivity(ctx, "ComputeLegs", route).Get(ctx, &legs); err != nil {
		return "", err
	}

	// Step 3: Persist the navigation log
	var navlogID string
	if err := workflow.ExecuteActivity(ctx, "StoreNavLog", input.Name, legs).Get(ctx, &navlogID); err != nil {
		return "", err
	}

	// Step 4: Publish the plan-ready event
	if err := workflow.ExecuteActivity(ctx, "PublishPlanReady", navlogID).Get(ctx, nil); err != nil {
		logger.Warn("publish failed, compensating", "navlog", navlogID, "error", err)
		// Compensate: delete the stored log
		_ = workflow.ExecuteActivity(ctx, "DeleteNavLog", navlogID).Get(ctx, nil)
		return "", err
	}

	logger.Info("Flight plan completed", "navlog", navlogID)
	return navlogID, nil
}
