package main

import (
	"context"
	"log"
	"log/slog"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	natsadapter "github.com/ibarrondo/aeronav/internal/adapters/nats"
	"github.com/ibarrondo/aeronav/internal/adapters/postgres"
	"github.com/ibarrondo/aeronav/internal/core/domain"
	"github.com/ibarrondo/aeronav/internal/core/usecases"
	"github.com/ibarrondo/aeronav/internal/pkg/config"
	"github.com/ibarrondo/aeronav/internal/pkg/logging"
	"github.com/ibarrondo/aeronav/internal/workflows"
)

func main() {
	cfg, err := config.Load("aeronav-planworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logging.Setup("aeronav-planworker", cfg.Log.Level, cfg.Log.Format)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	waypointRepo := postgres.NewWaypointRepo(db)
	navlogRepo := postgres.NewNavLogRepo(db)
	planSvc := usecases.NewPlanService(waypointRepo, navlogRepo, publisher)

	// Connect to Temporal
	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})

	// Register workflow & activities
	w.RegisterWorkflow(workflows.FlightPlanWorkflow)
	w.RegisterActivity(&workflows.PlanActivities{
		Plans:   planSvc,
		NavLogs: navlogRepo,
		Events:  publisher,
	})

	// Queued plan requests start a workflow each
	err = subscriber.SubscribePlanRequests(ctx, func(ctx context.Context, req *domain.PlanRequest) error {
		opts := client.StartWorkflowOptions{
			ID:        "plan-" + req.RequestID,
			TaskQueue: cfg.Temporal.TaskQueue,
		}
		_, err := c.ExecuteWorkflow(ctx, opts, workflows.FlightPlanWorkflow, workflows.PlanInput{
			RequestID: req.RequestID,
			Name:      req.Name,
			Idents:    req.Idents,
		})
		if err != nil {
			slog.Error("start plan workflow failed", "request", req.RequestID, "error", err)
			return err
		}
		slog.Info("plan workflow started", "request", req.RequestID)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe plan requests: %v", err)
	}

	slog.Info("plan worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}
