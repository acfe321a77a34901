package ports

import (
	"context"

	"github.com/ibarrondo/aeronav/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishLegComputed(ctx context.Context, leg *domain.NavLogLeg) error
	PublishPlanReady(ctx context.Context, nl *domain.NavLog) error
	PublishPlanRequest(ctx context.Context, req *domain.PlanRequest) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribePlanRequests(ctx context.Context, handler func(ctx context.Context, req *domain.PlanRequest) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}
