package ports

import (
	"context"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishOptimizationCompleted(ctx context.Context, rec *domain.RouteOptimizationRecord) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// OptimizationRequest is the input of an asynchronous optimization run.
type OptimizationRequest struct {
	RouteName string        `json:"route_name"`
	Stops     []domain.Stop `json:"stops"`
}

// OptimizationScheduler runs the optimize-and-record pipeline in the background.
type OptimizationScheduler interface {
	ScheduleOptimization(ctx context.Context, req OptimizationRequest) (string, error)
}
