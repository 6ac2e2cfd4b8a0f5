package ports

import (
	"context"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// OptimizationRepository persists route optimization records.
type OptimizationRepository interface {
	Save(ctx context.Context, rec *domain.RouteOptimizationRecord) error
	GetByID(ctx context.Context, id string) (*domain.RouteOptimizationRecord, error)
	List(ctx context.Context, offset, limit int) ([]domain.RouteOptimizationRecord, int, error)
}
