package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
)

// Activity names as registered on the worker.
const (
	ActivityOptimizeStops      = "OptimizeStops"
	ActivityRecordOptimization = "RecordOptimization"
)

// RecordInput carries a computed optimization into the record activity.
type RecordInput struct {
	RouteName string                     `json:"route_name"`
	Stops     []domain.Stop              `json:"stops"`
	Result    *domain.OptimizationResult `json:"result"`
	ElapsedMs int64                      `json:"elapsed_ms"`
}

// OptimizationActivities holds the activity implementations for RouteOptimizationWorkflow.
type OptimizationActivities struct {
	Optimizer     *usecases.StopOptimizer
	Optimizations *usecases.OptimizationService
}

// OptimizeStops orders the stops. Input errors are not retried.
func (a *OptimizationActivities) OptimizeStops(ctx context.Context, stops []domain.Stop) (*domain.OptimizationResult, error) {
	result, err := a.Optimizer.OptimizeStopOrder(ctx, stops)
	if errors.Is(err, domain.ErrTooFewStops) || errors.Is(err, domain.ErrInvalidStops) {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidStops", err)
	}
	if err != nil {
		return nil, fmt.Errorf("optimize stops: %w", err)
	}
	activity.GetLogger(ctx).Info("stops optimized",
		"strategy", result.Strategy, "fallback", result.UsedFallback)
	return result, nil
}

// RecordOptimization persists the result and returns the record id.
func (a *OptimizationActivities) RecordOptimization(ctx context.Context, in RecordInput) (string, error) {
	rec, err := a.Optimizations.Record(ctx, in.RouteName, in.Stops, in.Result, time.Duration(in.ElapsedMs)*time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("record optimization: %w", err)
	}
	return rec.ID, nil
}
