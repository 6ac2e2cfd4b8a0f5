package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
)

// RouteOptimizationWorkflow orders the stops and records the outcome. The
// optimize step has its own generous timeout because it waits on the LLM;
// recording retries independently so a storage hiccup does not re-run the LLM.
func RouteOptimizationWorkflow(ctx workflow.Context, req ports.OptimizationRequest) (string, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting route optimization workflow", "stops", len(req.Stops))

	optimizeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 2,
		},
	})
	recordCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 5,
		},
	})

	started := workflow.Now(ctx)

	var result domain.OptimizationResult
	if err := workflow.ExecuteActivity(optimizeCtx, ActivityOptimizeStops, req.Stops).Get(ctx, &result); err != nil {
		return "", err
	}

	in := RecordInput{
		RouteName: req.RouteName,
		Stops:     req.Stops,
		Result:    &result,
		ElapsedMs: workflow.Now(ctx).Sub(started).Milliseconds(),
	}
	var recordID string
	if err := workflow.ExecuteActivity(recordCtx, ActivityRecordOptimization, in).Get(ctx, &recordID); err != nil {
		return "", err
	}

	logger.Info("Route optimization recorded", "id", recordID, "strategy", result.Strategy)
	return recordID, nil
}
