package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/fuelroute/internal/core/ports"
)

// Scheduler implements ports.OptimizationScheduler by starting
// RouteOptimizationWorkflow on a Temporal task queue.
type Scheduler struct {
	client    client.Client
	taskQueue string
}

// NewScheduler creates a Scheduler.
func NewScheduler(c client.Client, taskQueue string) *Scheduler {
	return &Scheduler{client: c, taskQueue: taskQueue}
}

// ScheduleOptimization starts a workflow and returns its id without waiting.
func (s *Scheduler) ScheduleOptimization(ctx context.Context, req ports.OptimizationRequest) (string, error) {
	opts := client.StartWorkflowOptions{
		ID:        "route-optimization-" + uuid.NewString(),
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, RouteOptimizationWorkflow, req)
	if err != nil {
		return "", fmt.Errorf("start workflow: %w", err)
	}
	return run.GetID(), nil
}
