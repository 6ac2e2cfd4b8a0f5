package usecases

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/pkg/geospatial"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
	"github.com/samirrijal/fuelroute/internal/pkg/metrics"
	"github.com/samirrijal/fuelroute/internal/pkg/telemetry"
)

const minOptimizableStops = 3

// StopOptimizer orders stops, preferring the LLM and falling back to nearest neighbor.
type StopOptimizer struct {
	llm  ports.TextCompleter
	opts ports.CompletionOptions
}

// NewStopOptimizer creates a StopOptimizer. llm may be nil, in which case every
// call uses the heuristic.
func NewStopOptimizer(llm ports.TextCompleter, opts ports.CompletionOptions) *StopOptimizer {
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 100
	}
	return &StopOptimizer{llm: llm, opts: opts}
}

// OptimizeStopOrder returns a visiting order for stops. Fewer than three stops or
// ids that are not exactly 1..N are usage errors. Any LLM failure is absorbed and
// the nearest-neighbor order is returned with UsedFallback set.
func (o *StopOptimizer) OptimizeStopOrder(ctx context.Context, stops []domain.Stop) (*domain.OptimizationResult, error) {
	if len(stops) < minOptimizableStops {
		return nil, domain.ErrTooFewStops
	}
	if err := validateStopIDs(stops); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanOptimizeStops,
		telemetry.AttrStopCount.Int(len(stops)))
	defer span.End()

	order, raw, err := o.ReorderWithLLM(ctx, stops)
	if err == nil {
		metrics.OptimizationsTotal.WithLabelValues(string(domain.StrategyLLM)).Inc()
		span.SetAttributes(telemetry.AttrStrategy.String(string(domain.StrategyLLM)))
		return &domain.OptimizationResult{
			Order:       order,
			Strategy:    domain.StrategyLLM,
			RawResponse: raw,
		}, nil
	}

	reason := fallbackReason(err)
	metrics.LLMFallbacks.WithLabelValues(reason).Inc()
	metrics.OptimizationsTotal.WithLabelValues(string(domain.StrategyNearestNeighbor)).Inc()
	span.SetAttributes(telemetry.AttrStrategy.String(string(domain.StrategyNearestNeighbor)))

	log := logging.FromContext(ctx)
	if reason == "unavailable" {
		log.Debug("llm reorder unavailable, using nearest neighbor", "stops", len(stops))
	} else {
		log.Warn("llm reorder rejected, using nearest neighbor",
			"stops", len(stops), "reason", reason, "error", err)
	}

	return &domain.OptimizationResult{
		Order:          NearestNeighborOrder(stops),
		Strategy:       domain.StrategyNearestNeighbor,
		UsedFallback:   true,
		RawResponse:    raw,
		FallbackReason: err.Error(),
	}, nil
}

// ReorderWithLLM asks the model for a visiting order and validates it strictly.
// It returns domain.ErrLLMUnavailable when there are fewer than three stops or no
// model is configured. raw holds the model text whenever one was received.
func (o *StopOptimizer) ReorderWithLLM(ctx context.Context, stops []domain.Stop) (order []int, raw string, err error) {
	if len(stops) < minOptimizableStops || o.llm == nil {
		return nil, "", domain.ErrLLMUnavailable
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanLLMReorder)
	defer span.End()

	raw, err = o.llm.Complete(ctx, BuildReorderPrompt(stops), o.opts)
	if err != nil {
		return nil, "", err
	}

	order, err = ParseStopOrder(raw, len(stops))
	if err != nil {
		return nil, raw, err
	}
	return order, raw, nil
}

// NearestNeighborOrder builds a greedy tour starting at stop 1, always moving to
// the closest unvisited stop. Ties go to the lower id. With two or fewer stops the
// ids are returned in ascending order.
func NearestNeighborOrder(stops []domain.Stop) []int {
	sorted := make([]domain.Stop, len(stops))
	copy(sorted, stops)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	order := make([]int, 0, len(sorted))
	if len(sorted) <= 2 {
		for _, s := range sorted {
			order = append(order, s.ID)
		}
		return order
	}

	visited := make([]bool, len(sorted))
	cur := 0
	visited[cur] = true
	order = append(order, sorted[cur].ID)

	for len(order) < len(sorted) {
		next := -1
		best := 0.0
		for i, s := range sorted {
			if visited[i] {
				continue
			}
			d := geospatial.HaversineKm(sorted[cur].Lat, sorted[cur].Lon, s.Lat, s.Lon)
			if next == -1 || d < best {
				next, best = i, d
			}
		}
		visited[next] = true
		order = append(order, sorted[next].ID)
		cur = next
	}
	return order
}

func validateStopIDs(stops []domain.Stop) error {
	seen := make([]bool, len(stops)+1)
	for _, s := range stops {
		if s.ID < 1 || s.ID > len(stops) || seen[s.ID] {
			return fmt.Errorf("%w: got id %d for %d stops", domain.ErrInvalidStops, s.ID, len(stops))
		}
		seen[s.ID] = true
	}
	return nil
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrLLMUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrInvalidStopOrder):
		return "invalid_order"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "transport"
	}
}
