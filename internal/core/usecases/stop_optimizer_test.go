package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
)

func TestNearestNeighborOrder_Identity(t *testing.T) {
	one := usecases.NearestNeighborOrder([]domain.Stop{{ID: 1}})
	if !reflect.DeepEqual(one, []int{1}) {
		t.Errorf("expected [1], got %v", one)
	}
	two := usecases.NearestNeighborOrder([]domain.Stop{{ID: 2, Lat: 5}, {ID: 1}})
	if !reflect.DeepEqual(two, []int{1, 2}) {
		t.Errorf("expected [1 2], got %v", two)
	}
}

func TestNearestNeighborOrder_VisitsClosestFirst(t *testing.T) {
	got := usecases.NearestNeighborOrder(threeStops())
	if !reflect.DeepEqual(got, []int{1, 3, 2}) {
		t.Errorf("expected [1 3 2], got %v", got)
	}
}

func TestNearestNeighborOrder_StartsAtOneRegardlessOfInputOrder(t *testing.T) {
	stops := []domain.Stop{
		{ID: 4, Lat: 0, Lon: 3},
		{ID: 2, Lat: 0, Lon: 1},
		{ID: 1, Lat: 0, Lon: 0},
		{ID: 3, Lat: 0, Lon: 2},
	}
	got := usecases.NearestNeighborOrder(stops)
	if !reflect.DeepEqual(got, []int{1, 2, 3, 4}) {
		t.Errorf("expected [1 2 3 4], got %v", got)
	}
}

func TestStopOptimizer_TooFewStops(t *testing.T) {
	llm := &mockCompleter{}
	opt := usecases.NewStopOptimizer(llm, ports.CompletionOptions{})

	_, err := opt.OptimizeStopOrder(context.Background(), threeStops()[:2])
	if !errors.Is(err, domain.ErrTooFewStops) {
		t.Fatalf("expected ErrTooFewStops, got %v", err)
	}
	if llm.calls != 0 {
		t.Error("llm should not be called")
	}
}

func TestStopOptimizer_InvalidStopIDs(t *testing.T) {
	stops := threeStops()
	stops[2].ID = 7
	opt := usecases.NewStopOptimizer(nil, ports.CompletionOptions{})

	if _, err := opt.OptimizeStopOrder(context.Background(), stops); !errors.Is(err, domain.ErrInvalidStops) {
		t.Fatalf("expected ErrInvalidStops, got %v", err)
	}
}

func TestStopOptimizer_UsesValidLLMOrder(t *testing.T) {
	llm := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
			return "Sure! [2, 1, 3]", nil
		},
	}
	opt := usecases.NewStopOptimizer(llm, ports.CompletionOptions{Temperature: 0.1, MaxOutputTokens: 100})

	res, err := opt.OptimizeStopOrder(context.Background(), threeStops())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(res.Order, []int{2, 1, 3}) {
		t.Errorf("expected [2 1 3], got %v", res.Order)
	}
	if res.UsedFallback || res.Strategy != domain.StrategyLLM {
		t.Errorf("expected llm strategy, got %+v", res)
	}
	if res.RawResponse != "Sure! [2, 1, 3]" {
		t.Errorf("expected raw response kept, got %q", res.RawResponse)
	}
	if llm.lastOpts.Temperature != 0.1 || llm.lastOpts.MaxOutputTokens != 100 {
		t.Errorf("unexpected completion options: %+v", llm.lastOpts)
	}
}

func TestStopOptimizer_FallsBack(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{"duplicate ids", "[1, 1, 2]", nil},
		{"wrong length", "[1,2]", nil},
		{"out of range", "[1, 2, 9]", nil},
		{"prose only", "I would start at the depot.", nil},
		{"transport error", "", errors.New("status 503")},
		{"unavailable", "", domain.ErrLLMUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockCompleter{
				completeFn: func(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
					return tt.response, tt.err
				},
			}
			opt := usecases.NewStopOptimizer(llm, ports.CompletionOptions{})

			res, err := opt.OptimizeStopOrder(context.Background(), threeStops())
			if err != nil {
				t.Fatalf("fallback should not error: %v", err)
			}
			if !res.UsedFallback || res.Strategy != domain.StrategyNearestNeighbor {
				t.Errorf("expected heuristic fallback, got %+v", res)
			}
			if !reflect.DeepEqual(res.Order, []int{1, 3, 2}) {
				t.Errorf("expected [1 3 2], got %v", res.Order)
			}
			if res.FallbackReason == "" {
				t.Error("expected a fallback reason")
			}
		})
	}
}

func TestStopOptimizer_NoLLMConfigured(t *testing.T) {
	opt := usecases.NewStopOptimizer(nil, ports.CompletionOptions{})

	res, err := opt.OptimizeStopOrder(context.Background(), threeStops())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.UsedFallback {
		t.Error("expected fallback without llm")
	}

	_, _, err = opt.ReorderWithLLM(context.Background(), threeStops())
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("expected ErrLLMUnavailable, got %v", err)
	}
}

func TestStopOptimizer_ReorderWithLLM_KeepsRawOnRejection(t *testing.T) {
	llm := &mockCompleter{
		completeFn: func(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
			return "[3, 3, 1]", nil
		},
	}
	opt := usecases.NewStopOptimizer(llm, ports.CompletionOptions{})

	order, raw, err := opt.ReorderWithLLM(context.Background(), threeStops())
	if !errors.Is(err, domain.ErrInvalidStopOrder) {
		t.Fatalf("expected ErrInvalidStopOrder, got %v", err)
	}
	if order != nil {
		t.Errorf("expected no order, got %v", order)
	}
	if raw != "[3, 3, 1]" {
		t.Errorf("expected raw response, got %q", raw)
	}
}
