package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/pkg/geospatial"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
	"github.com/samirrijal/fuelroute/internal/pkg/telemetry"
)

// FuelEconomy describes the vehicle used to price distance savings.
type FuelEconomy struct {
	KmPerLiter    float64
	PricePerLiter float64
}

// Savings compares a submitted stop order with an optimized one.
type Savings struct {
	DistanceBeforeKm float64
	DistanceAfterKm  float64
	DistanceSavedKm  float64
	FuelSavedLiters  float64
	FuelSavings      float64
}

// ComputeSavings measures both orders as open Haversine paths. A worse optimized
// order gives negative savings.
func ComputeSavings(stops []domain.Stop, original, optimized []int, econ FuelEconomy) Savings {
	byID := make(map[int]domain.Stop, len(stops))
	for _, s := range stops {
		byID[s.ID] = s
	}
	path := func(order []int) orb.LineString {
		line := make(orb.LineString, 0, len(order))
		for _, id := range order {
			if s, ok := byID[id]; ok {
				line = append(line, s.Point())
			}
		}
		return line
	}

	before := geospatial.PathLengthKm(path(original))
	after := geospatial.PathLengthKm(path(optimized))
	saved := before - after

	var liters float64
	if econ.KmPerLiter > 0 {
		liters = saved / econ.KmPerLiter
	}

	return Savings{
		DistanceBeforeKm: round(before, 3),
		DistanceAfterKm:  round(after, 3),
		DistanceSavedKm:  round(saved, 3),
		FuelSavedLiters:  round(liters, 3),
		FuelSavings:      round(liters*econ.PricePerLiter, 2),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// OptimizationService optimizes stop orders and keeps a record of each run.
type OptimizationService struct {
	optimizer *StopOptimizer
	repo      ports.OptimizationRepository
	events    ports.EventPublisher
	economy   FuelEconomy
}

// NewOptimizationService creates a new OptimizationService. events may be nil.
func NewOptimizationService(optimizer *StopOptimizer, repo ports.OptimizationRepository, events ports.EventPublisher, economy FuelEconomy) *OptimizationService {
	return &OptimizationService{optimizer: optimizer, repo: repo, events: events, economy: economy}
}

// SaveOptimization optimizes stops and persists the outcome.
func (s *OptimizationService) SaveOptimization(ctx context.Context, routeName string, stops []domain.Stop) (*domain.RouteOptimizationRecord, error) {
	start := time.Now()
	result, err := s.optimizer.OptimizeStopOrder(ctx, stops)
	if err != nil {
		return nil, err
	}
	return s.Record(ctx, routeName, stops, result, time.Since(start))
}

// Record persists an already computed optimization and publishes a completion event.
// Publishing is best effort.
func (s *OptimizationService) Record(ctx context.Context, routeName string, stops []domain.Stop, result *domain.OptimizationResult, elapsed time.Duration) (*domain.RouteOptimizationRecord, error) {
	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanSaveOptimization,
		telemetry.AttrStopCount.Int(len(stops)))
	defer span.End()

	original := make([]int, len(stops))
	for i, st := range stops {
		original[i] = st.ID
	}
	sv := ComputeSavings(stops, original, result.Order, s.economy)

	rec := &domain.RouteOptimizationRecord{
		ID:               uuid.NewString(),
		RouteName:        routeName,
		Status:           domain.RouteStatusOptimized,
		OptimizationType: domain.OptimizationStandard,
		Stops:            stops,
		OriginalOrder:    original,
		OptimizedOrder:   result.Order,
		DistanceBeforeKm: sv.DistanceBeforeKm,
		DistanceAfterKm:  sv.DistanceAfterKm,
		DistanceSavedKm:  sv.DistanceSavedKm,
		FuelSavedLiters:  sv.FuelSavedLiters,
		FuelSavings:      sv.FuelSavings,
		ProcessingMs:     elapsed.Milliseconds(),
		LLMResponse:      result.RawResponse,
		CreatedAt:        time.Now().UTC(),
	}
	if result.Strategy == domain.StrategyLLM {
		rec.Status = domain.RouteStatusAIOptimized
		rec.OptimizationType = domain.OptimizationGeminiAI
	}

	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, fmt.Errorf("save optimization: %w", err)
	}

	if s.events != nil {
		if err := s.events.PublishOptimizationCompleted(ctx, rec); err != nil {
			logging.FromContext(ctx).Warn("publish optimization event failed", "id", rec.ID, "error", err)
		}
	}

	return rec, nil
}

// Get returns a single optimization record.
func (s *OptimizationService) Get(ctx context.Context, id string) (*domain.RouteOptimizationRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a page of records, newest first, and the total count.
func (s *OptimizationService) List(ctx context.Context, offset, limit int) ([]domain.RouteOptimizationRecord, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, offset, limit)
}
