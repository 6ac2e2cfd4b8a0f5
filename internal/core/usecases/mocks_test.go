package usecases_test

import (
	"context"
	"sync"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
)

// --- Mock gateways ---

type mockGeocoder struct {
	searchFn func(ctx context.Context, text string, limit int) ([]domain.Place, error)
	calls    int
}

func (m *mockGeocoder) Search(ctx context.Context, text string, limit int) ([]domain.Place, error) {
	m.calls++
	if m.searchFn != nil {
		return m.searchFn(ctx, text, limit)
	}
	return nil, nil
}

type mockRouter struct {
	routeFn func(ctx context.Context, waypoints []domain.GeoPoint, optimize bool) (*domain.Route, error)
	calls   int
}

func (m *mockRouter) Route(ctx context.Context, waypoints []domain.GeoPoint, optimize bool) (*domain.Route, error) {
	m.calls++
	if m.routeFn != nil {
		return m.routeFn(ctx, waypoints, optimize)
	}
	return &domain.Route{}, nil
}

type mockPlaces struct {
	mu       sync.Mutex
	nearbyFn func(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error)
	calls    int
}

func (m *mockPlaces) Nearby(ctx context.Context, lat, lon, radius float64, category string) ([]domain.PointOfInterest, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.nearbyFn != nil {
		return m.nearbyFn(ctx, lat, lon, radius, category)
	}
	return nil, nil
}

type mockCompleter struct {
	completeFn func(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error)
	calls      int
	lastPrompt string
	lastOpts   ports.CompletionOptions
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string, opts ports.CompletionOptions) (string, error) {
	m.calls++
	m.lastPrompt = prompt
	m.lastOpts = opts
	if m.completeFn != nil {
		return m.completeFn(ctx, prompt, opts)
	}
	return "", nil
}

// --- Mock infrastructure ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache { return &mockCache{data: map[string][]byte{}} }

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

type mockOptimizationRepo struct {
	saved  []*domain.RouteOptimizationRecord
	saveFn func(ctx context.Context, rec *domain.RouteOptimizationRecord) error
	listFn func(ctx context.Context, offset, limit int) ([]domain.RouteOptimizationRecord, int, error)
}

func (m *mockOptimizationRepo) Save(ctx context.Context, rec *domain.RouteOptimizationRecord) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, rec)
	}
	m.saved = append(m.saved, rec)
	return nil
}

func (m *mockOptimizationRepo) GetByID(ctx context.Context, id string) (*domain.RouteOptimizationRecord, error) {
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockOptimizationRepo) List(ctx context.Context, offset, limit int) ([]domain.RouteOptimizationRecord, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

type mockPublisher struct {
	published []*domain.RouteOptimizationRecord
	err       error
}

func (m *mockPublisher) PublishOptimizationCompleted(ctx context.Context, rec *domain.RouteOptimizationRecord) error {
	m.published = append(m.published, rec)
	return m.err
}

func threeStops() []domain.Stop {
	return []domain.Stop{
		{ID: 1, Name: "Depot", Lat: 0, Lon: 0},
		{ID: 2, Name: "Far", Lat: 0, Lon: 10},
		{ID: 3, Name: "Near", Lat: 0, Lon: 1},
	}
}
