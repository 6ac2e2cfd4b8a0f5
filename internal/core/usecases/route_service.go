package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
	"github.com/samirrijal/fuelroute/internal/pkg/metrics"
	"github.com/samirrijal/fuelroute/internal/pkg/telemetry"
)

const (
	minSearchQueryLen  = 2
	defaultSearchLimit = 5
	maxSearchLimit     = 20
)

// RouteService exposes place search and route calculation.
type RouteService struct {
	geocoder ports.Geocoder
	router   ports.Router
	cache    ports.CacheService
}

// NewRouteService creates a new RouteService. cache may be nil.
func NewRouteService(geocoder ports.Geocoder, router ports.Router, cache ports.CacheService) *RouteService {
	return &RouteService{geocoder: geocoder, router: router, cache: cache}
}

// SearchPlaces geocodes a free-text query. Queries shorter than two characters
// and gateway failures yield an empty list.
func (s *RouteService) SearchPlaces(ctx context.Context, query string, limit int) []domain.Place {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minSearchQueryLen {
		return []domain.Place{}
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	cacheKey := fmt.Sprintf("places:search:%s:%d", strings.ToLower(query), limit)
	var cached []domain.Place
	if s.cacheGet(ctx, cacheKey, "search_places", &cached) {
		return cached
	}

	places, err := s.geocoder.Search(ctx, query, limit)
	if err != nil {
		logging.FromContext(ctx).Warn("place search failed", "query", query, "error", err)
		return []domain.Place{}
	}
	if places == nil {
		places = []domain.Place{}
	}

	// Geocoding results are stable, cache for 1 hour
	s.cacheSet(ctx, cacheKey, places, 3600)
	return places
}

// CalculateRoute routes through waypoints in order. Fewer than two waypoints is a
// usage error; gateway failures are reported in the result, not as an error.
func (s *RouteService) CalculateRoute(ctx context.Context, waypoints []domain.GeoPoint, optimize bool) (*domain.RouteResult, error) {
	if len(waypoints) < 2 {
		return nil, domain.ErrTooFewWaypoints
	}

	ctx, span := telemetry.StartSpan(ctx, telemetry.SpanCalculateRoute,
		telemetry.AttrWaypointCount.Int(len(waypoints)))
	defer span.End()

	cacheKey := routeCacheKey(waypoints, optimize)
	var cached domain.Route
	if s.cacheGet(ctx, cacheKey, "calculate_route", &cached) {
		return &domain.RouteResult{Success: true, Route: &cached}, nil
	}

	route, err := s.router.Route(ctx, waypoints, optimize)
	if err != nil {
		logging.FromContext(ctx).Warn("route calculation failed",
			"waypoints", len(waypoints), "optimize", optimize, "error", err)
		return &domain.RouteResult{Success: false, Error: err.Error()}, nil
	}

	s.cacheSet(ctx, cacheKey, route, 600)
	return &domain.RouteResult{Success: true, Route: route}, nil
}

func routeCacheKey(waypoints []domain.GeoPoint, optimize bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "routes:%t", optimize)
	for _, w := range waypoints {
		fmt.Fprintf(&b, ":%.6f,%.6f", w.Lat, w.Lon)
	}
	return b.String()
}

func (s *RouteService) cacheGet(ctx context.Context, key, op string, dst any) bool {
	if s.cache == nil {
		return false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return true
}

func (s *RouteService) cacheSet(ctx context.Context, key string, v any, ttlSeconds int) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = s.cache.Set(ctx, key, data, ttlSeconds)
	}
}
