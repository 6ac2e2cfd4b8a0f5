package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// StopType classifies how a stop was added to a route.
type StopType string

const (
	StopTypeManual      StopType = "manual"
	StopTypeSearch      StopType = "search"
	StopTypeFuelStation StopType = "fuel_station"
)

// Stop is a labeled location to visit. ID is a 1-based ordinal unique within
// a single optimization request.
type Stop struct {
	ID   int      `json:"id"`
	Name string   `json:"name"`
	Lat  float64  `json:"lat"`
	Lon  float64  `json:"lon"`
	Type StopType `json:"type,omitempty"`
}

// Point returns the stop location as an orb point (lon, lat).
func (s Stop) Point() orb.Point {
	return orb.Point{s.Lon, s.Lat}
}

// Instruction is a single turn-by-turn step.
type Instruction struct {
	Text       string  `json:"text"`
	DistanceKm float64 `json:"distance_km"`
}

// RouteWaypoint is a waypoint as returned by the routing provider. OriginalIndex
// refers to the position in the request; it differs from the position in
// Route.Waypoints when the provider reordered them.
type RouteWaypoint struct {
	Location      GeoPoint `json:"location"`
	OriginalIndex int      `json:"original_index"`
}

// Route is a calculated route. Geometry is ordered lon, lat.
type Route struct {
	DistanceKm   float64         `json:"distance_km"`
	DurationMin  float64         `json:"duration_min"`
	Geometry     orb.LineString  `json:"geometry"`
	Instructions []Instruction   `json:"instructions"`
	Waypoints    []RouteWaypoint `json:"waypoints,omitempty"`
}

// RouteResult wraps a route calculation outcome. Failures carry a human-readable reason.
type RouteResult struct {
	Success bool   `json:"success"`
	Route   *Route `json:"route,omitempty"`
	Error   string `json:"error,omitempty"`
}

// PointOfInterest is a raw place returned by a points-of-interest query.
type PointOfInterest struct {
	Name    string            `json:"name"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Brand   string            `json:"brand"`
	Address string            `json:"address"`
	Tags    map[string]string `json:"tags,omitempty"`
}

// FuelStation is a fuel stop discovered along a route.
type FuelStation struct {
	Name                string  `json:"name"`
	Brand               string  `json:"brand"`
	Address             string  `json:"address"`
	Lat                 float64 `json:"lat"`
	Lon                 float64 `json:"lon"`
	PricePerLiter       float64 `json:"price_per_liter"`
	FuelType            string  `json:"fuel_type"`
	DistanceFromRouteKm float64 `json:"distance_from_route_km"`
}

// OptimizationStrategy names the algorithm that produced a visiting order.
type OptimizationStrategy string

const (
	StrategyLLM             OptimizationStrategy = "llm"
	StrategyNearestNeighbor OptimizationStrategy = "nearest_neighbor"
)

// OptimizationResult is a visiting order of stop IDs.
type OptimizationResult struct {
	Order          []int                `json:"order"`
	Strategy       OptimizationStrategy `json:"strategy"`
	UsedFallback   bool                 `json:"used_fallback"`
	RawResponse    string               `json:"raw_response,omitempty"`
	FallbackReason string               `json:"fallback_reason,omitempty"`
}

// RouteStatus is the lifecycle state of a saved route.
type RouteStatus string

const (
	RouteStatusDraft       RouteStatus = "draft"
	RouteStatusOptimized   RouteStatus = "optimized"
	RouteStatusAIOptimized RouteStatus = "ai_optimized"
	RouteStatusActive      RouteStatus = "active"
	RouteStatusCompleted   RouteStatus = "completed"
)

// OptimizationType records which optimizer family was used.
type OptimizationType string

const (
	OptimizationStandard OptimizationType = "standard"
	OptimizationGeminiAI OptimizationType = "gemini_ai"
)

// RouteOptimizationRecord is the persisted outcome of one optimization.
// Distances are kilometers, fuel is liters, savings are in the configured currency.
type RouteOptimizationRecord struct {
	ID               string           `json:"id"`
	RouteName        string           `json:"route_name"`
	Status           RouteStatus      `json:"status"`
	OptimizationType OptimizationType `json:"optimization_type"`
	Stops            []Stop           `json:"stops"`
	OriginalOrder    []int            `json:"original_order"`
	OptimizedOrder   []int            `json:"optimized_order"`
	DistanceBeforeKm float64          `json:"distance_before_km"`
	DistanceAfterKm  float64          `json:"distance_after_km"`
	DistanceSavedKm  float64          `json:"distance_saved_km"`
	FuelSavedLiters  float64          `json:"fuel_saved_liters"`
	FuelSavings      float64          `json:"fuel_savings"`
	ProcessingMs     int64            `json:"processing_ms"`
	LLMResponse      string           `json:"llm_response,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
}
