package http

import (
	"encoding/json"

	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

type waypointDTO struct {
	Lat float64 `json:"lat" validate:"latitude"`
	Lon float64 `json:"lon" validate:"longitude"`
}

type calculateRouteRequest struct {
	Waypoints []waypointDTO `json:"waypoints" validate:"min=2,max=50,dive"`
	Optimize  bool          `json:"optimize"`
}

type fuelStationsRequest struct {
	RouteGeometry json.RawMessage `json:"route_geometry" validate:"required"`
	RadiusM       float64         `json:"radius_m" validate:"omitempty,gt=0,lte=50000"`
}

type stopDTO struct {
	ID   int     `json:"id" validate:"min=1"`
	Name string  `json:"name" validate:"max=200"`
	Lat  float64 `json:"lat" validate:"latitude"`
	Lon  float64 `json:"lon" validate:"longitude"`
	Type string  `json:"type" validate:"omitempty,oneof=manual search fuel_station"`
}

type optimizeRequest struct {
	Stops []stopDTO `json:"stops" validate:"min=3,max=25,dive"`
}

type saveOptimizationRequest struct {
	RouteName string    `json:"route_name" validate:"required,max=200"`
	Stops     []stopDTO `json:"stops" validate:"min=3,max=25,dive"`
}

// routeDTO renders a route with its geometry as GeoJSON, so it can be posted
// back unchanged as route_geometry.
type routeDTO struct {
	DistanceKm   float64                `json:"distance_km"`
	DurationMin  float64                `json:"duration_min"`
	Geometry     *geojson.Geometry      `json:"geometry"`
	Instructions []domain.Instruction   `json:"instructions"`
	Waypoints    []domain.RouteWaypoint `json:"waypoints,omitempty"`
}

type routeResponse struct {
	Success bool      `json:"success"`
	Route   *routeDTO `json:"route,omitempty"`
	Error   string    `json:"error,omitempty"`
}

type optimizeResponse struct {
	Success bool `json:"success"`
	*domain.OptimizationResult
}

func toWaypoints(in []waypointDTO) []domain.GeoPoint {
	out := make([]domain.GeoPoint, len(in))
	for i, w := range in {
		out[i] = domain.GeoPoint{Lat: w.Lat, Lon: w.Lon}
	}
	return out
}

func toStops(in []stopDTO) []domain.Stop {
	out := make([]domain.Stop, len(in))
	for i, s := range in {
		out[i] = domain.Stop{ID: s.ID, Name: s.Name, Lat: s.Lat, Lon: s.Lon, Type: domain.StopType(s.Type)}
	}
	return out
}

func toRouteResponse(res *domain.RouteResult) routeResponse {
	out := routeResponse{Success: res.Success, Error: res.Error}
	if r := res.Route; r != nil {
		out.Route = &routeDTO{
			DistanceKm:   r.DistanceKm,
			DurationMin:  r.DurationMin,
			Geometry:     geojson.NewGeometry(r.Geometry),
			Instructions: r.Instructions,
			Waypoints:    r.Waypoints,
		}
	}
	return out
}

// decodeGeometry parses a GeoJSON geometry object.
func decodeGeometry(raw json.RawMessage) (*geojson.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil || g.Coordinates == nil {
		return nil, domain.ErrInvalidGeometry
	}
	return g, nil
}
