package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/fuelroute/internal/core/domain"
)

// legacySunset is when the /api aliases stop being served.
var legacySunset = time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC)

// legacyRoutes lists the pre-v1 endpoints and their successors.
var legacyRoutes = []DeprecatedRoute{
	{Path: "/api/search-places", SunsetDate: legacySunset, Alternative: "/v1/places/search"},
	{Path: "/api/calculate-route", SunsetDate: legacySunset, Alternative: "/v1/routes/calculate"},
	{Path: "/api/find-fuel-stations", SunsetDate: legacySunset, Alternative: "/v1/routes/fuel-stations"},
	{Path: "/api/ai-optimize", SunsetDate: legacySunset, Alternative: "/v1/routes/optimize"},
}

// The legacy endpoints answer 200 with success=false for domain failures, as
// their existing clients expect.

type legacySearchRequest struct {
	Query string `json:"query"`
}

type legacyRouteRequest struct {
	Waypoints []legacyWaypoint `json:"waypoints"`
	Optimize  bool             `json:"optimize"`
}

// legacyWaypoint decodes the [lat, lon] pairs the old clients send. The
// {"lat", "lon"} object form of /v1 is accepted too.
type legacyWaypoint waypointDTO

func (w *legacyWaypoint) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		var pair []float64
		if err := json.Unmarshal(data, &pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("waypoint must be [lat, lon], got %d values", len(pair))
		}
		w.Lat, w.Lon = pair[0], pair[1]
		return nil
	}
	return json.Unmarshal(data, (*waypointDTO)(w))
}

type legacyInstruction struct {
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// legacyRouteResponse is the flat route shape of the old endpoint.
// WaypointsOrder is null unless the request asked for optimization.
type legacyRouteResponse struct {
	Success        bool                   `json:"success"`
	Distance       float64                `json:"distance"`
	Duration       float64                `json:"duration"`
	Geometry       *geojson.Geometry      `json:"geometry"`
	Instructions   []legacyInstruction    `json:"instructions"`
	WaypointsOrder []domain.RouteWaypoint `json:"waypoints_order"`
}

type legacyFuelRequest struct {
	RouteGeometry json.RawMessage `json:"route_geometry"`
}

type legacyOptimizeRequest struct {
	Stops []stopDTO `json:"stops"`
}

func legacyFailure(c *fiber.Ctx, msg string) error {
	return c.JSON(fiber.Map{"success": false, "error": msg})
}

func legacySearchPlaces(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacySearchRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		return c.JSON(fiber.Map{"results": deps.Routes.SearchPlaces(c.UserContext(), req.Query, 0)})
	}
}

func legacyCalculateRoute(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacyRouteRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}

		waypoints := make([]domain.GeoPoint, len(req.Waypoints))
		for i, w := range req.Waypoints {
			waypoints[i] = domain.GeoPoint{Lat: w.Lat, Lon: w.Lon}
		}

		res, err := deps.Routes.CalculateRoute(c.UserContext(), waypoints, req.Optimize)
		if errors.Is(err, domain.ErrTooFewWaypoints) {
			return legacyFailure(c, "Need at least 2 waypoints")
		}
		if err != nil {
			return renderError(c, err)
		}
		if !res.Success || res.Route == nil {
			return legacyFailure(c, res.Error)
		}
		return c.JSON(toLegacyRoute(res.Route, req.Optimize))
	}
}

func toLegacyRoute(r *domain.Route, optimize bool) legacyRouteResponse {
	out := legacyRouteResponse{
		Success:      true,
		Distance:     r.DistanceKm,
		Duration:     r.DurationMin,
		Geometry:     geojson.NewGeometry(r.Geometry),
		Instructions: make([]legacyInstruction, len(r.Instructions)),
	}
	for i, in := range r.Instructions {
		out.Instructions[i] = legacyInstruction{Text: in.Text, Distance: in.DistanceKm}
	}
	if optimize {
		out.WaypointsOrder = r.Waypoints
		if out.WaypointsOrder == nil {
			out.WaypointsOrder = []domain.RouteWaypoint{}
		}
	}
	return out
}

func legacyFindFuelStations(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacyFuelRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if len(req.RouteGeometry) == 0 || string(req.RouteGeometry) == "null" {
			return legacyFailure(c, "Route geometry required")
		}
		geom, err := decodeGeometry(req.RouteGeometry)
		if err != nil {
			return legacyFailure(c, "Route geometry required")
		}

		stations, err := deps.FuelStations.Find(c.UserContext(), geom.Geometry(), deps.DefaultRadiusM)
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(fiber.Map{"success": true, "fuel_stations": stations})
	}
}

func legacyOptimize(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req legacyOptimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid JSON body")
		}
		if len(req.Stops) < 3 {
			return legacyFailure(c, "Need at least 3 stops for optimization")
		}

		// Old clients send no ids; stops are numbered by position.
		stops := toStops(req.Stops)
		for i := range stops {
			stops[i].ID = i + 1
		}

		result, err := deps.Optimizer.OptimizeStopOrder(c.UserContext(), stops)
		if err != nil {
			return renderError(c, err)
		}

		aiResponse := result.RawResponse
		if result.UsedFallback {
			aiResponse = "Used fallback optimization"
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"optimal_order": result.Order,
			"fallback":      result.UsedFallback,
			"ai_response":   aiResponse,
		})
	}
}

// registerLegacyRoutes mounts the deprecated /api aliases.
func registerLegacyRoutes(app *fiber.App, deps *Dependencies) {
	api := app.Group("/api", DeprecationMiddleware(legacyRoutes))
	api.Post("/search-places", legacySearchPlaces(deps))
	api.Post("/calculate-route", legacyCalculateRoute(deps))
	api.Post("/find-fuel-stations", legacyFindFuelStations(deps))
	api.Post("/ai-optimize", legacyOptimize(deps))
}
