package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fuelroute/internal/core/domain"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
)

// renderError maps domain errors onto API errors.
func renderError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return errNotFound(c, "resource not found")
	case errors.Is(err, domain.ErrTooFewWaypoints),
		errors.Is(err, domain.ErrTooFewStops),
		errors.Is(err, domain.ErrInvalidStops),
		errors.Is(err, domain.ErrInvalidGeometry):
		return errUnprocessable(c, err.Error())
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errUnavailable(c, "request timed out")
	default:
		logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
		return errInternal(c, "internal error")
	}
}

// SearchPlacesHandler geocodes the q parameter.
func SearchPlacesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}
		limit := c.QueryInt("limit", 5)

		places := deps.Routes.SearchPlaces(c.UserContext(), query, limit)
		return c.JSON(fiber.Map{"results": places})
	}
}

// CalculateRouteHandler computes a drivable route. Upstream failures answer
// 502 with success=false and the gateway's error.
func CalculateRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req calculateRouteRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		res, err := deps.Routes.CalculateRoute(c.UserContext(), toWaypoints(req.Waypoints), req.Optimize)
		if err != nil {
			return renderError(c, err)
		}
		if !res.Success {
			return c.Status(fiber.StatusBadGateway).JSON(toRouteResponse(res))
		}
		return c.JSON(toRouteResponse(res))
	}
}

// FindFuelStationsHandler lists fuel stations along a GeoJSON route geometry.
func FindFuelStationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req fuelStationsRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}
		geom, err := decodeGeometry(req.RouteGeometry)
		if err != nil {
			return errBadRequest(c, "route_geometry must be a GeoJSON geometry")
		}

		radius := req.RadiusM
		if radius == 0 {
			radius = deps.DefaultRadiusM
		}

		stations, err := deps.FuelStations.Find(c.UserContext(), geom.Geometry(), radius)
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(fiber.Map{
			"success":       true,
			"fuel_stations": stations,
			"count":         len(stations),
		})
	}
}

// OptimizeStopsHandler orders stops with the LLM, falling back to the
// nearest-neighbor heuristic.
func OptimizeStopsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req optimizeRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		result, err := deps.Optimizer.OptimizeStopOrder(c.UserContext(), toStops(req.Stops))
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(optimizeResponse{Success: true, OptimizationResult: result})
	}
}

// SaveOptimizationHandler optimizes, persists and returns the record.
func SaveOptimizationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req saveOptimizationRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		rec, err := deps.Optimizations.SaveOptimization(c.UserContext(), strings.TrimSpace(req.RouteName), toStops(req.Stops))
		if err != nil {
			return renderError(c, err)
		}
		c.Location("/v1/optimizations/" + rec.ID)
		return c.Status(fiber.StatusCreated).JSON(rec)
	}
}

// ScheduleOptimizationHandler starts the optimization as a background workflow.
func ScheduleOptimizationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Scheduler == nil {
			return errUnavailable(c, "asynchronous optimization is not configured")
		}

		var req saveOptimizationRequest
		if err := bindJSON(c, &req); err != nil {
			return errBadRequest(c, err.Error())
		}

		id, err := deps.Scheduler.ScheduleOptimization(c.UserContext(), ports.OptimizationRequest{
			RouteName: strings.TrimSpace(req.RouteName),
			Stops:     toStops(req.Stops),
		})
		if err != nil {
			logging.FromContext(c.UserContext()).Error("schedule optimization failed", "error", err)
			return errUnavailable(c, "could not schedule optimization")
		}
		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"workflow_id": id,
			"status":      "scheduled",
		})
	}
}

// ListOptimizationsHandler returns saved optimizations, newest first.
func ListOptimizationsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset, limit := pageParams(c, 20, 100)

		records, total, err := deps.Optimizations.List(c.UserContext(), offset, limit)
		if err != nil {
			return renderError(c, err)
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: records, Pagination: pg})
	}
}

// GetOptimizationHandler returns one saved optimization.
func GetOptimizationHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := deps.Optimizations.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return renderError(c, err)
		}
		return c.JSON(rec)
	}
}
