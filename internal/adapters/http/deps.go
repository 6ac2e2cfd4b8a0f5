package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fuelroute/internal/adapters/postgres"
	"github.com/samirrijal/fuelroute/internal/adapters/valkey"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Routes        *usecases.RouteService
	FuelStations  *usecases.FuelStationService
	Optimizer     *usecases.StopOptimizer
	Optimizations *usecases.OptimizationService

	// Scheduler is nil when Temporal is disabled; async optimization then answers 503.
	Scheduler ports.OptimizationScheduler

	// DefaultRadiusM is used when a fuel-station request omits radius_m.
	DefaultRadiusM float64

	NATS  *nats.Conn
	DB    *postgres.DB
	Cache *valkey.Cache
}
