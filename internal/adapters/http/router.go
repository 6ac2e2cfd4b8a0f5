package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/samirrijal/fuelroute/internal/pkg/metrics"
)

// Per-route deadlines. Fuel-station discovery and stop optimization wait on
// several upstream calls, so they get more room than a geocode lookup.
const (
	lookupTimeout   = 15 * time.Second
	routingTimeout  = 30 * time.Second
	optimizeTimeout = 45 * time.Second
)

// RouterOptions tunes SetupRoutes.
type RouterOptions struct {
	// RateLimitPerMinute caps requests per client IP; 0 disables limiting.
	RateLimitPerMinute int
	// OpenAPIPath is the file served at /docs/openapi.yaml.
	OpenAPIPath string
}

// SetupRoutes registers all REST, GraphQL and legacy routes.
func SetupRoutes(app *fiber.App, deps *Dependencies, opts RouterOptions) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	if opts.RateLimitPerMinute > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        opts.RateLimitPerMinute,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
			},
		}))
	}

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	v1.Get("/places/search", timeout.NewWithContext(SearchPlacesHandler(deps), lookupTimeout))
	v1.Post("/routes/calculate", timeout.NewWithContext(CalculateRouteHandler(deps), routingTimeout))
	v1.Post("/routes/fuel-stations", timeout.NewWithContext(FindFuelStationsHandler(deps), routingTimeout))
	v1.Post("/routes/optimize", timeout.NewWithContext(OptimizeStopsHandler(deps), optimizeTimeout))

	v1.Get("/optimizations", timeout.NewWithContext(ListOptimizationsHandler(deps), lookupTimeout))
	v1.Post("/optimizations", timeout.NewWithContext(SaveOptimizationHandler(deps), optimizeTimeout))
	v1.Post("/optimizations/async", timeout.NewWithContext(ScheduleOptimizationHandler(deps), lookupTimeout))
	v1.Get("/optimizations/:id", timeout.NewWithContext(GetOptimizationHandler(deps), lookupTimeout))

	app.Post("/graphql", timeout.NewWithContext(GraphQLHandler(deps), optimizeTimeout))

	registerLegacyRoutes(app, deps)

	SetupDocs(app, opts.OpenAPIPath)
}
