package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/fuelroute/internal/adapters/gemini"
	"github.com/samirrijal/fuelroute/internal/adapters/geoapify"
	"github.com/samirrijal/fuelroute/internal/adapters/http"
	natsadapter "github.com/samirrijal/fuelroute/internal/adapters/nats"
	"github.com/samirrijal/fuelroute/internal/adapters/postgres"
	"github.com/samirrijal/fuelroute/internal/adapters/valkey"
	"github.com/samirrijal/fuelroute/internal/core/ports"
	"github.com/samirrijal/fuelroute/internal/core/usecases"
	"github.com/samirrijal/fuelroute/internal/pkg/config"
	"github.com/samirrijal/fuelroute/internal/pkg/logging"
	"github.com/samirrijal/fuelroute/internal/pkg/metrics"
	"github.com/samirrijal/fuelroute/internal/pkg/telemetry"
	"github.com/samirrijal/fuelroute/internal/workflows"
)

func main() {
	cfg, err := config.Load("fuelroute-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache (optional)
	var cache ports.CacheService
	vc, err := valkey.New(cfg.Valkey.Addr, "fuelroute:")
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		vc = nil
	} else {
		cache = vc
		defer vc.Close()
	}

	// NATS (optional)
	var events ports.EventPublisher
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		pub = nil
	} else {
		events = pub
		defer pub.Close()
	}

	// Temporal (optional)
	var scheduler ports.OptimizationScheduler
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    slog.Default(),
		})
		if err != nil {
			slog.Warn("temporal unavailable, async optimization disabled", "error", err)
		} else {
			defer tc.Close()
			scheduler = workflows.NewScheduler(tc, cfg.Temporal.TaskQueue)
		}
	}

	// Gateways
	geo := geoapify.New(cfg.Geoapify)
	llm := gemini.New(cfg.Gemini)
	if cfg.Gemini.APIKey == "" {
		slog.Warn("gemini api key not set, stop optimization will use the nearest-neighbor heuristic")
	}

	// Use cases
	routeSvc := usecases.NewRouteService(geo, geo, cache)
	fuelSvc := usecases.NewFuelStationService(geo, usecases.FuelSearchOptions{
		Category:            cfg.Fuel.Category,
		MaxSamples:          cfg.Fuel.MaxSamples,
		MaxRouteDistanceKm:  cfg.Fuel.MaxRouteDistanceKm,
		MaxResults:          cfg.Fuel.MaxResults,
		QueryTimeout:        cfg.Fuel.QueryTimeout(),
		PriceBasePerLiter:   cfg.Fuel.PriceBasePerLiter,
		PriceSpreadPerLiter: cfg.Fuel.PriceSpreadPerLiter,
	})
	optimizer := usecases.NewStopOptimizer(llm, ports.CompletionOptions{
		Temperature:     cfg.Gemini.Temperature,
		MaxOutputTokens: cfg.Gemini.MaxOutputTokens,
	})
	optimizationSvc := usecases.NewOptimizationService(optimizer, postgres.NewOptimizationRepo(db), events, usecases.FuelEconomy{
		KmPerLiter:    cfg.Fuel.KmPerLiter,
		PricePerLiter: cfg.Fuel.PricePerLiter,
	})

	deps := &http.Dependencies{
		Routes:         routeSvc,
		FuelStations:   fuelSvc,
		Optimizer:      optimizer,
		Optimizations:  optimizationSvc,
		Scheduler:      scheduler,
		DefaultRadiusM: cfg.Fuel.SearchRadiusM,
		DB:             db,
		Cache:          vc,
	}
	if pub != nil {
		deps.NATS = pub.Conn()
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "FuelRoute API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps, http.RouterOptions{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
		OpenAPIPath:        cfg.Server.OpenAPIPath,
	})

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// reportPoolStats refreshes the DB pool gauges until ctx is done.
func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Stat())
		}
	}
}
