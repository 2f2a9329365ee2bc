package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	natsadapter "github.com/samirrijal/geofence/internal/adapters/nats"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/adapters/valkey"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/logging"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geofence-tracker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("geofence-tracker", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go db.ReportPoolStats(ctx, 15*time.Second)

	// Positions arrive far more often than zones change.
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr, "geofence:"); err != nil {
		slog.Warn("valkey unavailable, zone cache disabled", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	publisher, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats publisher: %v", err)
	}
	defer publisher.Close()

	subscriber, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats subscriber: %v", err)
	}
	defer subscriber.Close()

	geofences := usecases.NewGeofenceService(postgres.NewGeofenceRepo(db), cache, publisher, usecases.GeofenceOptions{
		CacheTTL:          time.Duration(cfg.Geofence.CacheTTL) * time.Second,
		ParallelThreshold: cfg.Geofence.ParallelThreshold,
		Workers:           cfg.Geofence.Workers,
	})
	tracker := usecases.NewTrackerService(geofences, publisher)

	if err := subscriber.SubscribePositions(ctx, tracker.ProcessPosition); err != nil {
		log.Fatalf("subscribe positions: %v", err)
	}

	// Metrics and a device lookup for operators.
	app := fiber.New(fiber.Config{DisableStartupMessage: true, AppName: "Geofence Tracker"})
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())
	app.Get("/v1/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})
	app.Get("/v1/devices/:id/zones", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"device_id": c.Params("id"), "zones": tracker.Zones(c.Params("id"))})
	})
	go func() {
		if err := app.Listen(cfg.Tracker.MetricsAddr); err != nil {
			slog.Error("metrics listener stopped", "error", err)
		}
	}()

	slog.Info("tracker started", "metrics_addr", cfg.Tracker.MetricsAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down tracker", "signal", sig.String())
	cancel()
	_ = app.ShutdownWithTimeout(5 * time.Second)
}
