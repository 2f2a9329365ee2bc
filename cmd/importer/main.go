package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	natsadapter "github.com/samirrijal/geofence/internal/adapters/nats"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/adapters/valkey"
	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/geospatial"
	"github.com/samirrijal/geofence/internal/pkg/logging"
)

// importEntry accepts both structured areas and the string-encoded areas of
// older exports.
type importEntry struct {
	Name string         `json:"name"`
	Area domain.RawArea `json:"area"`
}

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: importer <zones.json>")
	}

	cfg, err := config.Load("geofence-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("geofence-importer", cfg.Log.Level, cfg.Log.Format)

	data, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("read %s: %v", os.Args[1], err)
	}
	var entries []importEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Fatalf("parse %s: %v", os.Args[1], err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Registration invalidates the zone cache the API reads through.
	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr, "geofence:"); err != nil {
		slog.Warn("valkey unavailable, API caches expire on their own", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, no created events", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	svc := usecases.NewGeofenceService(postgres.NewGeofenceRepo(db), cache, publisher, usecases.GeofenceOptions{})

	var failed int
	for i, e := range entries {
		area, err := geospatial.NormalizeArea(e.Area)
		if err != nil {
			failed++
			slog.Error("skipping entry", "index", i, "name", e.Name, "error", err)
			continue
		}
		g, err := svc.Register(ctx, e.Name, area)
		if err != nil {
			failed++
			slog.Error("register failed", "index", i, "name", e.Name, "error", err)
			continue
		}
		fmt.Printf("OK  %d  %s\n", g.ID, g.Name)
	}

	slog.Info("import finished", "total", len(entries), "imported", len(entries)-failed, "failed", failed)
	if failed > 0 {
		os.Exit(1)
	}
}
