package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samirrijal/geofence/internal/adapters/postgres/migrations"
	"github.com/samirrijal/geofence/internal/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: migrate <up|status>")
	}

	cfg, err := config.Load("geofence-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	switch os.Args[1] {
	case "up":
		if err := migrations.Apply(ctx, pool); err != nil {
			log.Fatalf("migrate up: %v", err)
		}
		log.Println("all migrations applied")
	case "status":
		pending, err := migrations.Pending(ctx, pool)
		if err != nil {
			log.Fatalf("migrate status: %v", err)
		}
		if len(pending) == 0 {
			fmt.Println("up to date")
			return
		}
		for _, name := range pending {
			fmt.Printf("PENDING  %s\n", name)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}
