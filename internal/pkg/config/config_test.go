package config

import (
	"strings"
	"testing"
)

func validConfig() Config {
	return Config{
		Server:   ServerConfig{Port: 5000, ReadTimeout: 10, WriteTimeout: 10, RequestTimeout: 15, BodyLimit: 1 << 20},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "geofence", DBName: "geofence", SSLMode: "disable", MaxConns: 10},
		NATS:     NATSConfig{URL: "nats://localhost:4222"},
		Valkey:   ValkeyConfig{Addr: "localhost:6379"},
		Temporal: TemporalConfig{TaskQueue: "geofence-audit"},
		Geofence: GeofenceConfig{CacheTTL: 30, ParallelThreshold: 512, Workers: 8},
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.NATS.URL = ""
	cfg.Geofence.Workers = 1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"server.port", "nats.url", "geofence.workers"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_URLReplacesFields(t *testing.T) {
	cfg := validConfig()
	cfg.Database = DatabaseConfig{URL: "postgres://u:p@db:5432/geo", MaxConns: 5}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Database.DSN() != "postgres://u:p@db:5432/geo" {
		t.Errorf("DSN = %s", cfg.Database.DSN())
	}
}

func TestDSN_FromFields(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5433, User: "u", Password: "p", DBName: "geo", SSLMode: "require"}
	if got, want := d.DSN(), "postgres://u:p@db:5433/geo?sslmode=require"; got != want {
		t.Errorf("DSN = %s, want %s", got, want)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOFENCE_SERVER_PORT", "9090")
	t.Setenv("GEOFENCE_GEOFENCE_WORKERS", "4")
	t.Setenv("DATABASE_URL", "postgres://legacy@db/geo")

	cfg, err := Load("geofence-test")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Geofence.Workers != 4 {
		t.Errorf("workers = %d", cfg.Geofence.Workers)
	}
	if cfg.Database.DSN() != "postgres://legacy@db/geo" {
		t.Errorf("DSN = %s", cfg.Database.DSN())
	}
	if cfg.Telemetry.ServiceName != "geofence-test" {
		t.Errorf("service name = %s", cfg.Telemetry.ServiceName)
	}
}
