package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geofence/internal/core/usecases"
)

// Pinger is a dependency whose connectivity the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Geofences *usecases.GeofenceService
	Incidents *usecases.IncidentService
	NATS      *nats.Conn
	DB        Pinger
	Cache     Pinger

	// RequestTimeout bounds every REST handler; zero means 15s.
	RequestTimeout time.Duration
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout > 0 {
		return d.RequestTimeout
	}
	return 15 * time.Second
}
