package ports

import (
	"context"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// GeofenceRepository persists geofences. It is append-only: zones are never
// updated or deleted through the application.
type GeofenceRepository interface {
	// Append stores a validated zone and returns it with the store-assigned id.
	Append(ctx context.Context, name string, area domain.Area) (*domain.Geofence, error)
	// List returns every stored zone in id order, areas not yet normalized.
	List(ctx context.Context) ([]domain.StoredGeofence, error)
}
