package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// GeofenceRepo implements ports.GeofenceRepository.
type GeofenceRepo struct {
	db *DB
}

func NewGeofenceRepo(db *DB) *GeofenceRepo {
	return &GeofenceRepo{db: db}
}

func (r *GeofenceRepo) Append(ctx context.Context, name string, area domain.Area) (*domain.Geofence, error) {
	data, err := json.Marshal(area)
	if err != nil {
		return nil, fmt.Errorf("encode area: %w", err)
	}

	g := &domain.Geofence{Name: name, Area: area}
	err = r.db.Pool.QueryRow(ctx, `
		INSERT INTO geofences (name, area)
		VALUES ($1, $2::jsonb)
		RETURNING id, created_at
	`, name, string(data)).Scan(&g.ID, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// List reads the area column as text so that rows written by older clients,
// which stored a JSON string instead of an array, reach the normalizer intact.
func (r *GeofenceRepo) List(ctx context.Context) ([]domain.StoredGeofence, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, COALESCE(name, ''), COALESCE(area::text, 'null'), created_at
		FROM geofences ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	zones := []domain.StoredGeofence{}
	for rows.Next() {
		var (
			z    domain.StoredGeofence
			area string
		)
		if err := rows.Scan(&z.ID, &z.Name, &area, &z.CreatedAt); err != nil {
			return nil, err
		}
		z.Area = domain.ParseStoredArea([]byte(area))
		zones = append(zones, z)
	}
	return zones, rows.Err()
}
