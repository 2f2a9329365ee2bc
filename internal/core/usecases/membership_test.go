package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/usecases"
)

func storedZones() []domain.StoredGeofence {
	return []domain.StoredGeofence{
		{ID: 1, Name: "Park", Area: domain.EncodedArea(parkArea)},
		{ID: 2, Name: "Broken", Area: domain.EncodedArea("not-json")},
		{ID: 3, Name: "Typed", Area: domain.StructuredArea(domain.Area{{0, 0}, {0, 30}, {30, 30}, {30, 0}})},
	}
}

func TestEvaluate_EmptyZoneSet(t *testing.T) {
	res := usecases.Evaluate(domain.GeoPoint{Lat: 1, Lon: 1}, nil)
	if res.IsInside || res.Zones == nil || len(res.Zones) != 0 {
		t.Errorf("unexpected result %#v", res)
	}
}

func TestEvaluate_SkipsMalformedWithoutStopping(t *testing.T) {
	res := usecases.Evaluate(domain.GeoPoint{Lat: 15, Lon: 15}, storedZones())
	if len(res.Zones) != 2 || res.Zones[0].ID != 1 || res.Zones[1].ID != 3 {
		t.Fatalf("unexpected zones %v", res.Zones)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Name != "Broken" {
		t.Errorf("unexpected skipped %v", res.Skipped)
	}
}

func TestEvaluateParallel_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := usecases.EvaluateParallel(ctx, domain.GeoPoint{Lat: 15, Lon: 15}, storedZones(), 3)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestEvaluateParallel_FallsBackWithOneWorker(t *testing.T) {
	res, err := usecases.EvaluateParallel(context.Background(), domain.GeoPoint{Lat: 15, Lon: 15}, storedZones(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Zones) != 2 {
		t.Errorf("expected 2 zones, got %v", res.Zones)
	}
}
