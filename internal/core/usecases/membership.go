package usecases

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/pkg/geospatial"
)

// zoneOutcome is the per-zone result of a membership scan.
type zoneOutcome struct {
	inside  bool
	skipped *domain.SkippedZone
}

// evaluateZone normalizes one stored zone and tests the point against it.
func evaluateZone(point domain.GeoPoint, zone domain.StoredGeofence) zoneOutcome {
	area, err := geospatial.NormalizeArea(zone.Area)
	if err != nil {
		return zoneOutcome{skipped: skippedZone(zone, err)}
	}
	return zoneOutcome{inside: geospatial.Contains(area, point)}
}

func skippedZone(zone domain.StoredGeofence, err error) *domain.SkippedZone {
	reason := err.Error()
	var mErr *domain.MalformedAreaError
	if errors.As(err, &mErr) {
		reason = mErr.Reason
	}
	return &domain.SkippedZone{ID: zone.ID, Name: zone.Name, Reason: reason}
}

// Evaluate tests point against every zone in order. Malformed zones are
// skipped and recorded in the result's Skipped list; they never abort the scan.
func Evaluate(point domain.GeoPoint, zones []domain.StoredGeofence) domain.MembershipResult {
	outcomes := make([]zoneOutcome, len(zones))
	for i, z := range zones {
		outcomes[i] = evaluateZone(point, z)
	}
	return collect(zones, outcomes)
}

// EvaluateParallel is Evaluate spread over at most workers goroutines. Each
// zone's outcome lands at its own index, so the result keeps repository order.
func EvaluateParallel(ctx context.Context, point domain.GeoPoint, zones []domain.StoredGeofence, workers int) (domain.MembershipResult, error) {
	if workers < 2 || len(zones) < 2 {
		return Evaluate(point, zones), nil
	}

	outcomes := make([]zoneOutcome, len(zones))
	chunk := (len(zones) + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(zones); start += chunk {
		end := min(start+chunk, len(zones))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				outcomes[i] = evaluateZone(point, zones[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.MembershipResult{}, err
	}
	return collect(zones, outcomes), nil
}

func collect(zones []domain.StoredGeofence, outcomes []zoneOutcome) domain.MembershipResult {
	res := domain.MembershipResult{Zones: []domain.ZoneRef{}}
	for i, o := range outcomes {
		switch {
		case o.skipped != nil:
			res.Skipped = append(res.Skipped, *o.skipped)
		case o.inside:
			res.Zones = append(res.Zones, domain.ZoneRef{ID: zones[i].ID, Name: zones[i].Name})
		}
	}
	res.IsInside = len(res.Zones) > 0
	return res
}

// validZones normalizes every stored zone and returns the valid ones with
// their bounds, plus the malformed ones.
func validZones(zones []domain.StoredGeofence) ([]domain.Geofence, []domain.SkippedZone) {
	valid := make([]domain.Geofence, 0, len(zones))
	var skipped []domain.SkippedZone
	for _, z := range zones {
		area, err := geospatial.NormalizeArea(z.Area)
		if err != nil {
			skipped = append(skipped, *skippedZone(z, err))
			continue
		}
		valid = append(valid, domain.Geofence{
			ID:        z.ID,
			Name:      z.Name,
			Area:      area,
			Bounds:    area.Bounds(),
			CreatedAt: z.CreatedAt,
		})
	}
	return valid, skipped
}
