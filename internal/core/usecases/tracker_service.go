package usecases

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

// MembershipChecker answers membership queries. *GeofenceService implements it.
type MembershipChecker interface {
	Check(ctx context.Context, point domain.GeoPoint) (domain.MembershipResult, error)
}

// TrackerService turns device position reports into membership results and
// zone entry/exit transitions.
type TrackerService struct {
	checker   MembershipChecker
	publisher ports.EventPublisher
	tracer    trace.Tracer

	mu   sync.Mutex
	last map[string][]domain.ZoneRef
}

// NewTrackerService creates a new TrackerService.
func NewTrackerService(checker MembershipChecker, publisher ports.EventPublisher) *TrackerService {
	return &TrackerService{
		checker:   checker,
		publisher: publisher,
		tracer:    telemetry.Tracer(),
		last:      make(map[string][]domain.ZoneRef),
	}
}

// ProcessPosition evaluates one report, publishes the membership result and
// one transition per zone the device entered or left since its previous
// report. The device's zone set is only updated once everything is
// published, so a redelivered report emits the same transitions again.
func (s *TrackerService) ProcessPosition(ctx context.Context, pos *domain.PositionReport) (err error) {
	if pos.DeviceID == "" {
		return &domain.ValidationError{Field: "device_id", Message: "must not be empty"}
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanTrack, trace.WithAttributes(
		attribute.String(telemetry.AttrDeviceID, pos.DeviceID),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "track failed")
		}
		span.End()
	}()

	if pos.Time.IsZero() {
		pos.Time = time.Now().UTC()
	}

	res, err := s.checker.Check(ctx, pos.Location)
	if err != nil {
		return fmt.Errorf("check position: %w", err)
	}
	metrics.PositionsProcessed.Inc()

	if err := s.publisher.PublishMembership(ctx, &domain.MembershipEvent{
		DeviceID: pos.DeviceID,
		Location: pos.Location,
		IsInside: res.IsInside,
		Zones:    res.Zones,
		Time:     pos.Time,
	}); err != nil {
		return fmt.Errorf("publish membership: %w", err)
	}

	s.mu.Lock()
	prev := s.last[pos.DeviceID]
	s.mu.Unlock()

	for _, ev := range Transitions(prev, res.Zones) {
		ev.DeviceID = pos.DeviceID
		ev.Location = pos.Location
		ev.Time = pos.Time
		if err := s.publisher.PublishTransition(ctx, &ev); err != nil {
			return fmt.Errorf("publish %s transition: %w", ev.Event, err)
		}
		metrics.TransitionsEmitted.WithLabelValues(string(ev.Event)).Inc()
	}

	s.mu.Lock()
	if len(res.Zones) == 0 {
		delete(s.last, pos.DeviceID)
	} else {
		s.last[pos.DeviceID] = res.Zones
	}
	s.mu.Unlock()
	return nil
}

// Zones returns the zones a device was inside at its last processed report.
// The result is never nil, so an unknown device encodes as an empty list.
func (s *TrackerService) Zones(deviceID string) []domain.ZoneRef {
	s.mu.Lock()
	defer s.mu.Unlock()
	zones := slices.Clone(s.last[deviceID])
	if zones == nil {
		zones = []domain.ZoneRef{}
	}
	return zones
}

// Transitions lists entries into zones of cur missing from prev, in cur's
// order, followed by exits from zones of prev missing from cur, by id.
func Transitions(prev, cur []domain.ZoneRef) []domain.TransitionEvent {
	in := func(zones []domain.ZoneRef, id int64) bool {
		return slices.ContainsFunc(zones, func(z domain.ZoneRef) bool { return z.ID == id })
	}

	var out []domain.TransitionEvent
	for _, z := range cur {
		if !in(prev, z.ID) {
			out = append(out, domain.TransitionEvent{Event: domain.TransitionEntry, Zone: z})
		}
	}

	var exits []domain.ZoneRef
	for _, z := range prev {
		if !in(cur, z.ID) {
			exits = append(exits, z)
		}
	}
	slices.SortFunc(exits, func(a, b domain.ZoneRef) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	for _, z := range exits {
		out = append(out, domain.TransitionEvent{Event: domain.TransitionExit, Zone: z})
	}
	return out
}
