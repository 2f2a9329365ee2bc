package usecases_test

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/usecases"
)

// --- Mock EventPublisher ---

type mockPublisher struct {
	created     []domain.Geofence
	memberships []domain.MembershipEvent
	transitions []domain.TransitionEvent
	reports     []domain.AuditReport

	transitionErr error
}

func (m *mockPublisher) PublishGeofenceCreated(_ context.Context, g *domain.Geofence) error {
	m.created = append(m.created, *g)
	return nil
}

func (m *mockPublisher) PublishMembership(_ context.Context, ev *domain.MembershipEvent) error {
	m.memberships = append(m.memberships, *ev)
	return nil
}

func (m *mockPublisher) PublishTransition(_ context.Context, ev *domain.TransitionEvent) error {
	if m.transitionErr != nil {
		return m.transitionErr
	}
	m.transitions = append(m.transitions, *ev)
	return nil
}

func (m *mockPublisher) PublishAuditReport(_ context.Context, r *domain.AuditReport) error {
	m.reports = append(m.reports, *r)
	return nil
}

// --- Mock MembershipChecker ---

type mockChecker struct {
	checkFn func(ctx context.Context, p domain.GeoPoint) (domain.MembershipResult, error)
}

func (m *mockChecker) Check(ctx context.Context, p domain.GeoPoint) (domain.MembershipResult, error) {
	return m.checkFn(ctx, p)
}

func zoneEvents(evs []domain.TransitionEvent) []string {
	out := make([]string, 0, len(evs))
	for _, ev := range evs {
		out = append(out, string(ev.Event)+":"+ev.Zone.Name)
	}
	return out
}

// --- Tests ---

func TestTrackerService_EntryAndExit(t *testing.T) {
	repo := &mockGeofenceRepo{}
	pub := &mockPublisher{}
	geo := usecases.NewGeofenceService(repo, nil, pub, usecases.GeofenceOptions{})
	ctx := context.Background()

	if _, err := geo.Register(ctx, "Outer", decodeArea(t, `[[0,0],[0,30],[30,30],[30,0]]`)); err != nil {
		t.Fatal(err)
	}
	if _, err := geo.Register(ctx, "Park", decodeArea(t, parkArea)); err != nil {
		t.Fatal(err)
	}
	if len(pub.created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(pub.created))
	}

	tracker := usecases.NewTrackerService(geo, pub)
	steps := []struct {
		p    domain.GeoPoint
		want []string
	}{
		{domain.GeoPoint{Lat: 15, Lon: 15}, []string{"entry:Outer", "entry:Park"}},
		{domain.GeoPoint{Lat: 16, Lon: 16}, []string{}},
		{domain.GeoPoint{Lat: 25, Lon: 25}, []string{"exit:Park"}},
		{domain.GeoPoint{Lat: 50, Lon: 50}, []string{"exit:Outer"}},
	}
	for i, step := range steps {
		pub.transitions = nil
		err := tracker.ProcessPosition(ctx, &domain.PositionReport{DeviceID: "bike-7", Location: step.p})
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if got := zoneEvents(pub.transitions); !reflect.DeepEqual(got, step.want) {
			t.Errorf("step %d: transitions = %v, want %v", i, got, step.want)
		}
	}

	if len(pub.memberships) != len(steps) {
		t.Errorf("expected one membership event per report, got %d", len(pub.memberships))
	}
	last := pub.memberships[len(pub.memberships)-1]
	if last.IsInside || last.DeviceID != "bike-7" || last.Time.IsZero() {
		t.Errorf("unexpected final membership %+v", last)
	}
	if zones := tracker.Zones("bike-7"); len(zones) != 0 {
		t.Errorf("device left every zone, still tracked in %v", zones)
	}
}

func TestTrackerService_ZonesUnknownDeviceIsEmpty(t *testing.T) {
	tracker := usecases.NewTrackerService(&mockChecker{}, &mockPublisher{})
	zones := tracker.Zones("never-seen")
	if zones == nil || len(zones) != 0 {
		t.Fatalf("expected an empty non-nil list, got %#v", zones)
	}
	data, err := json.Marshal(zones)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("encoded zones = %s, want []", data)
	}
}

func TestTrackerService_RejectsMissingDevice(t *testing.T) {
	tracker := usecases.NewTrackerService(&mockChecker{}, &mockPublisher{})
	err := tracker.ProcessPosition(context.Background(), &domain.PositionReport{})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTrackerService_CheckFailure(t *testing.T) {
	boom := errors.New("db down")
	checker := &mockChecker{checkFn: func(context.Context, domain.GeoPoint) (domain.MembershipResult, error) {
		return domain.MembershipResult{}, boom
	}}
	pub := &mockPublisher{}
	err := usecases.NewTrackerService(checker, pub).ProcessPosition(context.Background(),
		&domain.PositionReport{DeviceID: "d1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if len(pub.memberships) != 0 {
		t.Error("nothing should be published when the check fails")
	}
}

func TestTrackerService_FailedPublishIsRetried(t *testing.T) {
	park := domain.ZoneRef{ID: 1, Name: "Park"}
	checker := &mockChecker{checkFn: func(context.Context, domain.GeoPoint) (domain.MembershipResult, error) {
		return domain.MembershipResult{IsInside: true, Zones: []domain.ZoneRef{park}}, nil
	}}
	pub := &mockPublisher{transitionErr: errors.New("nats unavailable")}
	tracker := usecases.NewTrackerService(checker, pub)
	report := &domain.PositionReport{DeviceID: "d1", Location: domain.GeoPoint{Lat: 15, Lon: 15}}

	if err := tracker.ProcessPosition(context.Background(), report); err == nil {
		t.Fatal("expected publish error")
	}
	if len(tracker.Zones("d1")) != 0 {
		t.Fatal("state must not advance when a transition was not published")
	}

	pub.transitionErr = nil
	if err := tracker.ProcessPosition(context.Background(), report); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := zoneEvents(pub.transitions); !reflect.DeepEqual(got, []string{"entry:Park"}) {
		t.Errorf("transitions = %v", got)
	}
}

func TestTransitions_ExitsSortedByID(t *testing.T) {
	prev := []domain.ZoneRef{{ID: 9, Name: "I"}, {ID: 2, Name: "B"}, {ID: 5, Name: "E"}}
	cur := []domain.ZoneRef{{ID: 7, Name: "G"}, {ID: 5, Name: "E"}, {ID: 3, Name: "C"}}

	got := zoneEvents(usecases.Transitions(prev, cur))
	want := []string{"entry:G", "entry:C", "exit:B", "exit:I"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
