package natsadapter

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// Subjects used by the geofence services.
const (
	SubjectCreatedPrefix    = "geofence.created."
	SubjectMembershipPrefix = "geofence.membership."
	SubjectTransitionPrefix = "geofence.transition."
	SubjectPositionPrefix   = "geofence.positions."
	SubjectAuditReport      = "geofence.audit.report"
)

// Streams returns the JetStream streams the services rely on.
func Streams() []nats.StreamConfig {
	return []nats.StreamConfig{
		{
			Name:      "GEOFENCE_EVENTS",
			Subjects:  []string{"geofence.created.>", "geofence.transition.>", "geofence.audit.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    7 * 24 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "GEOFENCE_MEMBERSHIP",
			Subjects:  []string{"geofence.membership.>"},
			Retention: nats.LimitsPolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
		{
			Name:      "GEOFENCE_POSITIONS",
			Subjects:  []string{"geofence.positions.>"},
			Retention: nats.WorkQueuePolicy,
			MaxAge:    1 * time.Hour,
			Storage:   nats.FileStorage,
		},
	}
}

// Publisher implements ports.EventPublisher using NATS JetStream.
type Publisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// NewPublisher connects to NATS and enables JetStream.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := RawConn(url)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	if err := ensureStreams(js); err != nil {
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, js: js}, nil
}

func ensureStreams(js nats.JetStreamContext) error {
	for _, cfg := range Streams() {
		if _, err := js.AddStream(&cfg); err != nil {
			// Stream may already exist, try update
			if _, err := js.UpdateStream(&cfg); err != nil {
				return fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
			}
		}
	}
	return nil
}

// publish sends v as JSON with a fresh message id for JetStream deduplication.
func (p *Publisher) publish(ctx context.Context, subject string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.js.Publish(subject, data, nats.Context(ctx), nats.MsgId(uuid.NewString()))
	return err
}

func (p *Publisher) PublishGeofenceCreated(ctx context.Context, g *domain.Geofence) error {
	return p.publish(ctx, SubjectCreatedPrefix+strconv.FormatInt(g.ID, 10), g)
}

func (p *Publisher) PublishMembership(ctx context.Context, ev *domain.MembershipEvent) error {
	return p.publish(ctx, SubjectMembershipPrefix+ev.DeviceID, ev)
}

func (p *Publisher) PublishTransition(ctx context.Context, ev *domain.TransitionEvent) error {
	return p.publish(ctx, SubjectTransitionPrefix+string(ev.Event)+"."+ev.DeviceID, ev)
}

func (p *Publisher) PublishAuditReport(ctx context.Context, report *domain.AuditReport) error {
	return p.publish(ctx, SubjectAuditReport, report)
}

// PublishPosition feeds a device position into the tracker's stream.
func (p *Publisher) PublishPosition(ctx context.Context, pos *domain.PositionReport) error {
	return p.publish(ctx, SubjectPositionPrefix+pos.DeviceID, pos)
}

// Conn exposes the underlying connection for readiness checks.
func (p *Publisher) Conn() *nats.Conn {
	return p.conn
}

// Close drains and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Drain()
}

// RawConn creates a plain NATS connection for subscribing (e.g. WebSocket relay).
func RawConn(url string) (*nats.Conn, error) {
	return nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
}
