package natsadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// Subscriber implements ports.EventSubscriber using NATS JetStream.
type Subscriber struct {
	conn *nats.Conn
	js   nats.JetStreamContext
	subs []*nats.Subscription
}

// NewSubscriber creates a subscriber with its own NATS connection.
func NewSubscriber(url string) (*Subscriber, error) {
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
	return &Subscriber{conn: conn, js: js}, nil
}

// SubscribePositions consumes device position reports. The device id falls
// back to the last subject token when the payload omits it. Reports that
// fail validation are terminated; other handler errors are redelivered.
func (s *Subscriber) SubscribePositions(ctx context.Context, handler func(ctx context.Context, pos *domain.PositionReport) error) error {
	sub, err := s.js.Subscribe(SubjectPositionPrefix+">", func(msg *nats.Msg) {
		pos, err := DecodePosition(msg.Subject, msg.Data)
		if err != nil {
			slog.Warn("dropping undecodable position", "subject", msg.Subject, "error", err)
			_ = msg.Term()
			return
		}
		if err := handler(ctx, pos); err != nil {
			if errors.Is(err, domain.ErrValidation) {
				slog.Warn("dropping invalid position", "subject", msg.Subject, "error", err)
				_ = msg.Term()
				return
			}
			slog.Error("position handler failed", "device_id", pos.DeviceID, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	},
		nats.Durable("geofence-tracker"),
		nats.ManualAck(),
		nats.MaxDeliver(3),
	)
	if err != nil {
		return err
	}
	s.subs = append(s.subs, sub)
	return nil
}

// positionPayload accepts both the nested location form and flat
// latitude/longitude fields sent by mobile clients. Coordinates are pointers
// so a missing axis is told apart from zero.
type positionPayload struct {
	DeviceID string         `json:"device_id"`
	Location *coordsPayload `json:"location"`
	Time     time.Time      `json:"time"`
	coordsPayload
}

type coordsPayload struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// DecodePosition parses a position message published on subject. A report
// without both coordinates is a *domain.ValidationError.
func DecodePosition(subject string, data []byte) (*domain.PositionReport, error) {
	var p positionPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	lat, lon := p.Latitude, p.Longitude
	if p.Location != nil {
		if lat == nil {
			lat = p.Location.Latitude
		}
		if lon == nil {
			lon = p.Location.Longitude
		}
	}
	if lat == nil {
		return nil, &domain.ValidationError{Field: "latitude", Message: "is required"}
	}
	if lon == nil {
		return nil, &domain.ValidationError{Field: "longitude", Message: "is required"}
	}

	pos := domain.PositionReport{
		DeviceID: p.DeviceID,
		Location: domain.GeoPoint{Lat: *lat, Lon: *lon},
		Time:     p.Time,
	}
	if pos.DeviceID == "" {
		if i := strings.LastIndexByte(subject, '.'); i >= 0 && i < len(subject)-1 {
			pos.DeviceID = subject[i+1:]
		}
	}
	return &pos, nil
}

// Close unsubscribes and drains.
func (s *Subscriber) Close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
	_ = s.conn.Drain()
}
