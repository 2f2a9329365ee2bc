package ports

import (
	"context"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeofenceCreated(ctx context.Context, g *domain.Geofence) error
	PublishMembership(ctx context.Context, ev *domain.MembershipEvent) error
	PublishTransition(ctx context.Context, ev *domain.TransitionEvent) error
	PublishAuditReport(ctx context.Context, report *domain.AuditReport) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribePositions(ctx context.Context, handler func(ctx context.Context, pos *domain.PositionReport) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	// IncrBy atomically adds delta to an integer key, creating it at zero,
	// and returns the new value. A delta of zero reads the counter.
	IncrBy(ctx context.Context, key string, delta int64) (int64, error)
}
