package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/pkg/geospatial"
	"github.com/samirrijal/geofence/internal/pkg/metrics"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
)

// The raw zone list is cached under zonesCacheKey:<generation>. Register bumps
// zonesGenerationKey after every append, so a list read that raced with a
// registration is written back under a generation no reader asks for again.
const (
	zonesCacheKey      = "geofences:all"
	zonesGenerationKey = "geofences:generation"
)

// GeofenceOptions tunes zone caching and evaluation.
type GeofenceOptions struct {
	// CacheTTL is how long the raw zone list stays cached. Zero disables caching.
	CacheTTL time.Duration
	// ParallelThreshold is the zone count from which a check fans out over
	// Workers goroutines. Zero keeps every check sequential.
	ParallelThreshold int
	Workers           int
}

// GeofenceService registers zones and answers membership queries.
type GeofenceService struct {
	repo      ports.GeofenceRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	opts      GeofenceOptions
	tracer    trace.Tracer
}

// NewGeofenceService creates a new GeofenceService. cache and publisher may be nil.
func NewGeofenceService(
	repo ports.GeofenceRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	opts GeofenceOptions,
) *GeofenceService {
	return &GeofenceService{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		opts:      opts,
		tracer:    telemetry.Tracer(),
	}
}

// Register validates a submitted zone and appends it. area is the decoded
// request value and must be a structured list of pairs; nothing is written
// when validation fails.
func (s *GeofenceService) Register(ctx context.Context, name string, area any) (*domain.Geofence, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanRegister)
	defer span.End()

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.reject(span, &domain.ValidationError{Field: "name", Message: "must not be empty"})
	}
	if _, ok := area.(string); ok {
		return nil, s.reject(span, &domain.ValidationError{Field: "area", Message: "must be a list of coordinate pairs, not a string"})
	}
	canonical, err := geospatial.CanonicalArea(area)
	if err != nil {
		msg := err.Error()
		var mErr *domain.MalformedAreaError
		if errors.As(err, &mErr) {
			msg = mErr.Reason
		}
		return nil, s.reject(span, &domain.ValidationError{Field: "area", Message: msg})
	}

	g, err := s.repo.Append(ctx, name, canonical)
	if err != nil {
		err = fmt.Errorf("append geofence: %w: %w", domain.ErrStorage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "append failed")
		return nil, err
	}
	g.Bounds = g.Area.Bounds()
	metrics.ZonesRegistered.Inc()

	if s.cache != nil {
		if _, err := s.cache.IncrBy(ctx, zonesGenerationKey, 1); err != nil {
			slog.WarnContext(ctx, "invalidate zone cache", "error", err)
		}
	}
	if s.publisher != nil {
		if err := s.publisher.PublishGeofenceCreated(ctx, g); err != nil {
			slog.WarnContext(ctx, "publish geofence created", "id", g.ID, "error", err)
		}
	}

	slog.InfoContext(ctx, "geofence registered", "id", g.ID, "name", g.Name, "vertices", len(g.Area))
	return g, nil
}

func (s *GeofenceService) reject(span trace.Span, vErr *domain.ValidationError) error {
	metrics.RegistrationRejected.WithLabelValues(vErr.Field).Inc()
	span.SetStatus(codes.Error, vErr.Error())
	return vErr
}

// List returns every zone whose stored area is valid, in id order.
func (s *GeofenceService) List(ctx context.Context) ([]domain.Geofence, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanList)
	defer span.End()

	stored, err := s.loadZones(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load zones failed")
		return nil, err
	}
	valid, skipped := validZones(stored)
	s.reportSkipped(ctx, skipped)

	span.SetAttributes(
		attribute.Int(telemetry.AttrZoneCount, len(stored)),
		attribute.Int(telemetry.AttrMalformedCount, len(skipped)),
	)
	return valid, nil
}

// Check returns every zone containing point, in id order.
func (s *GeofenceService) Check(ctx context.Context, point domain.GeoPoint) (domain.MembershipResult, error) {
	if !finite(point.Lat) {
		return domain.MembershipResult{}, &domain.ValidationError{Field: "latitude", Message: "must be a finite number"}
	}
	if !finite(point.Lon) {
		return domain.MembershipResult{}, &domain.ValidationError{Field: "longitude", Message: "must be a finite number"}
	}

	ctx, span := s.tracer.Start(ctx, telemetry.SpanCheck)
	defer span.End()

	zones, err := s.loadZones(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load zones failed")
		return domain.MembershipResult{}, err
	}

	start := time.Now()
	mode := "sequential"
	var res domain.MembershipResult
	if s.opts.ParallelThreshold > 0 && len(zones) >= s.opts.ParallelThreshold {
		mode = "parallel"
		res, err = EvaluateParallel(ctx, point, zones, s.opts.Workers)
		if err != nil {
			span.RecordError(err)
			return domain.MembershipResult{}, fmt.Errorf("evaluate zones: %w", err)
		}
	} else {
		res = Evaluate(point, zones)
	}
	metrics.EvaluationDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	metrics.ZonesEvaluated.Observe(float64(len(zones)))

	s.reportSkipped(ctx, res.Skipped)
	if res.IsInside {
		metrics.MembershipChecks.WithLabelValues("inside").Inc()
	} else {
		metrics.MembershipChecks.WithLabelValues("outside").Inc()
	}

	span.SetAttributes(
		attribute.Int(telemetry.AttrZoneCount, len(zones)),
		attribute.Int(telemetry.AttrMatchCount, len(res.Zones)),
		attribute.Int(telemetry.AttrMalformedCount, len(res.Skipped)),
	)
	return res, nil
}

// Audit scans storage directly, bypassing the cache, and reports every zone
// whose area cannot be normalized. It never modifies stored zones.
func (s *GeofenceService) Audit(ctx context.Context, runID string) (*domain.AuditReport, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanAudit)
	defer span.End()

	if runID == "" {
		runID = uuid.NewString()
	}
	report := &domain.AuditReport{RunID: runID, StartedAt: time.Now().UTC()}

	stored, err := s.repo.List(ctx)
	if err != nil {
		err = fmt.Errorf("list geofences: %w: %w", domain.ErrStorage, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "list failed")
		return nil, err
	}
	valid, skipped := validZones(stored)

	report.Total = len(stored)
	report.Valid = len(valid)
	report.Malformed = skipped
	if report.Malformed == nil {
		report.Malformed = []domain.SkippedZone{}
	}
	report.FinishedAt = time.Now().UTC()

	span.SetAttributes(
		attribute.Int(telemetry.AttrZoneCount, report.Total),
		attribute.Int(telemetry.AttrMalformedCount, len(skipped)),
	)
	slog.InfoContext(ctx, "geofence audit finished",
		"run_id", runID, "total", report.Total, "valid", report.Valid, "malformed", len(skipped))
	return report, nil
}

// loadZones reads the raw zone list through the cache. The generation is read
// before the repository so a registration landing mid-read moves readers to a
// fresh key. Without a readable generation the cache is bypassed.
func (s *GeofenceService) loadZones(ctx context.Context) ([]domain.StoredGeofence, error) {
	ctx, span := s.tracer.Start(ctx, telemetry.SpanLoadZones)
	defer span.End()

	key := ""
	if s.cache != nil && s.opts.CacheTTL > 0 {
		gen, err := s.cache.IncrBy(ctx, zonesGenerationKey, 0)
		if err != nil {
			slog.WarnContext(ctx, "read zone cache generation", "error", err)
		} else {
			key = fmt.Sprintf("%s:%d", zonesCacheKey, gen)
		}
	}

	if key != "" {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var zones []domain.StoredGeofence
			if err := json.Unmarshal(data, &zones); err == nil {
				metrics.CacheHits.WithLabelValues("geofences").Inc()
				span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
				return zones, nil
			}
		}
		metrics.CacheMisses.WithLabelValues("geofences").Inc()
	}

	zones, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list geofences: %w: %w", domain.ErrStorage, err)
	}

	if key != "" {
		if data, err := json.Marshal(zones); err == nil {
			_ = s.cache.Set(ctx, key, data, max(1, int(s.opts.CacheTTL/time.Second)))
		}
	}
	return zones, nil
}

func (s *GeofenceService) reportSkipped(ctx context.Context, skipped []domain.SkippedZone) {
	for _, z := range skipped {
		slog.WarnContext(ctx, "skipping malformed geofence", "id", z.ID, "name", z.Name, "reason", z.Reason)
	}
	if len(skipped) > 0 {
		metrics.MalformedZonesSkipped.Add(float64(len(skipped)))
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
