package workflows

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/geofence/internal/core/domain"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
)

// Activity names as registered on the worker.
const (
	ScanGeofencesActivity = "ScanGeofences"
	PublishReportActivity = "PublishReport"
)

// AuditActivities holds the activity implementations for the audit workflow.
type AuditActivities struct {
	Geofences *usecases.GeofenceService
	Publisher ports.EventPublisher
}

// ScanGeofences reads every stored zone and reports the malformed ones.
func (a *AuditActivities) ScanGeofences(ctx context.Context, runID string) (*domain.AuditReport, error) {
	report, err := a.Geofences.Audit(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("audit geofences: %w", err)
	}
	return report, nil
}

// PublishReport sends the audit report to subscribers.
func (a *AuditActivities) PublishReport(ctx context.Context, report *domain.AuditReport) error {
	if a.Publisher == nil {
		slog.InfoContext(ctx, "audit report (no publisher)",
			"run_id", report.RunID, "total", report.Total, "malformed", len(report.Malformed))
		return nil
	}
	if err := a.Publisher.PublishAuditReport(ctx, report); err != nil {
		return fmt.Errorf("publish audit report %s: %w", report.RunID, err)
	}
	return nil
}
