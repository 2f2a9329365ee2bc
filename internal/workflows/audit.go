package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/geofence/internal/core/domain"
)

// AuditWorkflowName is the registered workflow type.
const AuditWorkflowName = "GeofenceAuditWorkflow"

// AuditInput is the input for the audit workflow. An empty RunID uses the
// workflow run id.
type AuditInput struct {
	RunID string
}

// AuditWorkflow scans stored geofences for malformed areas and publishes the
// report. It never modifies stored zones.
func AuditWorkflow(ctx workflow.Context, input AuditInput) (*domain.AuditReport, error) {
	logger := workflow.GetLogger(ctx)

	runID := input.RunID
	if runID == "" {
		runID = workflow.GetInfo(ctx).WorkflowExecution.RunID
	}
	logger.Info("Starting geofence audit", "runID", runID)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})

	var report domain.AuditReport
	if err := workflow.ExecuteActivity(ctx, ScanGeofencesActivity, runID).Get(ctx, &report); err != nil {
		return nil, err
	}

	if err := workflow.ExecuteActivity(ctx, PublishReportActivity, &report).Get(ctx, nil); err != nil {
		logger.Warn("audit report not published", "runID", runID, "error", err)
		return &report, err
	}

	logger.Info("Geofence audit finished", "runID", runID, "total", report.Total, "malformed", len(report.Malformed))
	return &report, nil
}
