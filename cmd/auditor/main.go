package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	tlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	natsadapter "github.com/samirrijal/geofence/internal/adapters/nats"
	"github.com/samirrijal/geofence/internal/adapters/postgres"
	"github.com/samirrijal/geofence/internal/core/ports"
	"github.com/samirrijal/geofence/internal/core/usecases"
	"github.com/samirrijal/geofence/internal/pkg/config"
	"github.com/samirrijal/geofence/internal/pkg/logging"
	"github.com/samirrijal/geofence/internal/pkg/telemetry"
	"github.com/samirrijal/geofence/internal/workflows"
)

const cronWorkflowID = "geofence-audit-cron"

// usage: auditor [worker|run]
//
// worker (default) hosts the audit workflow and, when temporal.audit_schedule
// is set, makes sure the cron workflow exists. run starts one audit and
// prints its report.
func main() {
	cfg, err := config.Load("geofence-auditor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup("geofence-auditor", cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    tlog.NewStructuredLogger(logger),
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	mode := "worker"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "worker":
		runWorker(ctx, cfg, c)
	case "run":
		runOnce(ctx, cfg, c)
	default:
		log.Fatalf("unknown command: %s", mode)
	}
}

func runWorker(ctx context.Context, cfg *config.Config, c client.Client) {
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, audit reports will only be logged", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// The audit reads storage directly; no cache is needed.
	svc := usecases.NewGeofenceService(postgres.NewGeofenceRepo(db), nil, nil, usecases.GeofenceOptions{})

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(workflows.AuditWorkflow, workflow.RegisterOptions{Name: workflows.AuditWorkflowName})
	w.RegisterActivity(&workflows.AuditActivities{Geofences: svc, Publisher: publisher})

	if cfg.Temporal.AuditSchedule != "" {
		ensureCron(ctx, cfg, c)
	}

	slog.Info("audit worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func ensureCron(ctx context.Context, cfg *config.Config, c client.Client) {
	_, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           cronWorkflowID,
		TaskQueue:    cfg.Temporal.TaskQueue,
		CronSchedule: cfg.Temporal.AuditSchedule,
	}, workflows.AuditWorkflowName, workflows.AuditInput{})

	var started *serviceerror.WorkflowExecutionAlreadyStarted
	switch {
	case err == nil:
		slog.Info("audit cron scheduled", "schedule", cfg.Temporal.AuditSchedule)
	case errors.As(err, &started):
		slog.Info("audit cron already running", "workflow_id", cronWorkflowID)
	default:
		slog.Error("schedule audit cron", "error", err)
	}
}

func runOnce(ctx context.Context, cfg *config.Config, c client.Client) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		TaskQueue: cfg.Temporal.TaskQueue,
	}, workflows.AuditWorkflowName, workflows.AuditInput{})
	if err != nil {
		log.Fatalf("start audit: %v", err)
	}
	slog.Info("audit started", "workflow_id", run.GetID(), "run_id", run.GetRunID())

	var report json.RawMessage
	if err := run.Get(ctx, &report); err != nil {
		log.Fatalf("audit: %v", err)
	}
	os.Stdout.Write(append(report, '\n'))
}
