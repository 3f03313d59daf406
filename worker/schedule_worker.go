package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachd/models"
	"outreachd/schedule"
	"outreachd/utils"
)

// Executor is the port to the external execution engine. Everything behind
// it (recipient sends, retries, rate limiting, the success reset call) is
// out of this core's hands.
type Executor interface {
	ExecuteWorkflow(ctx context.Context, runID string, wf *models.AutomationWorkflow, params *models.RunParameters) error
}

// ScheduleWorker polls for due enabled schedules and hands each one to the
// executor with a point-in-time snapshot of its run parameters.
type ScheduleWorker struct {
	DB       *gorm.DB
	Control  *schedule.Controller
	Executor Executor
	Logger   *logrus.Logger
	Interval time.Duration
}

func NewScheduleWorker(db *gorm.DB, control *schedule.Controller, executor Executor, logger *logrus.Logger, interval time.Duration) *ScheduleWorker {
	return &ScheduleWorker{
		DB:       db,
		Control:  control,
		Executor: executor,
		Logger:   logger,
		Interval: interval,
	}
}

func (sw *ScheduleWorker) Start(ctx context.Context) {
	sw.Logger.Info("schedule worker started")

	ticker := time.NewTicker(sw.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			sw.Logger.Info("schedule worker shutting down...")
			return
		case <-ticker.C:
			sw.processDueSchedules(ctx)
		}
	}
}

func (sw *ScheduleWorker) processDueSchedules(ctx context.Context) {
	due, err := sw.Control.ListDue(time.Now().UTC())
	if err != nil {
		sw.Logger.WithError(err).Error("listing due schedules")
		return
	}

	for _, s := range due {
		if err := sw.Dispatch(ctx, s); err != nil {
			sw.Logger.WithFields(logrus.Fields{
				"schedule_id": s.ID,
			}).WithError(err).Error("dispatching schedule")
		}
	}
}

// Dispatch runs one due schedule: write the audit row, call the executor
// with the parameter snapshot, record the outcome, and advance next_run_at.
// The snapshot came from the due listing; the live row may already hold a
// newer payload and is not re-read. Failures are recorded but not retried
// here; retries belong to the engine.
func (sw *ScheduleWorker) Dispatch(ctx context.Context, s models.WorkflowSchedule) error {
	runID := uuid.NewString()
	ranAt := time.Now().UTC()

	runLog := models.WorkflowRunLog{
		WorkflowID: s.WorkflowID,
		ScheduleID: s.ID,
		RunID:      runID,
		Status:     "running",
		StartedAt:  &ranAt,
	}
	if err := sw.DB.Create(&runLog).Error; err != nil {
		return err
	}

	sw.Logger.WithFields(logrus.Fields{
		"run_id":       runID,
		"schedule_id":  s.ID,
		"workflow_key": s.Workflow.WorkflowKey,
	}).Info("dispatching due schedule")

	execErr := sw.Executor.ExecuteWorkflow(ctx, runID, &s.Workflow, s.RunParameters)

	finishedAt := time.Now().UTC()
	logChanges := map[string]interface{}{
		"status":      "completed",
		"finished_at": finishedAt,
	}
	if execErr != nil {
		logChanges["status"] = "failed"
		logChanges["error_summary"] = execErr.Error()
	}
	if err := sw.DB.Model(&runLog).Updates(logChanges).Error; err != nil {
		return err
	}

	if err := sw.Control.AdvanceNextRun(s.ID, s.Frequency, ranAt); err != nil {
		return err
	}

	sw.Logger.WithFields(logrus.Fields{
		"run_id":   runID,
		"status":   logChanges["status"],
		"duration": utils.FormatDuration(finishedAt.Sub(ranAt)),
	}).Info("dispatch finished")
	return execErr
}
