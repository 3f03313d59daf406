package schedule

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachd/models"
)

// Controller owns the schedule-row side of the coordination protocol:
// enable/disable gating, due listing for the poller, and next-run
// bookkeeping.
type Controller struct {
	DB     *gorm.DB
	Logger *logrus.Logger
}

func NewController(db *gorm.DB, logger *logrus.Logger) *Controller {
	return &Controller{DB: db, Logger: logger}
}

// Disable hides a schedule from both the activation trigger and the poller.
// This is the operational mitigation for a workflow whose recipient query
// references missing schema; re-enable only after publishing a fixed query.
func (sc *Controller) Disable(scheduleID uint) error {
	return sc.setEnabled(scheduleID, false)
}

func (sc *Controller) Enable(scheduleID uint) error {
	return sc.setEnabled(scheduleID, true)
}

func (sc *Controller) setEnabled(scheduleID uint, enabled bool) error {
	res := sc.DB.Model(&models.WorkflowSchedule{}).
		Where("id = ?", scheduleID).
		Update("enabled", enabled)
	if res.Error != nil {
		return fmt.Errorf("updating enabled on schedule %d: %w", scheduleID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("schedule %d not found", scheduleID)
	}
	sc.Logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"enabled":     enabled,
	}).Info("schedule gate changed")
	return nil
}

// ListDue returns enabled schedules whose next_run_at has passed, with
// their workflow definitions loaded. The run_parameters on each row are a
// snapshot as of this read; a concurrent activation may overwrite the row
// afterwards.
func (sc *Controller) ListDue(now time.Time) ([]models.WorkflowSchedule, error) {
	var due []models.WorkflowSchedule
	err := sc.DB.Preload("Workflow").
		Where("enabled = ? AND next_run_at IS NOT NULL AND next_run_at <= ?", true, now).
		Find(&due).Error
	if err != nil {
		return nil, fmt.Errorf("listing due schedules: %w", err)
	}
	return due, nil
}

// SnapshotParameters reads the current run_parameters payload once. Callers
// must treat the result as point-in-time data, not re-read it mid-run.
func (sc *Controller) SnapshotParameters(scheduleID uint) (*models.RunParameters, error) {
	var s models.WorkflowSchedule
	if err := sc.DB.Select("run_parameters").First(&s, scheduleID).Error; err != nil {
		return nil, fmt.Errorf("snapshotting schedule %d: %w", scheduleID, err)
	}
	return s.RunParameters, nil
}

// AdvanceNextRun records a completed dispatch and pushes next_run_at one
// cadence interval past the run time.
func (sc *Controller) AdvanceNextRun(scheduleID uint, frequency string, ranAt time.Time) error {
	next := NextRun(frequency, ranAt)
	err := sc.DB.Model(&models.WorkflowSchedule{}).
		Where("id = ?", scheduleID).
		Updates(map[string]interface{}{
			"last_run_at": ranAt,
			"next_run_at": next,
		}).Error
	if err != nil {
		return fmt.Errorf("advancing schedule %d: %w", scheduleID, err)
	}
	return nil
}

// NextRun computes the next due time for a cadence. Unknown frequencies
// fall back to daily.
func NextRun(frequency string, ranAt time.Time) time.Time {
	switch frequency {
	case "weekly":
		return ranAt.AddDate(0, 0, 7)
	default:
		return ranAt.AddDate(0, 0, 1)
	}
}
