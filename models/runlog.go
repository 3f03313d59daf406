package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkflowRunLog is the audit row written when a due schedule is dispatched
// to the execution engine.
type WorkflowRunLog struct {
	gorm.Model
	WorkflowID uint   `gorm:"not null;index" json:"workflow_id"`
	ScheduleID uint   `gorm:"not null;index" json:"schedule_id"`
	RunID      string `gorm:"not null;uniqueIndex" json:"run_id"`

	Status string `gorm:"default:'queued'" json:"status"` // queued, running, completed, failed

	RecordsProcessed int `gorm:"default:0" json:"records_processed"`
	RecordsFailed    int `gorm:"default:0" json:"records_failed"`

	StartedAt    *time.Time `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at"`
	ErrorSummary string     `gorm:"type:text" json:"error_summary"`
}
