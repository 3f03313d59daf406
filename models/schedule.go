package models

import (
	"time"

	"gorm.io/gorm"
)

// WorkflowSchedule is one (workflow, cadence) coordination row. The trigger
// writes RunParameters into it and the polling engine reads them back; the
// row is the only channel between the two.
type WorkflowSchedule struct {
	gorm.Model
	WorkflowID uint `gorm:"not null;index" json:"workflow_id"`

	// Gate honored by both the activation trigger and the poller
	Enabled bool `gorm:"default:true;index" json:"enabled"`

	Frequency string     `gorm:"not null" json:"frequency"` // daily, weekly
	Timezone  string     `gorm:"default:'UTC'" json:"timezone"`
	NextRunAt *time.Time `json:"next_run_at"`
	LastRunAt *time.Time `json:"last_run_at"`

	// Single-slot mailbox: a second activation before the engine consumes
	// the first overwrites this payload (last write wins, no queueing).
	RunParameters *RunParameters `gorm:"type:jsonb;serializer:json" json:"run_parameters"`

	// Relations
	Workflow AutomationWorkflow `json:"-"`
}

// RunParameters is the flat payload injected on a rising edge. Keys are
// stable and match the placeholders in recipient_list_sql/success_reset_sql.
type RunParameters struct {
	CandidateID      uint      `json:"candidate_id"`
	Email            string    `json:"email"`
	MarketingEmail   string    `json:"marketing_email,omitempty"`
	EmailAppPassword string    `json:"email_app_password,omitempty"`
	TriggerType      string    `json:"trigger_type"`
	ActivatedAt      time.Time `json:"activated_at"`
}
