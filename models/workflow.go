package models

import (
	"gorm.io/gorm"
)

// AutomationWorkflow is a catalog entry mapping a stable workflow key to the
// recipient query and run configuration the execution engine consumes.
type AutomationWorkflow struct {
	gorm.Model
	WorkflowKey string `gorm:"not null;uniqueIndex" json:"workflow_key" validate:"required"`
	Name        string `gorm:"not null" json:"name" validate:"required"`
	Description string `json:"description"`

	Status string `gorm:"default:'active'" json:"status"` // draft, active, paused, inactive

	// Parameterized read-only query producing the recipient set. Uses
	// @name placeholders bound at execution time, never interpolated.
	RecipientListSQL string `gorm:"type:text;not null" json:"recipient_list_sql" validate:"required"`

	// Run configuration, including the success reset template
	ParametersConfig ParametersConfig `gorm:"type:jsonb;serializer:json" json:"parameters_config"`

	Version int `gorm:"default:1" json:"version"`

	// Relations
	Schedules []WorkflowSchedule `gorm:"foreignKey:WorkflowID" json:"schedules,omitempty"`
}

// ParametersConfig is the structured per-workflow configuration stored as jsonb.
type ParametersConfig struct {
	// Targeted single-row update clearing the originating flag, keyed by
	// @candidate_id. Must be idempotent: applying it when the flag is
	// already clear is a no-op.
	SuccessResetSQL string `json:"success_reset_sql" validate:"required"`

	// Lookback for the recipient query's contact window (1 = today only)
	WindowDays int `json:"window_days"`

	// Cadence label injected into run parameters: daily, weekly
	TriggerType string `json:"trigger_type"`
}
