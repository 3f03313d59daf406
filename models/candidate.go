package models

import (
	"gorm.io/gorm"
)

// Candidate represents a person being marketed to vendors/recruiters
type Candidate struct {
	gorm.Model
	FullName string `gorm:"not null" json:"full_name"`
	Email    string `gorm:"not null;index" json:"email"`
	Phone    string `json:"phone"`

	// Bare handle or full URL; normalized at recipient resolution
	LinkedInID string `json:"linkedin_id"`

	Status string `gorm:"default:'inactive';index" json:"status"` // active, inactive, placed

	// Relations
	Marketing *CandidateMarketing `gorm:"foreignKey:CandidateID" json:"marketing,omitempty"`
}

func (Candidate) TableName() string {
	return "candidate"
}

// CandidateMarketing holds per-candidate outreach settings and the two
// activation flags the trigger watches. The flags are the only durable
// "pending" markers in the system: the trigger fires on their rising edge
// and the success reset clears them after a completed run.
type CandidateMarketing struct {
	gorm.Model
	CandidateID uint `gorm:"not null;uniqueIndex" json:"candidate_id"`

	// Mailbox credentials used downstream for sending on the candidate's behalf
	MarketingEmail   string `json:"marketing_email"`
	EmailAppPassword string `json:"-"`

	// Activation flags, watched independently
	RunDailyWorkflow  bool `gorm:"default:false" json:"run_daily_workflow"`
	RunWeeklyWorkflow bool `gorm:"default:false" json:"run_weekly_workflow"`

	// Relations
	Candidate Candidate `json:"-"`
}

func (CandidateMarketing) TableName() string {
	return "candidate_marketing"
}
