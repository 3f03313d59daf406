package models

import (
	"time"

	"gorm.io/gorm"

	"outreachd/utils"
)

// Recipient queries for the two seeded cadences. Shape is identical: pull
// contacts extracted inside the window, cross join the single currently
// eligible candidate (bounded subselect, so one parameter set per contact
// row), and build a canonical profile URL from a possibly-bare handle.
// @window_start is bound by the catalog at execution time.
const dailyRecipientSQL = `
SELECT
    vce.email AS recipient_email,
    vce.contact_name,
    cand.candidate_name,
    cand.linkedin_url
FROM vendor_contact_extract vce
CROSS JOIN (
    SELECT
        c.full_name AS candidate_name,
        CASE WHEN c.linked_in_id LIKE 'http%' THEN c.linked_in_id
             ELSE 'https://' || c.linked_in_id
        END AS linkedin_url
    FROM candidate c
    JOIN candidate_marketing cm ON cm.candidate_id = c.id
    WHERE c.status = 'active'
      AND cm.run_daily_workflow = true
      AND c.email IS NOT NULL AND c.email <> ''
    ORDER BY cm.updated_at DESC
    LIMIT 1
) cand
WHERE vce.created_at >= @window_start`

const weeklyRecipientSQL = `
SELECT
    vce.email AS recipient_email,
    vce.contact_name,
    cand.candidate_name,
    cand.linkedin_url
FROM vendor_contact_extract vce
CROSS JOIN (
    SELECT
        c.full_name AS candidate_name,
        CASE WHEN c.linked_in_id LIKE 'http%' THEN c.linked_in_id
             ELSE 'https://' || c.linked_in_id
        END AS linkedin_url
    FROM candidate c
    JOIN candidate_marketing cm ON cm.candidate_id = c.id
    WHERE c.status = 'active'
      AND cm.run_weekly_workflow = true
      AND c.email IS NOT NULL AND c.email <> ''
    ORDER BY cm.updated_at DESC
    LIMIT 1
) cand
WHERE vce.created_at >= @window_start`

// Migrate runs schema migration for all outreach tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Candidate{},
		&CandidateMarketing{},
		&AutomationWorkflow{},
		&WorkflowSchedule{},
		&WorkflowRunLog{},
	)
}

// CreateDefaultWorkflows seeds the two outreach workflows and one enabled
// schedule each. Safe to run repeatedly.
func CreateDefaultWorkflows(db *gorm.DB) error {
	now := time.Now().UTC()
	for _, wf := range defaultWorkflows() {
		if err := db.FirstOrCreate(&wf, "workflow_key = ?", wf.WorkflowKey).Error; err != nil {
			return err
		}
		schedule := newDefaultSchedule(wf, now)
		if err := db.FirstOrCreate(&schedule, "workflow_id = ?", wf.ID).Error; err != nil {
			return err
		}
	}
	return nil
}

// newDefaultSchedule builds the enabled schedule seeded alongside a
// workflow. next_run_at starts at seed time so the first poll already
// picks the schedule up; from then on the worker advances it.
func newDefaultSchedule(wf AutomationWorkflow, now time.Time) WorkflowSchedule {
	return WorkflowSchedule{
		WorkflowID: wf.ID,
		Enabled:    true,
		Frequency:  wf.ParametersConfig.TriggerType,
		NextRunAt:  utils.Pointer(now),
	}
}

func defaultWorkflows() []AutomationWorkflow {
	return []AutomationWorkflow{
		{
			WorkflowKey:      "daily_vendor_outreach",
			Name:             "Daily Vendor Outreach",
			Description:      "Emails vendor contacts extracted today on behalf of the active candidate",
			Status:           "active",
			RecipientListSQL: dailyRecipientSQL,
			ParametersConfig: ParametersConfig{
				SuccessResetSQL: "UPDATE candidate_marketing SET run_daily_workflow = false WHERE candidate_id = @candidate_id",
				WindowDays:      1,
				TriggerType:     "daily",
			},
		},
		{
			WorkflowKey:      "weekly_recruiter_outreach",
			Name:             "Weekly Recruiter Outreach",
			Description:      "Emails contacts extracted within the last 7 days on behalf of the active candidate",
			Status:           "active",
			RecipientListSQL: weeklyRecipientSQL,
			ParametersConfig: ParametersConfig{
				SuccessResetSQL: "UPDATE candidate_marketing SET run_weekly_workflow = false WHERE candidate_id = @candidate_id",
				WindowDays:      7,
				TriggerType:     "weekly",
			},
		},
	}
}
