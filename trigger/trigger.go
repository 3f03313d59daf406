package trigger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachd/models"
)

const (
	TriggerTypeDaily  = "daily"
	TriggerTypeWeekly = "weekly"
)

// ActivationTrigger watches candidate marketing updates for rising edges on
// the activation flags and injects run parameters into the matching enabled
// schedule rows. It never touches the candidate row itself; the flag is
// cleared later by the workflow's success reset.
type ActivationTrigger struct {
	Logger *logrus.Logger

	// Cadence label -> workflow key used to locate schedule rows
	WorkflowKeys map[string]string
}

func NewActivationTrigger(logger *logrus.Logger) *ActivationTrigger {
	return &ActivationTrigger{
		Logger: logger,
		WorkflowKeys: map[string]string{
			TriggerTypeDaily:  "daily_vendor_outreach",
			TriggerTypeWeekly: "weekly_recruiter_outreach",
		},
	}
}

// OnCandidateMarketingUpdate is the store hook. It runs inside the
// transaction of the originating update; any error here rolls that update
// back (all-or-nothing).
func (at *ActivationTrigger) OnCandidateMarketingUpdate(tx *gorm.DB, old, updated models.CandidateMarketing) error {
	edges := RisingEdges(old, updated)
	if len(edges) == 0 {
		return nil
	}

	var cand models.Candidate
	if err := tx.First(&cand, updated.CandidateID).Error; err != nil {
		return fmt.Errorf("loading candidate %d: %w", updated.CandidateID, err)
	}

	for _, triggerType := range edges {
		params := BuildRunParameters(cand, updated, triggerType, time.Now().UTC())
		if err := at.injectParameters(tx, triggerType, &params); err != nil {
			return err
		}
	}
	return nil
}

// RisingEdges reports which cadences saw a strict 0->1 flag transition
// between the two row images. Falling edges and unchanged flags never fire.
func RisingEdges(old, updated models.CandidateMarketing) []string {
	var edges []string
	if !old.RunDailyWorkflow && updated.RunDailyWorkflow {
		edges = append(edges, TriggerTypeDaily)
	}
	if !old.RunWeeklyWorkflow && updated.RunWeeklyWorkflow {
		edges = append(edges, TriggerTypeWeekly)
	}
	return edges
}

// BuildRunParameters assembles the payload written into the schedule row.
// ActivatedAt is capture time, not execution time.
func BuildRunParameters(cand models.Candidate, marketing models.CandidateMarketing, triggerType string, activatedAt time.Time) models.RunParameters {
	return models.RunParameters{
		CandidateID:      cand.ID,
		Email:            cand.Email,
		MarketingEmail:   marketing.MarketingEmail,
		EmailAppPassword: marketing.EmailAppPassword,
		TriggerType:      triggerType,
		ActivatedAt:      activatedAt,
	}
}

// injectParameters overwrites run_parameters on every enabled schedule row
// whose workflow matches the cadence's key. Zero matches is a silent drop:
// activation is best-effort notification, not a transactional guarantee.
// A pending payload that has not been consumed yet is overwritten (last
// write wins).
func (at *ActivationTrigger) injectParameters(tx *gorm.DB, triggerType string, params *models.RunParameters) error {
	key, ok := at.WorkflowKeys[triggerType]
	if !ok {
		return fmt.Errorf("no workflow key mapped for trigger type %q", triggerType)
	}

	workflowIDs := tx.Session(&gorm.Session{NewDB: true}).
		Model(&models.AutomationWorkflow{}).
		Select("id").
		Where("workflow_key = ?", key)

	res := tx.Model(&models.WorkflowSchedule{}).
		Where("enabled = ?", true).
		Where("workflow_id IN (?)", workflowIDs).
		Updates(models.WorkflowSchedule{RunParameters: params})
	if res.Error != nil {
		return fmt.Errorf("injecting run parameters for %q: %w", key, res.Error)
	}

	entry := at.Logger.WithFields(logrus.Fields{
		"candidate_id": params.CandidateID,
		"trigger_type": triggerType,
		"workflow_key": key,
		"schedules":    res.RowsAffected,
	})
	if res.RowsAffected == 0 {
		entry.Debug("activation dropped: no enabled schedule matched")
		return nil
	}
	entry.Info("activation injected into schedule")
	return nil
}
