package schedule

import (
	"fmt"
	"time"
)

// StuckFlag is one candidate whose activation flag has stayed raised past
// the cutoff, usually meaning a success reset never landed.
type StuckFlag struct {
	CandidateID uint      `gorm:"column:candidate_id" json:"candidate_id"`
	TriggerType string    `gorm:"column:trigger_type" json:"trigger_type"`
	FlaggedAt   time.Time `gorm:"column:flagged_at" json:"flagged_at"`
}

// StuckFlagReport lists candidates whose flags have been raised longer than
// olderThan. There is no automatic remediation; this query is the manual
// visibility channel for reset failures.
func (sc *Controller) StuckFlagReport(olderThan time.Duration) ([]StuckFlag, error) {
	cutoff := time.Now().UTC().Add(-olderThan)

	var stuck []StuckFlag
	err := sc.DB.Raw(`
SELECT cm.candidate_id, 'daily' AS trigger_type, cm.updated_at AS flagged_at
FROM candidate_marketing cm
WHERE cm.run_daily_workflow = true AND cm.updated_at < @cutoff
UNION ALL
SELECT cm.candidate_id, 'weekly' AS trigger_type, cm.updated_at AS flagged_at
FROM candidate_marketing cm
WHERE cm.run_weekly_workflow = true AND cm.updated_at < @cutoff
ORDER BY flagged_at`, map[string]interface{}{"cutoff": cutoff}).Scan(&stuck).Error
	if err != nil {
		return nil, fmt.Errorf("stuck flag report: %w", err)
	}
	return stuck, nil
}
