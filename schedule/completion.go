package schedule

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"outreachd/models"
)

// ApplyReset executes the workflow's success reset for one candidate,
// clearing the flag that caused the activation. The reset is idempotent: it
// sets the flag to false whatever its current value, so applying it twice
// is a harmless no-op.
//
// A failed or skipped reset leaves the candidate permanently "pending" with
// no automatic re-fire. That liveness gap is surfaced only through the error
// log here and the StuckFlagReport.
func (sc *Controller) ApplyReset(tx *gorm.DB, wf *models.AutomationWorkflow, candidateID uint) error {
	resetSQL := wf.ParametersConfig.SuccessResetSQL
	if resetSQL == "" {
		return fmt.Errorf("workflow %q has no success reset configured", wf.WorkflowKey)
	}

	res := tx.Exec(resetSQL, map[string]interface{}{"candidate_id": candidateID})
	if res.Error != nil {
		sc.Logger.WithFields(logrus.Fields{
			"workflow_key": wf.WorkflowKey,
			"candidate_id": candidateID,
		}).WithError(res.Error).Error("success reset failed; candidate stays pending until corrected manually")
		return fmt.Errorf("success reset for candidate %d: %w", candidateID, res.Error)
	}

	sc.Logger.WithFields(logrus.Fields{
		"workflow_key": wf.WorkflowKey,
		"candidate_id": candidateID,
		"rows":         res.RowsAffected,
	}).Info("success reset applied")
	return nil
}
