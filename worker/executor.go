package worker

import (
	"context"

	"github.com/sirupsen/logrus"

	"outreachd/models"
)

// LogOnlyExecutor stands in for the external execution engine: it logs the
// dispatch and sends nothing. Deployments replace it with the real engine
// client.
type LogOnlyExecutor struct {
	Logger *logrus.Logger
}

func (e *LogOnlyExecutor) ExecuteWorkflow(ctx context.Context, runID string, wf *models.AutomationWorkflow, params *models.RunParameters) error {
	fields := logrus.Fields{
		"run_id":       runID,
		"workflow_key": wf.WorkflowKey,
	}
	if params != nil {
		fields["candidate_id"] = params.CandidateID
		fields["trigger_type"] = params.TriggerType
	}
	e.Logger.WithFields(fields).Info("executor stub invoked; no engine wired")
	return nil
}
