package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSchedulesStartDue(t *testing.T) {
	now := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)

	for _, wf := range defaultWorkflows() {
		t.Run(wf.WorkflowKey, func(t *testing.T) {
			s := newDefaultSchedule(wf, now)

			assert.True(t, s.Enabled)
			assert.Equal(t, wf.ParametersConfig.TriggerType, s.Frequency)

			// A fresh seed must already satisfy the poller's due filter
			// (next_run_at IS NOT NULL AND next_run_at <= now); otherwise
			// nothing ever advances it and the schedule stays dormant.
			require.NotNil(t, s.NextRunAt)
			assert.False(t, s.NextRunAt.After(now))
		})
	}
}

func TestDefaultWorkflowDefinitions(t *testing.T) {
	workflows := defaultWorkflows()
	require.Len(t, workflows, 2)

	for _, wf := range workflows {
		assert.Equal(t, "active", wf.Status)
		assert.Contains(t, wf.RecipientListSQL, "@window_start")
		assert.Contains(t, wf.ParametersConfig.SuccessResetSQL, "@candidate_id")
		assert.True(t, strings.HasPrefix(wf.ParametersConfig.SuccessResetSQL, "UPDATE candidate_marketing SET"))
	}

	daily, weekly := workflows[0], workflows[1]
	assert.Equal(t, 1, daily.ParametersConfig.WindowDays)
	assert.Equal(t, 7, weekly.ParametersConfig.WindowDays)
	assert.Contains(t, daily.RecipientListSQL, "run_daily_workflow = true")
	assert.Contains(t, weekly.RecipientListSQL, "run_weekly_workflow = true")
}
