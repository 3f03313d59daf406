package schedule

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"outreachd/models"
)

func newMockController(t *testing.T) (*Controller, sqlmock.Sqlmock) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 conn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewController(db, logger), mock
}

func TestNextRun(t *testing.T) {
	ranAt := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, ranAt.AddDate(0, 0, 1), NextRun("daily", ranAt))
	assert.Equal(t, ranAt.AddDate(0, 0, 7), NextRun("weekly", ranAt))
	assert.Equal(t, ranAt.AddDate(0, 0, 1), NextRun("fortnightly", ranAt))
}

func TestDisableSchedule(t *testing.T) {
	sc, mock := newMockController(t)

	mock.ExpectExec(`UPDATE "workflow_schedules" SET "enabled"=\$1`).
		WithArgs(false, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, sc.Disable(5))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnableUnknownSchedule(t *testing.T) {
	sc, mock := newMockController(t)

	mock.ExpectExec(`UPDATE "workflow_schedules" SET "enabled"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := sc.Enable(999)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestListDueFiltersDisabled(t *testing.T) {
	sc, mock := newMockController(t)
	now := time.Date(2026, 8, 26, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "workflow_schedules" WHERE enabled = \$1 AND next_run_at IS NOT NULL AND next_run_at <= \$2`).
		WithArgs(true, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workflow_id", "enabled", "frequency", "run_parameters"}).
			AddRow(1, 7, true, "daily", `{"candidate_id":42,"email":"a@x.com","trigger_type":"daily","activated_at":"2026-08-26T07:00:00Z"}`))
	mock.ExpectQuery(`SELECT \* FROM "automation_workflows"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workflow_key", "name"}).
			AddRow(7, "daily_vendor_outreach", "Daily Vendor Outreach"))

	due, err := sc.ListDue(now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "daily_vendor_outreach", due[0].Workflow.WorkflowKey)
	require.NotNil(t, due[0].RunParameters)
	assert.Equal(t, uint(42), due[0].RunParameters.CandidateID)
	assert.Equal(t, "daily", due[0].RunParameters.TriggerType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyResetIsIdempotent(t *testing.T) {
	sc, mock := newMockController(t)
	wf := &models.AutomationWorkflow{
		WorkflowKey: "daily_vendor_outreach",
		ParametersConfig: models.ParametersConfig{
			SuccessResetSQL: "UPDATE candidate_marketing SET run_daily_workflow = false WHERE candidate_id = @candidate_id",
		},
	}

	// First application clears the raised flag
	mock.ExpectExec(`UPDATE candidate_marketing SET run_daily_workflow = false WHERE candidate_id = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, sc.ApplyReset(sc.DB, wf, 42))

	// Second application hits an already-clear flag: no rows, no error
	mock.ExpectExec(`UPDATE candidate_marketing SET run_daily_workflow = false WHERE candidate_id = \$1`).
		WithArgs(42).
		WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, sc.ApplyReset(sc.DB, wf, 42))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyResetMissingTemplate(t *testing.T) {
	sc, _ := newMockController(t)
	wf := &models.AutomationWorkflow{WorkflowKey: "broken"}

	err := sc.ApplyReset(sc.DB, wf, 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no success reset configured")
}

func TestStuckFlagReport(t *testing.T) {
	sc, mock := newMockController(t)

	flaggedAt := time.Date(2026, 8, 20, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM candidate_marketing cm`).
		WillReturnRows(sqlmock.NewRows([]string{"candidate_id", "trigger_type", "flagged_at"}).
			AddRow(42, "daily", flaggedAt))

	stuck, err := sc.StuckFlagReport(48 * time.Hour)
	require.NoError(t, err)
	require.Len(t, stuck, 1)
	assert.Equal(t, uint(42), stuck[0].CandidateID)
	assert.Equal(t, "daily", stuck[0].TriggerType)
}
