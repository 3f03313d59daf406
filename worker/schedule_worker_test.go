package worker

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"outreachd/models"
	"outreachd/schedule"
)

type fakeExecutor struct {
	calls  int
	runID  string
	wf     *models.AutomationWorkflow
	params *models.RunParameters
	err    error
}

func (f *fakeExecutor) ExecuteWorkflow(ctx context.Context, runID string, wf *models.AutomationWorkflow, params *models.RunParameters) error {
	f.calls++
	f.runID = runID
	f.wf = wf
	f.params = params
	return f.err
}

func newMockWorker(t *testing.T, executor Executor) (*ScheduleWorker, sqlmock.Sqlmock) {
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
	control := schedule.NewController(db, logger)
	return NewScheduleWorker(db, control, executor, logger, time.Minute), mock
}

func dueSchedule() models.WorkflowSchedule {
	return models.WorkflowSchedule{
		Model:      gorm.Model{ID: 3},
		WorkflowID: 7,
		Enabled:    true,
		Frequency:  "daily",
		Workflow: models.AutomationWorkflow{
			Model:       gorm.Model{ID: 7},
			WorkflowKey: "daily_vendor_outreach",
		},
		RunParameters: &models.RunParameters{
			CandidateID: 42,
			Email:       "a@x.com",
			TriggerType: "daily",
			ActivatedAt: time.Date(2026, 8, 26, 7, 0, 0, 0, time.UTC),
		},
	}
}

func TestDispatchRunsExecutorWithSnapshot(t *testing.T) {
	executor := &fakeExecutor{}
	sw, mock := newMockWorker(t, executor)

	mock.ExpectQuery(`INSERT INTO "workflow_run_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`UPDATE "workflow_run_logs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "workflow_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sw.Dispatch(context.Background(), dueSchedule())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, 1, executor.calls)
	assert.NotEmpty(t, executor.runID)
	assert.Equal(t, "daily_vendor_outreach", executor.wf.WorkflowKey)
	require.NotNil(t, executor.params)
	assert.Equal(t, uint(42), executor.params.CandidateID)
}

func TestDispatchRecordsExecutorFailure(t *testing.T) {
	executor := &fakeExecutor{err: assert.AnError}
	sw, mock := newMockWorker(t, executor)

	mock.ExpectQuery(`INSERT INTO "workflow_run_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	// Failure lands in the run log; the schedule still advances (retries
	// are the engine's concern)
	mock.ExpectExec(`UPDATE "workflow_run_logs" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "workflow_schedules" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := sw.Dispatch(context.Background(), dueSchedule())
	require.ErrorIs(t, err, assert.AnError)
	require.NoError(t, mock.ExpectationsWereMet())
}
