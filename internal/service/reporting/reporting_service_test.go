package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/herdwise/internal/domain/models"
	"github.com/mamadbah2/herdwise/internal/service/state"
)

type fakeSheet struct {
	rows [][]interface{}
}

func (f *fakeSheet) WriteRow(_ context.Context, _ string, values []interface{}) error {
	f.rows = append(f.rows, values)
	return nil
}

func (f *fakeSheet) ReadRange(_ context.Context, _ string) ([][]interface{}, error) {
	return f.rows, nil
}

type fakeSource struct {
	snap state.State
}

func (f *fakeSource) Snapshot() state.State { return f.snap }

func TestAppendDailySnapshotWritesStatsRow(t *testing.T) {
	sheet := &fakeSheet{}
	source := &fakeSource{snap: state.State{
		Stats: models.Stats{Active: 12, Sold: 3, Deceased: 1, TotalIncome: 4500, TotalExpenses: 1200, Balance: 3300, PendingTasks: 4},
	}}

	svc := NewService(sheet, source, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.AppendDailySnapshot(context.Background()))

	require.Len(t, sheet.rows, 1)
	assert.Equal(t, []interface{}{"2026-08-31", 12, 3, 1, 4500.0, 1200.0, 3300.0, 4}, sheet.rows[0])
}

func TestAppendDailySnapshotSkipsDuplicateDay(t *testing.T) {
	sheet := &fakeSheet{}
	svc := NewService(sheet, &fakeSource{}, nil)
	svc.now = func() time.Time { return time.Date(2026, 8, 31, 6, 0, 0, 0, time.UTC) }

	require.NoError(t, svc.AppendDailySnapshot(context.Background()))
	require.NoError(t, svc.AppendDailySnapshot(context.Background()))

	assert.Len(t, sheet.rows, 1, "rerunning the job for the same day appends nothing")
}
