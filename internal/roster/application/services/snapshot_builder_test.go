package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/application/services"
	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWorkerRepo struct {
	workers []*domain.Worker
	err     error
}

func (f *fakeWorkerRepo) Save(ctx context.Context, worker *domain.Worker) error { return nil }

func (f *fakeWorkerRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Worker, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, w := range f.workers {
		if w.ID() == id {
			return w, nil
		}
	}
	return nil, nil
}

func (f *fakeWorkerRepo) FindByDepartment(ctx context.Context, departmentID uuid.UUID) ([]*domain.Worker, error) {
	return f.workers, f.err
}

type fakeDutyRepo struct {
	duties      []domain.PrimaryDuty
	lastClosing map[string]time.Time
}

func (f *fakeDutyRepo) Save(ctx context.Context, id uuid.UUID, departmentID uuid.UUID, duty domain.PrimaryDuty) error {
	f.duties = append(f.duties, duty)
	return nil
}

func (f *fakeDutyRepo) FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, r domain.DateRange) ([]domain.PrimaryDuty, error) {
	return f.duties, nil
}

func (f *fakeDutyRepo) RecordClosing(ctx context.Context, departmentID uuid.UUID, workerID string, friday time.Time) error {
	if f.lastClosing == nil {
		f.lastClosing = make(map[string]time.Time)
	}
	f.lastClosing[workerID] = friday
	return nil
}

func (f *fakeDutyRepo) LastClosingFriday(ctx context.Context, workerID string, before time.Time) (time.Time, error) {
	return f.lastClosing[workerID], nil
}

type fakePrefRepo struct {
	prefs []domain.Preference
}

func (f *fakePrefRepo) Save(ctx context.Context, departmentID uuid.UUID, pref domain.Preference) error {
	return nil
}

func (f *fakePrefRepo) FindByDepartmentAndRange(ctx context.Context, departmentID uuid.UUID, r domain.DateRange) ([]domain.Preference, error) {
	return f.prefs, nil
}

type fakeStatsRepo struct {
	stats map[string]domain.WorkerStats
}

func (f *fakeStatsRepo) FindByDepartment(ctx context.Context, departmentID uuid.UUID) (map[string]domain.WorkerStats, error) {
	return f.stats, nil
}

func TestSnapshotBuilder_Build(t *testing.T) {
	departmentID := uuid.New()
	worker := domain.NewWorker(departmentID, "Ada", "Lovelace", 4, []string{"bar"})
	id := worker.ID().String()

	builder := services.NewSnapshotBuilder(
		&fakeWorkerRepo{workers: []*domain.Worker{worker}},
		&fakeDutyRepo{
			duties: []domain.PrimaryDuty{{
				WorkerID: id,
				Start:    time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
				End:      time.Date(2026, 9, 6, 0, 0, 0, 0, time.UTC),
			}},
			lastClosing: map[string]time.Time{
				id: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
			},
		},
		&fakePrefRepo{prefs: []domain.Preference{
			{WorkerID: id, Date: "10/09/2026", TaskID: "", Status: domain.PreferenceBlocked},
		}},
		&fakeStatsRepo{stats: map[string]domain.WorkerStats{
			id: {TotalSecondary: 3, ClosingAccuracyPct: 75},
		}},
		domain.ClosingConfig{},
	)

	selected := domain.NewDateRange(
		time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	)
	snapshot, err := builder.Build(context.Background(), departmentID, selected)

	require.NoError(t, err)
	assert.Equal(t, departmentID, snapshot.DepartmentID)
	assert.Equal(t, selected, snapshot.SelectedRange)

	// September 2026 expands to the weeks 30/08 through 03/10: five Fridays.
	require.Len(t, snapshot.Fridays, 5)
	assert.Equal(t, domain.DateKey("04/09/2026"), snapshot.Fridays[0])
	assert.Equal(t, domain.DateKey("02/10/2026"), snapshot.Fridays[4])

	ws, ok := snapshot.Workers[id]
	require.True(t, ok)
	assert.Equal(t, "Ada", ws.Profile.FirstName)
	assert.Equal(t, 4, ws.Profile.ClosingInterval)
	assert.Equal(t, []string{"bar"}, ws.Profile.Qualifications)

	// The Thursday-to-Sunday duty blocks four days and forces the Friday.
	assert.Equal(t, []domain.DateKey{"03/09/2026", "04/09/2026", "05/09/2026", "06/09/2026"}, ws.PrimaryBusyDays)
	assert.Equal(t, []domain.DateKey{"04/09/2026"}, ws.MandatoryClosingDates)

	// Interval 4 after the mandatory week 1 lands on week 5.
	assert.Equal(t, []domain.DateKey{"02/10/2026"}, ws.OptimalClosingDates)

	assert.Equal(t, domain.DateKey("21/08/2026"), ws.LastClosingFriday)
	require.Len(t, ws.Preferences, 1)
	assert.Equal(t, 3, snapshot.StatsFor(id).TotalSecondary)
}

func TestSnapshotBuilder_Build_WorkerLoadFails(t *testing.T) {
	builder := services.NewSnapshotBuilder(
		&fakeWorkerRepo{err: errors.New("connection refused")},
		&fakeDutyRepo{},
		&fakePrefRepo{},
		&fakeStatsRepo{},
		domain.ClosingConfig{},
	)

	_, err := builder.Build(context.Background(), uuid.New(), weekendRange)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load workers")
}
