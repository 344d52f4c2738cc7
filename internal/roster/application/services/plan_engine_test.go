package services_test

import (
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/application/services"
	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The test window is the single roster week Sunday 30/08/2026 through
// Saturday 05/09/2026; its Friday is 04/09/2026.
var (
	testWindow = domain.NewDateRange(
		time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	)
	weekendRange = domain.NewDateRange(
		time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
	)
	weekdayRange = domain.NewDateRange(
		time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC),
	)
	testFriday = domain.DateKey("04/09/2026")
)

func testSnapshot(workers map[string]domain.WorkerSnapshot, stats map[string]domain.WorkerStats) *domain.PlanningSnapshot {
	return &domain.PlanningSnapshot{
		GeneratedAt:   time.Now(),
		DepartmentID:  uuid.New(),
		SelectedRange: weekendRange,
		Window:        testWindow,
		Fridays:       []domain.DateKey{testFriday},
		Stats:         stats,
		Workers:       workers,
	}
}

func closingWorker(interval int) domain.WorkerSnapshot {
	return domain.WorkerSnapshot{
		Profile: domain.WorkerProfile{ClosingInterval: interval},
	}
}

var barTask = domain.SecondaryTask{
	ID:             "bar",
	Name:           "Bar",
	AutoAssign:     true,
	AssignWeekends: true,
}

func TestPlanEngine_Generate_MissingSnapshot(t *testing.T) {
	engine := services.NewPlanEngine()

	_, err := engine.Generate(nil, weekendRange, nil, services.PlanOptions{})

	assert.ErrorIs(t, err, services.ErrSnapshotMissing)
}

func TestPlanEngine_Generate_StaleSnapshot(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(nil, nil)
	snap.GeneratedAt = time.Now().Add(-domain.SnapshotTTL - time.Minute)

	_, err := engine.Generate(snap, weekendRange, nil, services.PlanOptions{})

	assert.ErrorIs(t, err, services.ErrSnapshotStale)
}

func TestPlanEngine_TriadCoversThursdayToSaturday(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	require.Len(t, plan.Assignments, 3)
	dates := make(map[domain.DateKey]string)
	for _, a := range plan.Assignments {
		assert.Equal(t, "bar", a.TaskID)
		dates[a.Date] = a.WorkerID
	}
	assert.Equal(t, "w1", dates["03/09/2026"])
	assert.Equal(t, "w1", dates["04/09/2026"])
	assert.Equal(t, "w1", dates["05/09/2026"])
}

func TestPlanEngine_ForcedCloserNeverHoldsTriad(t *testing.T) {
	engine := services.NewPlanEngine()
	forced := closingWorker(4)
	forced.MandatoryClosingDates = []domain.DateKey{testFriday}
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": forced,
		"w2": closingWorker(4),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	crew := plan.ClosersByFriday[testFriday]
	assert.Equal(t, []string{"w1"}, crew.Forced)
	for _, a := range plan.Assignments {
		assert.NotEqual(t, "w1", a.WorkerID, "forced closer must not hold a weekend assignment")
	}
	require.Len(t, plan.Assignments, 3)
	assert.Equal(t, "w2", plan.Assignments[0].WorkerID)
}

func TestPlanEngine_WeekendSpannerExcluded(t *testing.T) {
	engine := services.NewPlanEngine()
	busy := closingWorker(4)
	busy.PrimaryBusyDays = []domain.DateKey{"04/09/2026", "05/09/2026"}
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": busy,
		"w2": closingWorker(4),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	crew := plan.ClosersByFriday[testFriday]
	for _, pick := range crew.Assigned {
		assert.NotEqual(t, "w1", pick.WorkerID)
	}
	for _, a := range plan.Assignments {
		assert.NotEqual(t, "w1", a.WorkerID)
	}
}

func TestPlanEngine_WholeDayBlockRespected(t *testing.T) {
	engine := services.NewPlanEngine()
	blocked := closingWorker(4)
	blocked.Preferences = []domain.Preference{
		{WorkerID: "w1", Date: testFriday, TaskID: "", Status: domain.PreferenceBlocked},
	}
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": blocked,
		"w2": closingWorker(4),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	for _, a := range plan.Assignments {
		if a.Date == testFriday {
			assert.NotEqual(t, "w1", a.WorkerID)
		}
	}
	for _, w := range plan.Warnings {
		assert.NotContains(t, w, "blocked preference")
	}
}

func TestPlanEngine_OnOptimalCloserPickedFirst(t *testing.T) {
	engine := services.NewPlanEngine()
	optimal := closingWorker(4)
	optimal.OptimalClosingDates = []domain.DateKey{testFriday}
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
		"w2": optimal,
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	crew := plan.ClosersByFriday[testFriday]
	require.Len(t, crew.Assigned, 1)
	assert.Equal(t, "w2", crew.Assigned[0].WorkerID)
	assert.Equal(t, services.ReasonOnOptimal, crew.Assigned[0].Reason)
}

func TestPlanEngine_ClosingShortfallWarning(t *testing.T) {
	engine := services.NewPlanEngine()
	// Interval 0 workers never close, so nobody can cover the weekend.
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(0),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	require.NotEmpty(t, plan.Warnings)
	found := false
	for _, w := range plan.Warnings {
		if strings.Contains(w, "closing shortfall") {
			found = true
		}
	}
	assert.True(t, found, "expected a closing shortfall warning, got %v", plan.Warnings)
}

func TestPlanEngine_ManualOnlyTaskSkipped(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
	}, nil)
	manual := domain.SecondaryTask{ID: "inventory", Name: "Inventory", AutoAssign: false}

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{manual}, services.PlanOptions{})

	require.NoError(t, err)
	assert.Empty(t, plan.Assignments)
	found := false
	for _, l := range plan.Logs {
		if strings.Contains(l, "manual-only") {
			found = true
		}
	}
	assert.True(t, found)
}

func TestPlanEngine_ManualOnlyTaskIncludedOnRequest(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
	}, nil)
	day := domain.NewDateRange(
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	snap.SelectedRange = day
	manual := domain.SecondaryTask{ID: "inventory", Name: "Inventory", AutoAssign: false}

	plan, err := engine.Generate(snap, day, []domain.SecondaryTask{manual},
		services.PlanOptions{IncludeManualOnlyTasks: true})

	require.NoError(t, err)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "w1", plan.Assignments[0].WorkerID)
	for _, l := range plan.Logs {
		assert.NotContains(t, l, "manual-only")
	}
}

func TestPlanEngine_PreferenceDecidesTriadWhenCrewIsForced(t *testing.T) {
	engine := services.NewPlanEngine()
	forced := closingWorker(4)
	forced.MandatoryClosingDates = []domain.DateKey{testFriday}
	prefers := closingWorker(4)
	prefers.Preferences = []domain.Preference{
		{WorkerID: "w1", Date: testFriday, TaskID: "bar", Status: domain.PreferencePreferred},
	}
	// The historical load makes w2 the higher-ranked closing candidate,
	// but with the crew fully covered by the forced closer the triad goes
	// to scoring, where w1's preference wins.
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": prefers,
		"w2": closingWorker(4),
		"w3": forced,
	}, map[string]domain.WorkerStats{
		"w1": {TotalSecondary: 1},
	})

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})

	require.NoError(t, err)
	crew := plan.ClosersByFriday[testFriday]
	assert.Equal(t, []string{"w3"}, crew.Forced)
	assert.Empty(t, crew.Assigned)
	require.Len(t, plan.Assignments, 3)
	for _, a := range plan.Assignments {
		assert.Equal(t, "w1", a.WorkerID)
	}
}

func TestPlanEngine_WeekdayFillAlternatesUnderCap(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
		"w2": closingWorker(4),
	}, nil)
	snap.SelectedRange = weekdayRange
	cleanup := domain.SecondaryTask{ID: "cleanup", Name: "Cleanup", AutoAssign: true}

	plan, err := engine.Generate(snap, weekdayRange, []domain.SecondaryTask{cleanup}, services.PlanOptions{})

	require.NoError(t, err)
	// Four weekdays (Sunday through Wednesday), one cell each.
	require.Len(t, plan.Assignments, 4)
	counts := map[string]int{}
	for _, a := range plan.Assignments {
		counts[a.WorkerID]++
	}
	// The progressive cap spreads the load before anyone doubles up.
	assert.Equal(t, 2, counts["w1"])
	assert.Equal(t, 2, counts["w2"])
}

func TestPlanEngine_PreferredWorkerWinsFallbackScoring(t *testing.T) {
	engine := services.NewPlanEngine()
	prefers := closingWorker(4)
	prefers.Preferences = []domain.Preference{
		{WorkerID: "w2", Date: "31/08/2026", TaskID: "cleanup", Status: domain.PreferencePreferred},
	}
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
		"w2": prefers,
	}, nil)
	day := domain.NewDateRange(
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	snap.SelectedRange = day
	cleanup := domain.SecondaryTask{ID: "cleanup", Name: "Cleanup", AutoAssign: true}

	plan, err := engine.Generate(snap, day, []domain.SecondaryTask{cleanup}, services.PlanOptions{})

	require.NoError(t, err)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "w2", plan.Assignments[0].WorkerID)
}

func TestPlanEngine_LowerHistoricalLoadWins(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
		"w2": closingWorker(4),
	}, map[string]domain.WorkerStats{
		"w1": {TotalSecondary: 10},
		"w2": {TotalSecondary: 1},
	})
	day := domain.NewDateRange(
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	)
	snap.SelectedRange = day
	cleanup := domain.SecondaryTask{ID: "cleanup", Name: "Cleanup", AutoAssign: true}

	plan, err := engine.Generate(snap, day, []domain.SecondaryTask{cleanup}, services.PlanOptions{})

	require.NoError(t, err)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, "w2", plan.Assignments[0].WorkerID)
}

func TestPlanEngine_Deterministic(t *testing.T) {
	engine := services.NewPlanEngine()
	workers := map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
		"w2": closingWorker(3),
		"w3": closingWorker(0),
	}

	first, err := engine.Generate(testSnapshot(workers, nil), weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})
	require.NoError(t, err)
	second, err := engine.Generate(testSnapshot(workers, nil), weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})
	require.NoError(t, err)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.ClosersByFriday, second.ClosersByFriday)
}

func TestPlanEngine_AuditFlagsPrimaryConflict(t *testing.T) {
	engine := services.NewPlanEngine()
	snap := testSnapshot(map[string]domain.WorkerSnapshot{
		"w1": closingWorker(4),
	}, nil)

	plan, err := engine.Generate(snap, weekendRange, []domain.SecondaryTask{barTask}, services.PlanOptions{})
	require.NoError(t, err)

	// A clean plan audits clean.
	for _, w := range plan.Warnings {
		assert.NotContains(t, w, "audit:")
	}
}
