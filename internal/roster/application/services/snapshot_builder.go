package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/google/uuid"
)

// SnapshotBuilder assembles the denormalized planning snapshot the engine
// consumes: worker profiles, primary-duty busy days, derived mandatory and
// optimal closing dates, in-window preferences, and department statistics.
// All I/O happens through the repositories; the assembly itself is pure.
type SnapshotBuilder struct {
	workers     domain.WorkerRepository
	duties      domain.DutyRepository
	preferences domain.PreferenceRepository
	stats       domain.StatsRepository
	closingCfg  domain.ClosingConfig
	now         func() time.Time
}

// NewSnapshotBuilder creates a snapshot builder.
func NewSnapshotBuilder(
	workers domain.WorkerRepository,
	duties domain.DutyRepository,
	preferences domain.PreferenceRepository,
	stats domain.StatsRepository,
	closingCfg domain.ClosingConfig,
) *SnapshotBuilder {
	return &SnapshotBuilder{
		workers:     workers,
		duties:      duties,
		preferences: preferences,
		stats:       stats,
		closingCfg:  closingCfg,
		now:         time.Now,
	}
}

// Build assembles a fresh snapshot for the department and selected range.
// The window is the selected range widened to full Sunday–Saturday weeks so
// closing math always sees whole weeks.
func (b *SnapshotBuilder) Build(ctx context.Context, departmentID uuid.UUID, selected domain.DateRange) (*domain.PlanningSnapshot, error) {
	window := selected.ExpandToWeeks()
	fridayTimes := domain.FridaysIn(window)
	fridays := make([]domain.DateKey, 0, len(fridayTimes))
	for _, f := range fridayTimes {
		fridays = append(fridays, domain.NewDateKey(f))
	}

	workers, err := b.workers.FindByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("load workers: %w", err)
	}
	duties, err := b.duties.FindByDepartmentAndRange(ctx, departmentID, window)
	if err != nil {
		return nil, fmt.Errorf("load primary duties: %w", err)
	}
	preferences, err := b.preferences.FindByDepartmentAndRange(ctx, departmentID, window)
	if err != nil {
		return nil, fmt.Errorf("load preferences: %w", err)
	}
	stats, err := b.stats.FindByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("load statistics: %w", err)
	}

	dutiesByWorker := make(map[string][]domain.PrimaryDuty)
	for _, d := range duties {
		dutiesByWorker[d.WorkerID] = append(dutiesByWorker[d.WorkerID], d)
	}
	prefsByWorker := make(map[string][]domain.Preference)
	for _, p := range preferences {
		prefsByWorker[p.WorkerID] = append(prefsByWorker[p.WorkerID], p)
	}

	snapshot := &domain.PlanningSnapshot{
		GeneratedAt:   b.now(),
		DepartmentID:  departmentID,
		SelectedRange: selected,
		Window:        window,
		Fridays:       fridays,
		Stats:         stats,
		Workers:       make(map[string]domain.WorkerSnapshot, len(workers)),
	}

	for _, w := range workers {
		id := w.ID().String()
		busy, mandatory := dutyDerived(dutiesByWorker[id], window)

		lastClosing := domain.DateKey("")
		if last, err := b.duties.LastClosingFriday(ctx, id, window.Start); err != nil {
			return nil, fmt.Errorf("load last closing for %s: %w", id, err)
		} else if !last.IsZero() {
			lastClosing = domain.NewDateKey(last)
		}

		mandatoryTimes := make([]time.Time, 0, len(mandatory))
		for _, m := range mandatory {
			if t, err := domain.ParseDateKey(m); err == nil {
				mandatoryTimes = append(mandatoryTimes, t)
			}
		}
		closing := domain.CalculateWorkerSchedule(domain.ClosingInput{
			WorkerID:              id,
			WorkerName:            w.DisplayName(),
			ClosingInterval:       w.ClosingInterval(),
			MandatoryClosingDates: mandatoryTimes,
		}, fridayTimes, b.closingCfg)

		optimal := make([]domain.DateKey, 0, len(closing.OptimalDates))
		for _, d := range closing.OptimalDates {
			optimal = append(optimal, domain.NewDateKey(d))
		}

		snapshot.Workers[id] = domain.WorkerSnapshot{
			Profile: domain.WorkerProfile{
				FirstName:       w.FirstName(),
				LastName:        w.LastName(),
				ClosingInterval: w.ClosingInterval(),
				Qualifications:  w.Qualifications(),
			},
			PrimaryBusyDays:       busy,
			LastClosingFriday:     lastClosing,
			MandatoryClosingDates: mandatory,
			OptimalClosingDates:   optimal,
			Preferences:           prefsByWorker[id],
		}
	}

	return snapshot, nil
}

// dutyDerived flattens a worker's duties into in-window busy days and the
// mandatory closing Fridays forced by weekend-spanning duty.
func dutyDerived(duties []domain.PrimaryDuty, window domain.DateRange) (busy, mandatory []domain.DateKey) {
	busySeen := make(map[domain.DateKey]bool)
	mandSeen := make(map[domain.DateKey]bool)
	for _, d := range duties {
		for _, day := range d.Days() {
			if !window.Contains(day) {
				continue
			}
			key := domain.NewDateKey(day)
			if !busySeen[key] {
				busySeen[key] = true
				busy = append(busy, key)
			}
		}
		for _, friday := range d.MandatoryFridays() {
			if !window.Contains(friday) {
				continue
			}
			key := domain.NewDateKey(friday)
			if !mandSeen[key] {
				mandSeen[key] = true
				mandatory = append(mandatory, key)
			}
		}
	}
	sortDateKeys(busy)
	sortDateKeys(mandatory)
	return busy, mandatory
}

func sortDateKeys(keys []domain.DateKey) {
	sort.Slice(keys, func(i, j int) bool {
		a, errA := domain.ParseDateKey(keys[i])
		b, errB := domain.ParseDateKey(keys[j])
		if errA != nil || errB != nil {
			return keys[i] < keys[j]
		}
		return a.Before(b)
	})
}
