package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
)

var (
	// ErrSnapshotMissing means the engine was invoked without a planning
	// snapshot; the caller must build one first.
	ErrSnapshotMissing = errors.New("planning snapshot missing")
	// ErrSnapshotStale means the snapshot outlived its TTL; the caller
	// must rebuild it before planning.
	ErrSnapshotStale = errors.New("planning snapshot stale")
)

// neverClosedWeeks stands in for "has never closed" in due-date math.
const neverClosedWeeks = 9999

// CloserReason explains why a worker was picked as a weekend closer.
type CloserReason string

const (
	// ReasonOnOptimal marks a closer picked on one of their optimal dates.
	ReasonOnOptimal CloserReason = "on_optimal"
	// ReasonMissedOptimal marks a closer who let an optimal date pass
	// without closing.
	ReasonMissedOptimal CloserReason = "missed_optimal"
	// ReasonDue marks a closer whose interval has fully elapsed.
	ReasonDue CloserReason = "due"
	// ReasonFairness marks a closer picked purely to cover demand.
	ReasonFairness CloserReason = "fairness"
)

// CloserPick is one assigned weekend closer with the reason for the pick.
type CloserPick struct {
	WorkerID string
	Reason   CloserReason
}

// FridayClosers describes the closing crew of one weekend.
type FridayClosers struct {
	// Forced closers hold a mandatory closing date on this Friday.
	Forced []string
	// Assigned closers were picked by ranking to cover the remainder.
	Assigned []CloserPick
	// RequiredCount is how many closers the weekend task load demands.
	RequiredCount int
}

// Plan is the full output of one engine run.
type Plan struct {
	ClosersByFriday map[domain.DateKey]FridayClosers
	Assignments     []domain.Assignment
	Warnings        []string
	Logs            []string
}

// PlanOptions tunes a single engine run.
type PlanOptions struct {
	// WeeklyCapSequence is the progressive per-worker weekly ceiling;
	// the planner retries unfilled cells at each higher cap.
	WeeklyCapSequence []int
	// ScarcityThreshold bounds the scarcity bonus in candidate scoring.
	ScarcityThreshold int
	// IncludeManualOnlyTasks also plans tasks without auto-assign. By
	// default those tasks are left to the roster manager, so the zero
	// value of PlanOptions carries the production defaults.
	IncludeManualOnlyTasks bool
}

// DefaultPlanOptions returns the production defaults.
func DefaultPlanOptions() PlanOptions {
	return PlanOptions{
		WeeklyCapSequence: []int{0, 1, 2, 3},
		ScarcityThreshold: 3,
	}
}

func (o PlanOptions) normalized() PlanOptions {
	defaults := DefaultPlanOptions()
	if len(o.WeeklyCapSequence) == 0 {
		o.WeeklyCapSequence = defaults.WeeklyCapSequence
	}
	if o.ScarcityThreshold == 0 {
		o.ScarcityThreshold = defaults.ScarcityThreshold
	}
	return o
}

// PlanEngine produces a secondary-task plan from a planning snapshot. The
// engine is stateless and side-effect free: all per-run counters live in an
// accumulator created fresh per call, so concurrent runs for different
// departments need no locking.
type PlanEngine struct {
	now func() time.Time
}

// NewPlanEngine creates a plan engine.
func NewPlanEngine() *PlanEngine {
	return &PlanEngine{now: time.Now}
}

// planState is the per-run accumulator threaded through all three phases.
type planState struct {
	snap *domain.PlanningSnapshot
	// totalCount tracks per-worker secondary totals, seeded from the
	// department statistics and incremented per assignment.
	totalCount map[string]int
	// weekCount tracks per-worker assignments per Sunday-keyed week.
	weekCount map[domain.DateKey]map[string]int
	// dayOccupied tracks which workers already hold an assignment on a
	// day; one secondary assignment per worker per day.
	dayOccupied map[domain.DateKey]map[string]bool
	// cellFilled tracks filled roster cells by cell key.
	cellFilled map[string]bool
	// closers tracks per-Friday closer selection.
	closers map[domain.DateKey]*fridayState
	// workerIDs is the deterministic iteration order.
	workerIDs []string
}

type fridayState struct {
	forced        []string
	assigned      []CloserPick
	requiredCount int
}

func newPlanState(snap *domain.PlanningSnapshot) *planState {
	ids := make([]string, 0, len(snap.Workers))
	for id := range snap.Workers {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	totals := make(map[string]int, len(ids))
	for _, id := range ids {
		totals[id] = snap.StatsFor(id).TotalSecondary
	}

	return &planState{
		snap:        snap,
		totalCount:  totals,
		weekCount:   make(map[domain.DateKey]map[string]int),
		dayOccupied: make(map[domain.DateKey]map[string]bool),
		cellFilled:  make(map[string]bool),
		closers:     make(map[domain.DateKey]*fridayState),
		workerIDs:   ids,
	}
}

func (s *planState) weeklyCount(day time.Time, workerID string) int {
	week := domain.NewDateKey(domain.WeekStart(day))
	return s.weekCount[week][workerID]
}

func (s *planState) occupied(day domain.DateKey, workerID string) bool {
	return s.dayOccupied[day][workerID]
}

func (s *planState) record(a domain.Assignment, day time.Time) {
	week := domain.NewDateKey(domain.WeekStart(day))
	if s.weekCount[week] == nil {
		s.weekCount[week] = make(map[string]int)
	}
	s.weekCount[week][a.WorkerID]++
	if s.dayOccupied[a.Date] == nil {
		s.dayOccupied[a.Date] = make(map[string]bool)
	}
	s.dayOccupied[a.Date][a.WorkerID] = true
	s.cellFilled[a.CellKey()] = true
	s.totalCount[a.WorkerID]++
}

// closedOn reports whether the worker closes the given Friday according to
// this run's selection (forced or assigned).
func (s *planState) closedOn(workerID string, friday domain.DateKey) bool {
	fs, ok := s.closers[friday]
	if !ok {
		return false
	}
	for _, id := range fs.forced {
		if id == workerID {
			return true
		}
	}
	for _, pick := range fs.assigned {
		if pick.WorkerID == workerID {
			return true
		}
	}
	return false
}

// Generate produces a plan for the selected range. It fails only when the
// snapshot is missing or older than its TTL; every business-rule shortfall
// is reported through the plan's warnings instead, so a partial reviewable
// plan always comes back.
func (e *PlanEngine) Generate(
	snap *domain.PlanningSnapshot,
	selected domain.DateRange,
	tasks []domain.SecondaryTask,
	opts PlanOptions,
) (*Plan, error) {
	if snap == nil {
		return nil, ErrSnapshotMissing
	}
	if snap.Expired(e.now()) {
		return nil, fmt.Errorf("%w: generated at %s", ErrSnapshotStale, snap.GeneratedAt.Format(time.RFC3339))
	}

	opts = opts.normalized()
	state := newPlanState(snap)
	plan := &Plan{ClosersByFriday: make(map[domain.DateKey]FridayClosers)}

	active := make([]domain.SecondaryTask, 0, len(tasks))
	requiredClosers := 0
	for _, t := range tasks {
		if t.AssignWeekends && t.AutoAssign {
			requiredClosers++
		}
		if !opts.IncludeManualOnlyTasks && !t.AutoAssign {
			plan.Logs = append(plan.Logs, fmt.Sprintf("task %s is manual-only; skipped", t.ID))
			continue
		}
		active = append(active, t)
	}
	active = domain.SortTasksByScarcity(active, snap.Workers)

	var weekendTasks []domain.SecondaryTask
	for _, t := range active {
		if t.AssignWeekends {
			weekendTasks = append(weekendTasks, t)
		}
	}

	rangeFridays := e.fridaysInRange(snap, selected)

	// Phase A: weekend closer selection.
	for _, friday := range rangeFridays {
		e.selectClosers(state, plan, friday, requiredClosers)
	}

	// Phase B: weekend triads, scarcest task first.
	for _, friday := range rangeFridays {
		for _, task := range weekendTasks {
			e.assignTriad(state, plan, friday, task, opts, selected)
		}
	}

	// Phase C: weekday fill and leftover weekend cells.
	e.fillDays(state, plan, selected, active, opts)

	for key, fs := range state.closers {
		plan.ClosersByFriday[key] = FridayClosers{
			Forced:        fs.forced,
			Assigned:      fs.assigned,
			RequiredCount: fs.requiredCount,
		}
	}

	e.audit(snap, plan)

	return plan, nil
}

// fridaysInRange resolves the snapshot Fridays that fall inside the
// selected range, preserving window order.
func (e *PlanEngine) fridaysInRange(snap *domain.PlanningSnapshot, selected domain.DateRange) []domain.DateKey {
	var fridays []domain.DateKey
	for _, key := range snap.Fridays {
		day, err := domain.ParseDateKey(key)
		if err != nil {
			continue
		}
		if selected.Contains(day) {
			fridays = append(fridays, key)
		}
	}
	return fridays
}

// closerCandidate carries the ranking inputs for one potential closer.
type closerCandidate struct {
	workerID      string
	onOptimal     bool
	missed        bool
	weeksUntilDue int
	accuracy      float64
	total         int
}

// selectClosers runs Phase A for one Friday.
func (e *PlanEngine) selectClosers(state *planState, plan *Plan, friday domain.DateKey, required int) {
	snap := state.snap
	fs := &fridayState{requiredCount: required}
	state.closers[friday] = fs

	for _, id := range state.workerIDs {
		if snap.Workers[id].HasMandatoryClosing(friday) {
			fs.forced = append(fs.forced, id)
		}
	}

	fridayIdx, inWindow := snap.WeekIndexOf(friday)
	prevFriday := domain.DateKey("")
	if inWindow && fridayIdx > 1 {
		prevFriday = snap.Fridays[fridayIdx-2]
	}

	var candidates []closerCandidate
	for _, id := range state.workerIDs {
		ws := snap.Workers[id]
		if ws.Profile.ClosingInterval == 0 {
			continue
		}
		if ws.HasMandatoryClosing(friday) {
			continue
		}
		if e.spansWeekend(ws, friday) {
			continue
		}
		if prevFriday != "" && e.closedOnFriday(state, ws, id, prevFriday) {
			continue
		}

		interval := domain.ClampClosingInterval(ws.Profile.ClosingInterval)
		weeksSince := e.weeksSinceLastClose(state, ws, id, fridayIdx)
		weeksUntilDue := interval - weeksSince
		if weeksUntilDue < 0 {
			weeksUntilDue = 0
		}
		stats := snap.StatsFor(id)
		candidates = append(candidates, closerCandidate{
			workerID:      id,
			onOptimal:     ws.HasOptimalClosing(friday),
			missed:        e.missedOptimal(snap, ws, fridayIdx, weeksSince),
			weeksUntilDue: weeksUntilDue,
			accuracy:      stats.ClosingAccuracyPct,
			total:         state.totalCount[id],
		})
	}

	var onOptimal, rest []closerCandidate
	for _, c := range candidates {
		if c.onOptimal {
			onOptimal = append(onOptimal, c)
		} else {
			rest = append(rest, c)
		}
	}
	rankClosers(onOptimal)
	rankClosers(rest)
	ranked := append(onOptimal, rest...)

	take := required - len(fs.forced)
	if take < 0 {
		take = 0
	}
	for i := 0; i < take && i < len(ranked); i++ {
		c := ranked[i]
		fs.assigned = append(fs.assigned, CloserPick{WorkerID: c.workerID, Reason: c.reason()})
	}

	plan.Logs = append(plan.Logs, fmt.Sprintf(
		"closers %s: %d forced, %d assigned of %d required",
		friday, len(fs.forced), len(fs.assigned), required))

	if len(fs.forced)+len(fs.assigned) < required {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"closing shortfall on %s: %d closers required, only %d available",
			friday, required, len(fs.forced)+len(fs.assigned)))
	}
}

func (c closerCandidate) reason() CloserReason {
	switch {
	case c.onOptimal:
		return ReasonOnOptimal
	case c.missed:
		return ReasonMissedOptimal
	case c.weeksUntilDue == 0:
		return ReasonDue
	default:
		return ReasonFairness
	}
}

// rankClosers orders candidates by missed first, then weeks until due,
// then closing accuracy, then total load, then worker id.
func rankClosers(candidates []closerCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.missed != b.missed {
			return a.missed
		}
		if a.weeksUntilDue != b.weeksUntilDue {
			return a.weeksUntilDue < b.weeksUntilDue
		}
		if a.accuracy != b.accuracy {
			return a.accuracy < b.accuracy
		}
		if a.total != b.total {
			return a.total < b.total
		}
		return a.workerID < b.workerID
	})
}

// spansWeekend reports a primary duty occupying the Friday or Saturday of
// the weekend.
func (e *PlanEngine) spansWeekend(ws domain.WorkerSnapshot, friday domain.DateKey) bool {
	day, err := domain.ParseDateKey(friday)
	if err != nil {
		return false
	}
	return ws.IsBusyOn(friday) || ws.IsBusyOn(domain.NewDateKey(day.AddDate(0, 0, 1)))
}

// closedOnFriday reports whether the worker closes (or closed) the given
// Friday, looking at this run's selection, mandatory dates, and the
// persisted last closing.
func (e *PlanEngine) closedOnFriday(state *planState, ws domain.WorkerSnapshot, workerID string, friday domain.DateKey) bool {
	if state.closedOn(workerID, friday) {
		return true
	}
	if ws.HasMandatoryClosing(friday) {
		return true
	}
	return ws.LastClosingFriday == friday
}

// weeksSinceLastClose walks backward from the Friday through this run's
// assigned-closer history, then the persisted last closing, then mandatory
// history, defaulting to neverClosedWeeks.
func (e *PlanEngine) weeksSinceLastClose(state *planState, ws domain.WorkerSnapshot, workerID string, fridayIdx int) int {
	snap := state.snap
	for j := fridayIdx - 1; j >= 1; j-- {
		if state.closedOn(workerID, snap.Fridays[j-1]) {
			return fridayIdx - j
		}
	}

	if ws.LastClosingFriday != "" {
		if k, ok := snap.WeekIndexOf(ws.LastClosingFriday); ok && k < fridayIdx {
			return fridayIdx - k
		}
		if last, err := domain.ParseDateKey(ws.LastClosingFriday); err == nil && fridayIdx >= 1 && fridayIdx <= len(snap.Fridays) {
			if current, err := domain.ParseDateKey(snap.Fridays[fridayIdx-1]); err == nil {
				if days := int(current.Sub(last).Hours() / 24); days > 0 {
					return days / 7
				}
			}
		}
	}

	best := 0
	for _, m := range ws.MandatoryClosingDates {
		if k, ok := snap.WeekIndexOf(m); ok && k < fridayIdx && k > best {
			best = k
		}
	}
	if best > 0 {
		return fridayIdx - best
	}

	return neverClosedWeeks
}

// missedOptimal reports whether an optimal date passed since the worker's
// last close without an actual close.
func (e *PlanEngine) missedOptimal(snap *domain.PlanningSnapshot, ws domain.WorkerSnapshot, fridayIdx, weeksSince int) bool {
	lastCloseWeek := fridayIdx - weeksSince
	for _, o := range ws.OptimalClosingDates {
		k, ok := snap.WeekIndexOf(o)
		if !ok {
			continue
		}
		if k < fridayIdx && k > lastCloseWeek {
			return true
		}
	}
	return false
}

// assignTriad runs Phase B for one weekend task on one Friday: the chosen
// worker covers Thursday, Friday and Saturday as a single unit, clipped to
// the selected range.
func (e *PlanEngine) assignTriad(
	state *planState,
	plan *Plan,
	friday domain.DateKey,
	task domain.SecondaryTask,
	opts PlanOptions,
	selected domain.DateRange,
) {
	snap := state.snap
	fridayDay, err := domain.ParseDateKey(friday)
	if err != nil {
		return
	}

	var triad []time.Time
	for _, offset := range []int{-1, 0, 1} {
		day := fridayDay.AddDate(0, 0, offset)
		if selected.Contains(day) {
			triad = append(triad, day)
		}
	}
	if len(triad) == 0 {
		return
	}

	unfilled := false
	for _, day := range triad {
		cell := domain.Assignment{Date: domain.NewDateKey(day), TaskID: task.ID}
		if !state.cellFilled[cell.CellKey()] {
			unfilled = true
			break
		}
	}
	if !unfilled {
		return
	}

	fs := state.closers[friday]

	eligible := func(workerID string, cap int) bool {
		ws := snap.Workers[workerID]
		if task.RequiresQualification && !ws.Profile.IsQualifiedFor(task.ID) {
			return false
		}
		if e.spansWeekend(ws, friday) {
			return false
		}
		if ws.HasMandatoryClosing(friday) {
			return false
		}
		for _, day := range triad {
			key := domain.NewDateKey(day)
			if state.occupied(key, workerID) {
				return false
			}
			if ws.BlockedFor(key, task.ID) {
				return false
			}
		}
		return state.weeklyCount(fridayDay, workerID) <= cap
	}

	// Assigned closers get first claim on the weekend triads, in ranking
	// order; everyone else competes through the fallback score.
	var chosen string
	for _, cap := range opts.WeeklyCapSequence {
		if fs != nil {
			for _, pick := range fs.assigned {
				if eligible(pick.WorkerID, cap) {
					chosen = pick.WorkerID
					break
				}
			}
		}
		if chosen == "" {
			chosen = e.bestScored(state, triadPreferred(snap, triad, task), task, fridayDay, cap, opts, eligible)
		}
		if chosen != "" {
			break
		}
	}

	if chosen == "" {
		plan.Warnings = append(plan.Warnings, fmt.Sprintf(
			"no candidate for weekend task %s on %s", task.ID, friday))
		return
	}

	for _, day := range triad {
		key := domain.NewDateKey(day)
		if snap.Workers[chosen].IsBusyOn(key) {
			// Structurally unreachable: the weekend-span filter already
			// excluded busy workers.
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"unexpected primary conflict for %s on %s; day skipped", chosen, key))
			continue
		}
		a := domain.Assignment{Date: key, TaskID: task.ID, WorkerID: chosen}
		plan.Assignments = append(plan.Assignments, a)
		state.record(a, day)
	}
	plan.Logs = append(plan.Logs, fmt.Sprintf(
		"weekend task %s on %s assigned to %s", task.ID, friday, chosen))
}

// triadPreferred builds the preferred-cell predicate for a triad.
func triadPreferred(snap *domain.PlanningSnapshot, triad []time.Time, task domain.SecondaryTask) func(string) bool {
	return func(workerID string) bool {
		ws := snap.Workers[workerID]
		for _, day := range triad {
			if ws.Prefers(domain.NewDateKey(day), task.ID) {
				return true
			}
		}
		return false
	}
}

// bestScored scans every worker under the given cap and returns the highest
// scorer, tie-broken by worker id through the ascending scan order.
func (e *PlanEngine) bestScored(
	state *planState,
	preferred func(string) bool,
	task domain.SecondaryTask,
	day time.Time,
	cap int,
	opts PlanOptions,
	eligible func(string, int) bool,
) string {
	best := ""
	bestScore := 0
	for _, id := range state.workerIDs {
		if !eligible(id, cap) {
			continue
		}
		score := e.score(state, preferred(id), task, day, id, cap, opts)
		if best == "" || score > bestScore {
			best = id
			bestScore = score
		}
	}
	return best
}

// score implements the fallback candidate score. The constants are
// long-standing roster tunables and are deliberately not configurable.
func (e *PlanEngine) score(state *planState, preferred bool, task domain.SecondaryTask, day time.Time, workerID string, cap int, opts PlanOptions) int {
	score := 0
	if preferred {
		score += 2
	}
	qualified := task.QualifiedCount(state.snap.Workers)
	if bonus := opts.ScarcityThreshold + 1 - qualified; bonus > 0 {
		score += bonus
	}
	score += cap - state.weeklyCount(day, workerID)
	total := state.totalCount[workerID]
	if total > 5 {
		total = 5
	}
	score += 5 - total
	return score
}

// fillDays runs Phase C: weekday cells plus weekend cells a triad left
// open, day by day, relaxing the weekly cap progressively so nobody gets a
// second assignment while an unassigned worker remains under a lower cap.
func (e *PlanEngine) fillDays(
	state *planState,
	plan *Plan,
	selected domain.DateRange,
	tasks []domain.SecondaryTask,
	opts PlanOptions,
) {
	snap := state.snap

	for _, day := range selected.Days() {
		dayKey := domain.NewDateKey(day)
		weekend := domain.IsWeekendDay(day)
		friday := domain.NewDateKey(domain.FridayOf(day))

		for _, cap := range opts.WeeklyCapSequence {
			for _, task := range tasks {
				if task.AssignWeekends != weekend {
					continue
				}
				cell := domain.Assignment{Date: dayKey, TaskID: task.ID}
				if state.cellFilled[cell.CellKey()] {
					continue
				}

				eligible := func(workerID string, cap int) bool {
					ws := snap.Workers[workerID]
					if task.RequiresQualification && !ws.Profile.IsQualifiedFor(task.ID) {
						return false
					}
					if ws.IsBusyOn(dayKey) {
						return false
					}
					if state.occupied(dayKey, workerID) {
						return false
					}
					if weekend {
						if ws.HasMandatoryClosing(friday) || e.spansWeekend(ws, friday) {
							return false
						}
					}
					if ws.BlockedFor(dayKey, task.ID) {
						return false
					}
					return state.weeklyCount(day, workerID) <= cap
				}

				preferred := func(workerID string) bool {
					return snap.Workers[workerID].Prefers(dayKey, task.ID)
				}

				chosen := e.bestScored(state, preferred, task, day, cap, opts, eligible)
				if chosen == "" {
					continue
				}

				a := domain.Assignment{Date: dayKey, TaskID: task.ID, WorkerID: chosen}
				plan.Assignments = append(plan.Assignments, a)
				state.record(a, day)
			}
		}
	}
}

// audit re-verifies the finished plan against primary conflicts and blocked
// preferences. Upstream filtering is trusted; anomalies are reported as
// warnings, never raised.
func (e *PlanEngine) audit(snap *domain.PlanningSnapshot, plan *Plan) {
	for _, a := range plan.Assignments {
		ws, ok := snap.Workers[a.WorkerID]
		if !ok {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"assignment references unknown worker %s", a.WorkerID))
			continue
		}
		if ws.IsBusyOn(a.Date) {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"audit: %s holds %s on %s despite a primary conflict", a.WorkerID, a.TaskID, a.Date))
		}
		if ws.BlockedFor(a.Date, a.TaskID) {
			plan.Warnings = append(plan.Warnings, fmt.Sprintf(
				"audit: %s holds %s on %s despite a blocked preference", a.WorkerID, a.TaskID, a.Date))
		}
	}
}
