package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/shiftward/internal/roster/domain"
	"github.com/felixgeelhaar/shiftward/internal/shared/infrastructure/eventbus"
	"github.com/google/uuid"
)

// SnapshotCache stores planning snapshots between the build and the plan
// run. Implementations return a nil snapshot on a miss; any error is
// treated by the service as a miss so an unreachable cache never blocks
// planning.
type SnapshotCache interface {
	Get(ctx context.Context, departmentID uuid.UUID, r domain.DateRange) (*domain.PlanningSnapshot, error)
	Put(ctx context.Context, snapshot *domain.PlanningSnapshot) error
}

// PlanResult bundles the generated plan with the persisted diff.
type PlanResult struct {
	Plan           *Plan
	ChangedWorkers []string
}

// PlanService orchestrates a full planning run: snapshot, engine,
// persistence, change detection, event publication.
type PlanService struct {
	builder     *SnapshotBuilder
	engine      *PlanEngine
	cache       SnapshotCache
	tasks       domain.TaskRepository
	assignments domain.AssignmentRepository
	publisher   eventbus.Publisher
	logger      *slog.Logger
	now         func() time.Time
}

// NewPlanService creates a plan service.
func NewPlanService(
	builder *SnapshotBuilder,
	engine *PlanEngine,
	cache SnapshotCache,
	tasks domain.TaskRepository,
	assignments domain.AssignmentRepository,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *PlanService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlanService{
		builder:     builder,
		engine:      engine,
		cache:       cache,
		tasks:       tasks,
		assignments: assignments,
		publisher:   publisher,
		logger:      logger,
		now:         time.Now,
	}
}

// GeneratePlan plans the selected range for a department and persists the
// result. With refresh set, the cached snapshot is ignored and rebuilt.
func (s *PlanService) GeneratePlan(
	ctx context.Context,
	departmentID uuid.UUID,
	selected domain.DateRange,
	opts PlanOptions,
	refresh bool,
) (*PlanResult, error) {
	snapshot, err := s.resolveSnapshot(ctx, departmentID, selected, refresh)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.FindByDepartment(ctx, departmentID)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	plan, err := s.engine.Generate(snapshot, selected, tasks, opts)
	if err != nil {
		return nil, err
	}

	previous, err := s.assignments.FindByDepartmentAndRange(ctx, departmentID, selected)
	if err != nil {
		return nil, fmt.Errorf("load previous assignments: %w", err)
	}
	if err := s.assignments.ReplaceRange(ctx, departmentID, selected, plan.Assignments); err != nil {
		return nil, fmt.Errorf("persist assignments: %w", err)
	}

	changedSet := domain.DetectChangedWorkers(
		domain.NewAssignmentMap(previous),
		domain.NewAssignmentMap(plan.Assignments),
	)
	changed := domain.SortedWorkerIDs(changedSet)

	s.publishPlanGenerated(ctx, departmentID, selected, plan, changed)

	s.logger.Info("plan generated",
		"department", departmentID.String(),
		"assignments", len(plan.Assignments),
		"warnings", len(plan.Warnings),
		"changed_workers", len(changed),
	)

	return &PlanResult{Plan: plan, ChangedWorkers: changed}, nil
}

// resolveSnapshot fetches a usable snapshot from the cache or rebuilds one.
// Cache failures degrade to a rebuild; they never fail the run.
func (s *PlanService) resolveSnapshot(
	ctx context.Context,
	departmentID uuid.UUID,
	selected domain.DateRange,
	refresh bool,
) (*domain.PlanningSnapshot, error) {
	if !refresh && s.cache != nil {
		snapshot, err := s.cache.Get(ctx, departmentID, selected)
		if err != nil {
			s.logger.Warn("snapshot cache unavailable; rebuilding", "error", err)
		} else if snapshot != nil && !snapshot.Expired(s.now()) {
			return snapshot, nil
		}
	}

	snapshot, err := s.builder.Build(ctx, departmentID, selected)
	if err != nil {
		return nil, fmt.Errorf("build snapshot: %w", err)
	}
	if s.cache != nil {
		if err := s.cache.Put(ctx, snapshot); err != nil {
			s.logger.Warn("failed to cache snapshot", "error", err)
		}
	}
	return snapshot, nil
}

func (s *PlanService) publishPlanGenerated(
	ctx context.Context,
	departmentID uuid.UUID,
	selected domain.DateRange,
	plan *Plan,
	changed []string,
) {
	if s.publisher == nil {
		return
	}
	event := domain.NewPlanGenerated(departmentID, selected, len(plan.Assignments), len(plan.Warnings), changed)
	payload, err := json.Marshal(map[string]any{
		"event_id":        event.EventID().String(),
		"department_id":   event.DepartmentID.String(),
		"range_start":     event.RangeStart,
		"range_end":       event.RangeEnd,
		"assignments":     event.AssignmentCount,
		"warnings":        event.WarningCount,
		"changed_workers": event.ChangedWorkers,
		"occurred_at":     event.OccurredAt().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("failed to encode plan event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
		s.logger.Warn("failed to publish plan event", "error", err)
	}
}
