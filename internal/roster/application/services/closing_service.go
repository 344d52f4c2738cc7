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

// ClosingService computes closing schedules for individual workers on
// demand, outside a full planning run.
type ClosingService struct {
	workers    domain.WorkerRepository
	duties     domain.DutyRepository
	closingCfg domain.ClosingConfig
	publisher  eventbus.Publisher
	logger     *slog.Logger
}

// NewClosingService creates a closing service.
func NewClosingService(
	workers domain.WorkerRepository,
	duties domain.DutyRepository,
	closingCfg domain.ClosingConfig,
	publisher eventbus.Publisher,
	logger *slog.Logger,
) *ClosingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClosingService{
		workers:    workers,
		duties:     duties,
		closingCfg: closingCfg,
		publisher:  publisher,
		logger:     logger,
	}
}

// ComputeForWorker calculates the worker's closing schedule over the
// Fridays of the given range.
func (s *ClosingService) ComputeForWorker(
	ctx context.Context,
	departmentID, workerID uuid.UUID,
	r domain.DateRange,
) (domain.ClosingResult, error) {
	worker, err := s.workers.FindByID(ctx, workerID)
	if err != nil {
		return domain.ClosingResult{}, fmt.Errorf("load worker: %w", err)
	}
	if worker == nil {
		return domain.ClosingResult{}, fmt.Errorf("worker %s not found", workerID)
	}

	window := r.ExpandToWeeks()
	duties, err := s.duties.FindByDepartmentAndRange(ctx, departmentID, window)
	if err != nil {
		return domain.ClosingResult{}, fmt.Errorf("load primary duties: %w", err)
	}

	var mandatory []time.Time
	for _, d := range duties {
		if d.WorkerID != workerID.String() {
			continue
		}
		mandatory = append(mandatory, d.MandatoryFridays()...)
	}

	result := domain.CalculateWorkerSchedule(domain.ClosingInput{
		WorkerID:              workerID.String(),
		WorkerName:            worker.DisplayName(),
		ClosingInterval:       worker.ClosingInterval(),
		MandatoryClosingDates: mandatory,
	}, domain.FridaysIn(window), s.closingCfg)

	s.publishComputed(ctx, departmentID, result)

	return result, nil
}

func (s *ClosingService) publishComputed(ctx context.Context, departmentID uuid.UUID, result domain.ClosingResult) {
	if s.publisher == nil {
		return
	}
	event := domain.NewClosingScheduleComputed(departmentID, result)
	payload, err := json.Marshal(map[string]any{
		"event_id":      event.EventID().String(),
		"department_id": event.DepartmentID.String(),
		"worker_id":     event.WorkerID,
		"required":      event.RequiredLen,
		"optimal":       event.OptimalLen,
		"occurred_at":   event.OccurredAt().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Warn("failed to encode closing event", "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, event.RoutingKey(), payload); err != nil {
		s.logger.Warn("failed to publish closing event", "error", err)
	}
}
