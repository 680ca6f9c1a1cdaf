package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// PreviewScheduleUseCase computes a schedule for the approval form without
// persisting anything.
type PreviewScheduleUseCase struct {
	evaluator *service.StatusEvaluator
}

// NewPreviewScheduleUseCase wires dependencies.
func NewPreviewScheduleUseCase(evaluator *service.StatusEvaluator) *PreviewScheduleUseCase {
	return &PreviewScheduleUseCase{evaluator: evaluator}
}

// Execute runs the generator.
func (uc *PreviewScheduleUseCase) Execute(
	_ context.Context,
	req dto.PreviewScheduleRequest,
) (dto.ScheduleResponse, error) {
	periods := req.PeriodCount
	if periods == 0 {
		periods = req.DurationMonths * 2
	}
	firstDue := req.FirstDueDate
	if firstDue.IsZero() {
		firstDue = uc.evaluator.Today()
	}

	plan, err := model.GenerateSchedule(req.Principal, req.TargetInterest, periods, firstDue)
	if err != nil {
		return dto.ScheduleResponse{}, fmt.Errorf("generate schedule: %w", err)
	}
	return toScheduleResponse(plan), nil
}
