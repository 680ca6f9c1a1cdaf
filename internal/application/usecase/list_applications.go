package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// ListApplicationsUseCase pages through loan requests with their borrowers.
type ListApplicationsUseCase struct {
	appRepo port.LoanApplicationRepository
}

// NewListApplicationsUseCase wires dependencies.
func NewListApplicationsUseCase(appRepo port.LoanApplicationRepository) *ListApplicationsUseCase {
	return &ListApplicationsUseCase{appRepo: appRepo}
}

// Execute returns one page of applications, newest first.
func (uc *ListApplicationsUseCase) Execute(
	ctx context.Context,
	req dto.ListApplicationsRequest,
) (dto.ApplicationListResponse, error) {
	filter := model.ApplicationFilter{
		CreatedFrom: req.CreatedFrom,
		CreatedTo:   req.CreatedTo,
		Page:        req.Page,
		Limit:       req.Limit,
	}.Normalize()

	if req.Status != "" {
		status, err := valueobject.NewApplicationStatus(req.Status)
		if err != nil {
			return dto.ApplicationListResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		filter.Status = status
	}
	if !filter.CreatedFrom.IsZero() && !filter.CreatedTo.IsZero() && filter.CreatedTo.Before(filter.CreatedFrom) {
		return dto.ApplicationListResponse{}, fmt.Errorf("%w: created_to is before created_from", model.ErrInvalidInput)
	}

	page, err := uc.appRepo.List(ctx, filter)
	if err != nil {
		return dto.ApplicationListResponse{}, fmt.Errorf("list applications: %w", err)
	}

	items := make([]dto.ApplicationResponse, 0, len(page.Items))
	for _, it := range page.Items {
		items = append(items, toApplicationResponse(it.Application, it.Borrower))
	}
	return dto.ApplicationListResponse{
		Items: items,
		Total: page.Total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
