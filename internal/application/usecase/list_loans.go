package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// ListLoansUseCase lists loans with their borrowers. Filtering by atrasada
// selects activa loans whose earliest pending installment is overdue.
type ListLoansUseCase struct {
	loanRepo  port.LoanRepository
	evaluator *service.StatusEvaluator
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository, evaluator *service.StatusEvaluator) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo, evaluator: evaluator}
}

// Execute returns the matching loans without schedules.
func (uc *ListLoansUseCase) Execute(
	ctx context.Context,
	req dto.ListLoansRequest,
) (dto.LoanListResponse, error) {
	var (
		filter   model.LoanFilter
		lateOnly bool
	)
	if req.Status != "" {
		status, err := valueobject.NewLoanStatus(req.Status)
		if err != nil {
			return dto.LoanListResponse{}, fmt.Errorf("%w: %v", model.ErrInvalidInput, err)
		}
		filter.Status = status
		if status.Equal(valueobject.LoanStatusLate) {
			filter.Status = valueobject.LoanStatusActive
			lateOnly = true
		}
	}

	items, err := uc.loanRepo.List(ctx, filter)
	if err != nil {
		return dto.LoanListResponse{}, fmt.Errorf("list loans: %w", err)
	}

	out := make([]dto.LoanResponse, 0, len(items))
	for _, it := range items {
		if lateOnly && !uc.evaluator.ListedLoanStatus(it.Loan).Equal(valueobject.LoanStatusLate) {
			continue
		}
		out = append(out, toListedLoanResponse(it.Loan, it.Borrower, uc.evaluator))
	}
	return dto.LoanListResponse{Items: out}, nil
}
