package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// DeleteLoanUseCase removes a loan together with its schedule and payments.
type DeleteLoanUseCase struct {
	loanRepo  port.LoanRepository
	publisher port.EventPublisher
	evaluator *service.StatusEvaluator
}

// NewDeleteLoanUseCase wires dependencies.
func NewDeleteLoanUseCase(
	loanRepo port.LoanRepository,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *DeleteLoanUseCase {
	return &DeleteLoanUseCase{
		loanRepo:  loanRepo,
		publisher: publisher,
		evaluator: evaluator,
	}
}

// Execute deletes the loan identified by loanID.
func (uc *DeleteLoanUseCase) Execute(ctx context.Context, loanID string) error {
	loan, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return fmt.Errorf("find loan: %w", err)
	}
	if err := uc.loanRepo.Delete(ctx, loan.ID()); err != nil {
		return fmt.Errorf("delete loan: %w", err)
	}

	deleted := loan.MarkDeleted(uc.evaluator.Now())
	if err := uc.publisher.Publish(ctx, deleted.DomainEvents()...); err != nil {
		return fmt.Errorf("publish events: %w", err)
	}
	return nil
}
