package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// NextPaymentUseCase reports the earliest pending installment of a loan.
type NextPaymentUseCase struct {
	loanRepo port.LoanRepository
}

// NewNextPaymentUseCase wires dependencies.
func NewNextPaymentUseCase(loanRepo port.LoanRepository) *NextPaymentUseCase {
	return &NextPaymentUseCase{loanRepo: loanRepo}
}

// Execute returns period 0 and amount 0.00 when nothing is pending.
func (uc *NextPaymentUseCase) Execute(ctx context.Context, req dto.GetLoanRequest) (dto.NextPaymentResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.NextPaymentResponse{}, fmt.Errorf("find loan: %w", err)
	}

	resp := dto.NextPaymentResponse{LoanID: loan.ID(), Amount: decimal.Zero}
	if next, ok := loan.NextPendingInstallment(); ok {
		resp.PeriodIndex = next.PeriodIndex
		resp.Amount = next.Amount
		resp.DueDate = optionalDate(next.DueDate)
	}
	return resp, nil
}

// AvailableInstallmentsUseCase lists the installments that can still be paid.
type AvailableInstallmentsUseCase struct {
	loanRepo  port.LoanRepository
	evaluator *service.StatusEvaluator
}

// NewAvailableInstallmentsUseCase wires dependencies.
func NewAvailableInstallmentsUseCase(
	loanRepo port.LoanRepository,
	evaluator *service.StatusEvaluator,
) *AvailableInstallmentsUseCase {
	return &AvailableInstallmentsUseCase{loanRepo: loanRepo, evaluator: evaluator}
}

// Execute returns unpaid installments with stored and effective status.
func (uc *AvailableInstallmentsUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.AvailableInstallmentsResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.AvailableInstallmentsResponse{}, fmt.Errorf("find loan: %w", err)
	}
	return dto.AvailableInstallmentsResponse{
		LoanID:       loan.ID(),
		Installments: toInstallmentResponses(loan.UnpaidInstallments(), uc.evaluator),
	}, nil
}
