package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// GetLoanUseCase retrieves a loan with its schedule and borrower.
type GetLoanUseCase struct {
	loanRepo   port.LoanRepository
	appRepo    port.LoanApplicationRepository
	personRepo port.PersonRepository
	evaluator  *service.StatusEvaluator
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(
	loanRepo port.LoanRepository,
	appRepo port.LoanApplicationRepository,
	personRepo port.PersonRepository,
	evaluator *service.StatusEvaluator,
) *GetLoanUseCase {
	return &GetLoanUseCase{
		loanRepo:   loanRepo,
		appRepo:    appRepo,
		personRepo: personRepo,
		evaluator:  evaluator,
	}
}

// Execute returns the loan with effective statuses.
func (uc *GetLoanUseCase) Execute(
	ctx context.Context,
	req dto.GetLoanRequest,
) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, req.LoanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}
	app, err := uc.appRepo.FindByID(ctx, loan.ApplicationID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find application: %w", err)
	}
	person, err := uc.personRepo.FindByID(ctx, app.PersonID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find person: %w", err)
	}
	return toLoanResponse(loan, person, uc.evaluator), nil
}
