package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// ApproveApplicationUseCase turns a nueva request into an activa loan with a
// quincena schedule. Company assignment, loan creation and the application
// status change commit together.
type ApproveApplicationUseCase struct {
	appRepo     port.LoanApplicationRepository
	personRepo  port.PersonRepository
	companyRepo port.CompanyRepository
	loanRepo    port.LoanRepository
	tx          port.TxManager
	publisher   port.EventPublisher
	evaluator   *service.StatusEvaluator
}

// NewApproveApplicationUseCase wires dependencies.
func NewApproveApplicationUseCase(
	appRepo port.LoanApplicationRepository,
	personRepo port.PersonRepository,
	companyRepo port.CompanyRepository,
	loanRepo port.LoanRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *ApproveApplicationUseCase {
	return &ApproveApplicationUseCase{
		appRepo:     appRepo,
		personRepo:  personRepo,
		companyRepo: companyRepo,
		loanRepo:    loanRepo,
		tx:          tx,
		publisher:   publisher,
		evaluator:   evaluator,
	}
}

// Execute approves the application and creates its loan.
func (uc *ApproveApplicationUseCase) Execute(
	ctx context.Context,
	req dto.ApproveApplicationRequest,
) (dto.LoanResponse, error) {
	now := uc.evaluator.Now()
	firstDue := req.FirstDueDate
	if firstDue.IsZero() {
		firstDue = uc.evaluator.Today()
	}

	var (
		loan   model.Loan
		person model.Person
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		// 1. Retrieve and approve the application.
		app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}
		approved, err := app.Approve()
		if err != nil {
			return fmt.Errorf("approve application: %w", err)
		}

		// 2. Optionally link the borrower to a company.
		person, err = uc.personRepo.FindByID(ctx, app.PersonID())
		if err != nil {
			return fmt.Errorf("find person: %w", err)
		}
		if req.CompanyID != "" {
			if _, err := uc.companyRepo.FindByID(ctx, req.CompanyID); err != nil {
				return fmt.Errorf("find company: %w", err)
			}
			if err := uc.personRepo.UpdateCompany(ctx, person.ID(), req.CompanyID); err != nil {
				return fmt.Errorf("assign company: %w", err)
			}
			person = person.AssignCompany(req.CompanyID)
		}

		// 3. Generate the schedule and create the loan.
		loan, err = model.NewLoan(app.ID(), app.RequestedAmount(), req.TargetInterest,
			app.PeriodCount(), firstDue, now)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		if err := uc.loanRepo.Create(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}

		// 4. Mark the application approved.
		if err := uc.appRepo.UpdateStatus(ctx, approved); err != nil {
			return fmt.Errorf("save application: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.LoanResponse{}, err
	}

	// 5. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toLoanResponse(loan, person, uc.evaluator), nil
}
