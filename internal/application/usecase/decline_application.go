package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// DeclineApplicationUseCase rejects a nueva request and records a rechazada
// loan shell so the decision shows up in loan listings.
type DeclineApplicationUseCase struct {
	appRepo   port.LoanApplicationRepository
	loanRepo  port.LoanRepository
	tx        port.TxManager
	publisher port.EventPublisher
	evaluator *service.StatusEvaluator
}

// NewDeclineApplicationUseCase wires dependencies.
func NewDeclineApplicationUseCase(
	appRepo port.LoanApplicationRepository,
	loanRepo port.LoanRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *DeclineApplicationUseCase {
	return &DeclineApplicationUseCase{
		appRepo:   appRepo,
		loanRepo:  loanRepo,
		tx:        tx,
		publisher: publisher,
		evaluator: evaluator,
	}
}

// Execute declines the application.
func (uc *DeclineApplicationUseCase) Execute(
	ctx context.Context,
	req dto.DeclineApplicationRequest,
) (dto.DeclineApplicationResponse, error) {
	now := uc.evaluator.Now()

	var (
		declined model.LoanApplication
		shell    model.Loan
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		app, err := uc.appRepo.FindByID(ctx, req.ApplicationID)
		if err != nil {
			return fmt.Errorf("find application: %w", err)
		}

		shell, err = model.NewRejectedLoan(app.ID(), app.RequestedAmount(), now)
		if err != nil {
			return fmt.Errorf("create loan: %w", err)
		}
		declined, err = app.Decline(shell.ID(), now)
		if err != nil {
			return fmt.Errorf("decline application: %w", err)
		}

		if err := uc.loanRepo.Create(ctx, shell); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if err := uc.appRepo.UpdateStatus(ctx, declined); err != nil {
			return fmt.Errorf("save application: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.DeclineApplicationResponse{}, err
	}

	if err := uc.publisher.Publish(ctx, declined.DomainEvents()...); err != nil {
		return dto.DeclineApplicationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return dto.DeclineApplicationResponse{
		ApplicationID: declined.ID(),
		LoanID:        shell.ID(),
		Status:        declined.Status().String(),
	}, nil
}
