package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// SubmitApplicationUseCase registers a loan request. The borrower is looked
// up by cedula and created only when unknown; an existing record is never
// overwritten by the form data.
type SubmitApplicationUseCase struct {
	personRepo port.PersonRepository
	appRepo    port.LoanApplicationRepository
	tx         port.TxManager
	publisher  port.EventPublisher
	evaluator  *service.StatusEvaluator
}

// NewSubmitApplicationUseCase wires dependencies.
func NewSubmitApplicationUseCase(
	personRepo port.PersonRepository,
	appRepo port.LoanApplicationRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *SubmitApplicationUseCase {
	return &SubmitApplicationUseCase{
		personRepo: personRepo,
		appRepo:    appRepo,
		tx:         tx,
		publisher:  publisher,
		evaluator:  evaluator,
	}
}

// Execute stores the borrower (if new) and a nueva application.
func (uc *SubmitApplicationUseCase) Execute(
	ctx context.Context,
	req dto.SubmitApplicationRequest,
) (dto.ApplicationResponse, error) {
	now := uc.evaluator.Now()

	var (
		person model.Person
		app    model.LoanApplication
	)
	err := uc.tx.InTx(ctx, func(ctx context.Context) error {
		// 1. Find or create the borrower.
		var err error
		person, err = uc.personRepo.FindByCedula(ctx, req.Cedula)
		switch {
		case errors.Is(err, model.ErrNotFound):
			person, err = model.NewPerson(model.PersonDetails{
				Cedula:         req.Cedula,
				FirstName:      req.FirstName,
				LastName:       req.LastName,
				Email:          req.Email,
				Phone:          req.Phone,
				Address:        req.Address,
				CompanyID:      req.CompanyID,
				MonthlySalary:  req.MonthlySalary,
				MonthsEmployed: req.MonthsEmployed,
				ContractStart:  req.ContractStart,
			}, now)
			if err != nil {
				return fmt.Errorf("create person: %w", err)
			}
			if err := uc.personRepo.Save(ctx, person); err != nil {
				return fmt.Errorf("save person: %w", err)
			}
		case err != nil:
			return fmt.Errorf("find person: %w", err)
		}

		// 2. Create the application.
		app, err = model.NewLoanApplication(model.ApplicationRequest{
			PersonID:        person.ID(),
			RequestedAmount: req.RequestedAmount,
			DurationMonths:  req.DurationMonths,
			IDPhotoURLs:     req.IDPhotoURLs,
			BankAccount: model.BankAccount{
				Type:   req.BankAccountType,
				Number: req.BankAccountNumber,
				Bank:   req.BankName,
			},
			Employer: req.Employer,
		}, now)
		if err != nil {
			return fmt.Errorf("create application: %w", err)
		}
		if err := uc.appRepo.Save(ctx, app); err != nil {
			return fmt.Errorf("save application: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.ApplicationResponse{}, err
	}

	// 3. Publish events.
	if err := uc.publisher.Publish(ctx, app.DomainEvents()...); err != nil {
		return dto.ApplicationResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toApplicationResponse(app, person), nil
}
