package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// ReversePaymentUseCase undoes a recorded payment and reopens its installment.
type ReversePaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	tx          port.TxManager
	publisher   port.EventPublisher
	evaluator   *service.StatusEvaluator
}

// NewReversePaymentUseCase wires dependencies.
func NewReversePaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *ReversePaymentUseCase {
	return &ReversePaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		publisher:   publisher,
		evaluator:   evaluator,
	}
}

// Execute reverses the payment.
func (uc *ReversePaymentUseCase) Execute(
	ctx context.Context,
	req dto.ReversePaymentRequest,
) (dto.PaymentResponse, error) {
	now := uc.evaluator.Now()

	var (
		loan     model.Loan
		reversed model.Payment
	)
	err := retryOnConflict(ctx, func() error {
		return uc.tx.InTx(ctx, func(ctx context.Context) error {
			// 1. Retrieve the payment and its loan.
			payment, err := uc.paymentRepo.FindByID(ctx, req.PaymentID)
			if err != nil {
				return fmt.Errorf("find payment: %w", err)
			}
			current, err := uc.loanRepo.FindByID(ctx, payment.LoanID())
			if err != nil {
				return fmt.Errorf("find loan: %w", err)
			}

			// 2. Undo the payment.
			loan, reversed, err = current.ReversePayment(payment, now)
			if err != nil {
				return fmt.Errorf("reverse payment: %w", err)
			}

			// 3. Persist loan and payment.
			if err := uc.loanRepo.Update(ctx, loan); err != nil {
				return fmt.Errorf("save loan: %w", err)
			}
			if err := uc.paymentRepo.MarkReversed(ctx, reversed); err != nil {
				return fmt.Errorf("save payment: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	// 4. Publish events.
	if err := uc.publisher.Publish(ctx, loan.DomainEvents()...); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	return toPaymentResponse(reversed, loan), nil
}
