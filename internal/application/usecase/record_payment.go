package usecase

import (
	"context"
	"fmt"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/port"
	"github.com/andresv02/loan-management-system/internal/domain/service"
)

// RecordPaymentUseCase settles one installment of an activa loan. Updates to
// the same loan are serialised by its version; a conflicting write is retried.
type RecordPaymentUseCase struct {
	loanRepo    port.LoanRepository
	paymentRepo port.PaymentRepository
	tx          port.TxManager
	publisher   port.EventPublisher
	evaluator   *service.StatusEvaluator
}

// NewRecordPaymentUseCase wires dependencies.
func NewRecordPaymentUseCase(
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
	evaluator *service.StatusEvaluator,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		loanRepo:    loanRepo,
		paymentRepo: paymentRepo,
		tx:          tx,
		publisher:   publisher,
		evaluator:   evaluator,
	}
}

// Execute records the payment. A zero PaidOn means today.
func (uc *RecordPaymentUseCase) Execute(
	ctx context.Context,
	req dto.RecordPaymentRequest,
) (dto.PaymentResponse, error) {
	now := uc.evaluator.Now()
	paidOn := req.PaidOn
	if paidOn.IsZero() {
		paidOn = uc.evaluator.Today()
	}

	var (
		loan    model.Loan
		payment model.Payment
	)
	err := retryOnConflict(ctx, func() error {
		return uc.tx.InTx(ctx, func(ctx context.Context) error {
			// 1. Retrieve the loan with its schedule.
			current, err := uc.loanRepo.FindByID(ctx, req.LoanID)
			if err != nil {
				return fmt.Errorf("find loan: %w", err)
			}

			// 2. Apply the payment.
			loan, payment, err = current.RecordPayment(req.PeriodIndex, req.Amount, paidOn, now)
			if err != nil {
				return fmt.Errorf("record payment: %w", err)
			}

			// 3. Persist loan and payment.
			if err := uc.loanRepo.Update(ctx, loan); err != nil {
				return fmt.Errorf("save loan: %w", err)
			}
			if err := uc.paymentRepo.Save(ctx, payment); err != nil {
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

	return toPaymentResponse(payment, loan), nil
}
