package grpc

import (
	"context"
	"log/slog"

	"github.com/andresv02/loan-management-system/internal/application/dto"
)

// ---------------------------------------------------------------------------
// Use case ports
// ---------------------------------------------------------------------------

type SchedulePreviewer interface {
	Execute(ctx context.Context, req dto.PreviewScheduleRequest) (dto.ScheduleResponse, error)
}

type ApplicationApprover interface {
	Execute(ctx context.Context, req dto.ApproveApplicationRequest) (dto.LoanResponse, error)
}

type PaymentRecorder interface {
	Execute(ctx context.Context, req dto.RecordPaymentRequest) (dto.PaymentResponse, error)
}

type PaymentReverser interface {
	Execute(ctx context.Context, req dto.ReversePaymentRequest) (dto.PaymentResponse, error)
}

type LoanReader interface {
	Execute(ctx context.Context, req dto.GetLoanRequest) (dto.LoanResponse, error)
}

// LendingHandler implements LendingServiceServer on top of the use cases.
type LendingHandler struct {
	UnimplementedLendingServiceServer

	preview SchedulePreviewer
	approve ApplicationApprover
	record  PaymentRecorder
	reverse PaymentReverser
	getLoan LoanReader
	logger  *slog.Logger
}

// NewLendingHandler creates a new handler with all use-case dependencies.
func NewLendingHandler(
	preview SchedulePreviewer,
	approve ApplicationApprover,
	record PaymentRecorder,
	reverse PaymentReverser,
	getLoan LoanReader,
	logger *slog.Logger,
) *LendingHandler {
	return &LendingHandler{
		preview: preview,
		approve: approve,
		record:  record,
		reverse: reverse,
		getLoan: getLoan,
		logger:  logger,
	}
}

// PreviewSchedule generates a schedule without persisting it.
func (h *LendingHandler) PreviewSchedule(ctx context.Context, in *PreviewScheduleRequest) (*dto.ScheduleResponse, error) {
	principal, err := dto.ParseAmount("principal", in.Principal)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	interest, err := dto.ParseAmount("target_interest", in.TargetInterest)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	first, err := dto.ParseDate("first_due_date", in.FirstDueDate)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	resp, err := h.preview.Execute(ctx, dto.PreviewScheduleRequest{
		FirstDueDate:   first,
		Principal:      principal,
		TargetInterest: interest,
		PeriodCount:    in.PeriodCount,
		DurationMonths: in.DurationMonths,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// ApproveApplication turns a nueva application into an activa loan.
func (h *LendingHandler) ApproveApplication(ctx context.Context, in *ApproveApplicationRequest) (*dto.LoanResponse, error) {
	interest, err := dto.ParseAmount("target_interest", in.TargetInterest)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	first, err := dto.ParseDate("first_due_date", in.FirstDueDate)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	resp, err := h.approve.Execute(ctx, dto.ApproveApplicationRequest{
		FirstDueDate:   first,
		TargetInterest: interest,
		ApplicationID:  in.ApplicationID,
		CompanyID:      in.CompanyID,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// RecordPayment settles one installment.
func (h *LendingHandler) RecordPayment(ctx context.Context, in *RecordPaymentRequest) (*dto.PaymentResponse, error) {
	amount, err := dto.ParseAmount("amount", in.Amount)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	paidOn, err := dto.ParseDate("paid_on", in.PaidOn)
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}

	resp, err := h.record.Execute(ctx, dto.RecordPaymentRequest{
		PaidOn:      paidOn,
		Amount:      amount,
		LoanID:      in.LoanID,
		PeriodIndex: in.PeriodIndex,
	})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// ReversePayment undoes a recorded payment.
func (h *LendingHandler) ReversePayment(ctx context.Context, in *ReversePaymentRequest) (*dto.PaymentResponse, error) {
	resp, err := h.reverse.Execute(ctx, dto.ReversePaymentRequest{PaymentID: in.PaymentID})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}

// GetLoan retrieves a loan with its schedule.
func (h *LendingHandler) GetLoan(ctx context.Context, in *GetLoanRequest) (*dto.LoanResponse, error) {
	resp, err := h.getLoan.Execute(ctx, dto.GetLoanRequest{LoanID: in.LoanID})
	if err != nil {
		return nil, h.toStatus(ctx, err)
	}
	return &resp, nil
}
