package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// codeFor maps domain errors to gRPC status codes.
func codeFor(err error) codes.Code {
	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrInfeasibleSchedule),
		errors.Is(err, model.ErrInstallmentNotFound):
		return codes.InvalidArgument
	case errors.Is(err, model.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, model.ErrAlreadyExists):
		return codes.AlreadyExists
	case errors.Is(err, valueobject.ErrInvalidStatusTransition),
		errors.Is(err, model.ErrInstallmentAlreadyPaid),
		errors.Is(err, model.ErrInstallmentNotPaid),
		errors.Is(err, model.ErrPaymentAlreadyReversed):
		return codes.FailedPrecondition
	case errors.Is(err, model.ErrConcurrentModification):
		return codes.Aborted
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	default:
		return codes.Internal
	}
}

// toStatus converts err into a gRPC status. Internal errors are logged and
// their detail is not sent to the caller.
func (h *LendingHandler) toStatus(ctx context.Context, err error) error {
	code := codeFor(err)
	if code == codes.Internal {
		h.logger.ErrorContext(ctx, "lending call failed", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
	return status.Error(code, err.Error())
}
