package usecase

import (
	"context"
	"errors"

	"github.com/andresv02/loan-management-system/internal/domain/model"
)

// maxLoanUpdateAttempts bounds how often a payment is re-applied after a
// concurrent update of the same loan.
const maxLoanUpdateAttempts = 3

// retryOnConflict runs fn until it succeeds, fails with an error other than
// model.ErrConcurrentModification, or the attempts are used up.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxLoanUpdateAttempts; attempt++ {
		if err = fn(); !errors.Is(err, model.ErrConcurrentModification) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
	return err
}
