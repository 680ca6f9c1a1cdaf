package model

import "errors"

// Schedule generation errors.
var (
	// ErrInvalidInput is returned for a non-positive principal, a negative
	// target interest or a non-positive period count. Aggregate constructors
	// wrap it for their own field validation.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInfeasibleSchedule is returned when the level installment cannot
	// amortize the principal even at a zero rate.
	ErrInfeasibleSchedule = errors.New("infeasible schedule")
	// ErrRoundingReconciliation guards against a final-period correction that
	// would leave a negative capital or interest portion.
	ErrRoundingReconciliation = errors.New("rounding reconciliation failed")
)

// Lookup and lifecycle errors.
var (
	ErrNotFound               = errors.New("not found")
	ErrAlreadyExists          = errors.New("already exists")
	ErrInstallmentNotFound    = errors.New("installment not found")
	ErrInstallmentAlreadyPaid = errors.New("installment already paid")
	ErrInstallmentNotPaid     = errors.New("installment is not paid")
	ErrPaymentAlreadyReversed = errors.New("payment already reversed")
	ErrConcurrentModification = errors.New("concurrent modification")
)
