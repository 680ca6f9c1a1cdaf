package service

import (
	"time"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// StatusEvaluator – derives overdue statuses at read time
// ---------------------------------------------------------------------------

// StatusEvaluator decides whether installments and loans are atrasada as of
// today in the business timezone. The derived statuses are never persisted.
type StatusEvaluator struct {
	loc *time.Location
	now func() time.Time
}

// NewStatusEvaluator returns an evaluator for loc. A nil loc means UTC and a
// nil now means time.Now.
func NewStatusEvaluator(loc *time.Location, now func() time.Time) *StatusEvaluator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &StatusEvaluator{loc: loc, now: now}
}

// Now returns the current instant in UTC.
func (e *StatusEvaluator) Now() time.Time {
	return e.now().UTC()
}

// Today returns the current civil date in the business timezone.
func (e *StatusEvaluator) Today() time.Time {
	return model.CivilDate(e.now().In(e.loc))
}

// IsOverdue reports whether a due date lies strictly before today.
func (e *StatusEvaluator) IsOverdue(dueDate time.Time) bool {
	if dueDate.IsZero() {
		return false
	}
	return model.CivilDate(dueDate).Before(e.Today())
}

// InstallmentStatus returns the effective status of row.
func (e *StatusEvaluator) InstallmentStatus(row model.Installment) valueobject.InstallmentStatus {
	if row.Status.Equal(valueobject.InstallmentStatusPending) && e.IsOverdue(row.DueDate) {
		return valueobject.InstallmentStatusLate
	}
	return row.Status
}

// LoanStatus returns the effective status of loan. An activa loan with any
// overdue pending installment is atrasada.
func (e *StatusEvaluator) LoanStatus(loan model.Loan) valueobject.LoanStatus {
	if !loan.Status().Equal(valueobject.LoanStatusActive) {
		return loan.Status()
	}
	if next, ok := loan.NextPendingInstallment(); ok && e.IsOverdue(next.DueDate) {
		return valueobject.LoanStatusLate
	}
	return loan.Status()
}

// ListedLoanStatus is LoanStatus for loans loaded without their schedule. The
// stored next due date is the earliest pending installment.
func (e *StatusEvaluator) ListedLoanStatus(loan model.Loan) valueobject.LoanStatus {
	if loan.Status().Equal(valueobject.LoanStatusActive) && e.IsOverdue(loan.NextDueDate()) {
		return valueobject.LoanStatusLate
	}
	return loan.Status()
}
