package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	nextDueDate       time.Time
	createdAt         time.Time
	updatedAt         time.Time
	principal         decimal.Decimal
	totalInterest     decimal.Decimal
	installmentAmount decimal.Decimal
	outstanding       decimal.Decimal
	status            valueobject.LoanStatus
	id                string
	applicationID     string
	schedule          []Installment
	domainEvents      []event.DomainEvent
	periodCount       int
	version           int
}

// LoanState is the persisted form of a Loan, used by ReconstructLoan.
type LoanState struct {
	NextDueDate       time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
	Principal         decimal.Decimal
	TotalInterest     decimal.Decimal
	InstallmentAmount decimal.Decimal
	Outstanding       decimal.Decimal
	Status            valueobject.LoanStatus
	ID                string
	ApplicationID     string
	Schedule          []Installment
	PeriodCount       int
	Version           int
}

// ---------------------------------------------------------------------------
// Constructors
// ---------------------------------------------------------------------------

// NewLoan generates the quincena schedule and creates an activa loan whose
// outstanding balance is the full principal.
func NewLoan(
	applicationID string,
	principal, targetInterest decimal.Decimal,
	periodCount int,
	firstDueDate time.Time,
	now time.Time,
) (Loan, error) {
	if applicationID == "" {
		return Loan{}, fmt.Errorf("%w: application ID is required", ErrInvalidInput)
	}

	plan, err := GenerateSchedule(principal, targetInterest, periodCount, firstDueDate)
	if err != nil {
		return Loan{}, fmt.Errorf("generate schedule: %w", err)
	}

	l := Loan{
		id:                uuid.New().String(),
		applicationID:     applicationID,
		principal:         principal,
		totalInterest:     targetInterest,
		installmentAmount: plan.InstallmentAmount,
		periodCount:       periodCount,
		outstanding:       principal,
		nextDueDate:       plan.Rows[0].DueDate,
		status:            valueobject.LoanStatusActive,
		schedule:          plan.Rows,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}
	l.domainEvents = []event.DomainEvent{
		event.NewLoanApproved(l.id, applicationID, principal, targetInterest,
			plan.InstallmentAmount, periodCount, l.nextDueDate, now),
	}
	return l, nil
}

// NewRejectedLoan records the loan shell of a declined application. It has no
// schedule and never accepts payments.
func NewRejectedLoan(applicationID string, requested decimal.Decimal, now time.Time) (Loan, error) {
	if applicationID == "" {
		return Loan{}, fmt.Errorf("%w: application ID is required", ErrInvalidInput)
	}
	return Loan{
		id:                uuid.New().String(),
		applicationID:     applicationID,
		principal:         requested,
		totalInterest:     decimal.Zero,
		installmentAmount: decimal.Zero,
		outstanding:       decimal.Zero,
		status:            valueobject.LoanStatusRejected,
		version:           1,
		createdAt:         now,
		updatedAt:         now,
	}, nil
}

// ReconstructLoan rebuilds a Loan from persisted state.
func ReconstructLoan(s LoanState) Loan {
	return Loan{
		id:                s.ID,
		applicationID:     s.ApplicationID,
		principal:         s.Principal,
		totalInterest:     s.TotalInterest,
		installmentAmount: s.InstallmentAmount,
		periodCount:       s.PeriodCount,
		outstanding:       s.Outstanding,
		nextDueDate:       s.NextDueDate,
		status:            s.Status,
		schedule:          append([]Installment(nil), s.Schedule...),
		version:           s.Version,
		createdAt:         s.CreatedAt,
		updatedAt:         s.UpdatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordPayment settles the pending installment periodIndex. The outstanding
// balance drops by that installment's capital and the loan completes once no
// pending installment remains.
func (l Loan) RecordPayment(periodIndex int, amount decimal.Decimal, paidOn, now time.Time) (Loan, Payment, error) {
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return Loan{}, Payment{}, fmt.Errorf("%w: cannot record payment on loan in status %s",
			valueobject.ErrInvalidStatusTransition, l.status)
	}
	if !amount.IsPositive() {
		return Loan{}, Payment{}, fmt.Errorf("%w: payment amount must be positive", ErrInvalidInput)
	}
	if paidOn.IsZero() {
		return Loan{}, Payment{}, fmt.Errorf("%w: payment date is required", ErrInvalidInput)
	}

	idx, err := l.installmentIndex(periodIndex)
	if err != nil {
		return Loan{}, Payment{}, err
	}
	if l.schedule[idx].IsPaid() {
		return Loan{}, Payment{}, fmt.Errorf("period %d: %w", periodIndex, ErrInstallmentAlreadyPaid)
	}

	next := l.clone()
	next.schedule[idx].Status = valueobject.InstallmentStatusPaid
	next.outstanding = decimal.Max(decimal.Zero, l.outstanding.Sub(l.schedule[idx].Capital))
	next.updatedAt = now

	payment := newPayment(l.id, periodIndex, amount, paidOn, now)
	next.domainEvents = append(next.domainEvents, event.NewPaymentRecorded(
		l.id, payment.ID(), periodIndex, amount, next.outstanding, payment.PaidOn(), now,
	))

	if pending, ok := next.NextPendingInstallment(); ok {
		next.nextDueDate = pending.DueDate
	} else {
		next.nextDueDate = time.Time{}
		next.status = valueobject.LoanStatusCompleted
		next.domainEvents = append(next.domainEvents, event.NewLoanCompleted(l.id, now))
	}

	return next, payment, nil
}

// ReversePayment undoes p: its installment returns to pendiente, the capital
// goes back onto the balance (capped at principal) and the loan is activa
// again.
func (l Loan) ReversePayment(p Payment, now time.Time) (Loan, Payment, error) {
	if p.LoanID() != l.id {
		return Loan{}, Payment{}, fmt.Errorf("%w: payment %s does not belong to loan %s", ErrInvalidInput, p.ID(), l.id)
	}
	if l.status.Equal(valueobject.LoanStatusRejected) {
		return Loan{}, Payment{}, fmt.Errorf("%w: cannot reverse payment on loan in status %s",
			valueobject.ErrInvalidStatusTransition, l.status)
	}

	reversed, err := p.Reverse(now)
	if err != nil {
		return Loan{}, Payment{}, err
	}

	idx, err := l.installmentIndex(p.PeriodIndex())
	if err != nil {
		return Loan{}, Payment{}, err
	}
	if !l.schedule[idx].IsPaid() {
		return Loan{}, Payment{}, fmt.Errorf("period %d: %w", p.PeriodIndex(), ErrInstallmentNotPaid)
	}

	next := l.clone()
	next.schedule[idx].Status = valueobject.InstallmentStatusPending
	next.outstanding = decimal.Min(l.principal, l.outstanding.Add(l.schedule[idx].Capital))
	next.status = valueobject.LoanStatusActive
	next.updatedAt = now
	if pending, ok := next.NextPendingInstallment(); ok {
		next.nextDueDate = pending.DueDate
	}
	next.domainEvents = append(next.domainEvents, event.NewPaymentReversed(
		l.id, p.ID(), p.PeriodIndex(), next.outstanding, now,
	))

	return next, reversed, nil
}

// MarkDeleted returns a copy carrying the deletion event.
func (l Loan) MarkDeleted(now time.Time) Loan {
	next := l.clone()
	next.domainEvents = append(next.domainEvents, event.NewLoanDeleted(l.id, now))
	return next
}

// ---------------------------------------------------------------------------
// Queries
// ---------------------------------------------------------------------------

// NextPendingInstallment returns the earliest installment that is not paid.
func (l Loan) NextPendingInstallment() (Installment, bool) {
	for _, row := range l.schedule {
		if !row.IsPaid() {
			return row, true
		}
	}
	return Installment{}, false
}

// UnpaidInstallments returns every installment that is not paid, in order.
func (l Loan) UnpaidInstallments() []Installment {
	var out []Installment
	for _, row := range l.schedule {
		if !row.IsPaid() {
			out = append(out, row)
		}
	}
	return out
}

// Installment returns the row for periodIndex.
func (l Loan) Installment(periodIndex int) (Installment, error) {
	idx, err := l.installmentIndex(periodIndex)
	if err != nil {
		return Installment{}, err
	}
	return l.schedule[idx], nil
}

// InterestEarned sums the interest of paid installments.
func (l Loan) InterestEarned() decimal.Decimal {
	total := decimal.Zero
	for _, row := range l.schedule {
		if row.IsPaid() {
			total = total.Add(row.Interest)
		}
	}
	return total
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() string                          { return l.id }
func (l Loan) ApplicationID() string               { return l.applicationID }
func (l Loan) Principal() decimal.Decimal          { return l.principal }
func (l Loan) TotalInterest() decimal.Decimal      { return l.totalInterest }
func (l Loan) InstallmentAmount() decimal.Decimal  { return l.installmentAmount }
func (l Loan) PeriodCount() int                    { return l.periodCount }
func (l Loan) OutstandingBalance() decimal.Decimal { return l.outstanding }
func (l Loan) NextDueDate() time.Time              { return l.nextDueDate }
func (l Loan) Status() valueobject.LoanStatus      { return l.status }
func (l Loan) Version() int                        { return l.version }
func (l Loan) CreatedAt() time.Time                { return l.createdAt }
func (l Loan) UpdatedAt() time.Time                { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent   { return l.domainEvents }

// Schedule returns a copy of the installment rows.
func (l Loan) Schedule() []Installment {
	return append([]Installment(nil), l.schedule...)
}

// ClearEvents returns a copy with no pending domain events.
func (l Loan) ClearEvents() Loan {
	l.domainEvents = nil
	return l
}

func (l Loan) installmentIndex(periodIndex int) (int, error) {
	for i, row := range l.schedule {
		if row.PeriodIndex == periodIndex {
			return i, nil
		}
	}
	return -1, fmt.Errorf("period %d: %w", periodIndex, ErrInstallmentNotFound)
}

func (l Loan) clone() Loan {
	l.schedule = append([]Installment(nil), l.schedule...)
	l.domainEvents = copyEvents(l.domainEvents)
	return l
}
