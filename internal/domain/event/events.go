package event

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// Event types published on the lending topic.
const (
	TypeApplicationSubmitted = "lending.application.submitted"
	TypeApplicationDeclined  = "lending.application.declined"
	TypeLoanApproved         = "lending.loan.approved"
	TypeLoanCompleted        = "lending.loan.completed"
	TypeLoanDeleted          = "lending.loan.deleted"
	TypePaymentRecorded      = "lending.payment.recorded"
	TypePaymentReversed      = "lending.payment.reversed"
)

// ---------------------------------------------------------------------------
// Loan Application Events
// ---------------------------------------------------------------------------

// ApplicationSubmitted is raised when a new loan request enters the system.
type ApplicationSubmitted struct {
	events.BaseEvent
	PersonID        string          `json:"person_id"`
	RequestedAmount decimal.Decimal `json:"requested_amount"`
	DurationMonths  int             `json:"duration_months"`
}

func NewApplicationSubmitted(
	applicationID, personID string,
	amount decimal.Decimal, durationMonths int, now time.Time,
) ApplicationSubmitted {
	return ApplicationSubmitted{
		BaseEvent:       events.NewBaseEvent(TypeApplicationSubmitted, applicationID, "LoanApplication", now),
		PersonID:        personID,
		RequestedAmount: amount,
		DurationMonths:  durationMonths,
	}
}

// ApplicationDeclined is raised when an operator declines a loan request.
type ApplicationDeclined struct {
	events.BaseEvent
	PersonID string `json:"person_id"`
	LoanID   string `json:"loan_id"`
}

func NewApplicationDeclined(applicationID, personID, loanID string, now time.Time) ApplicationDeclined {
	return ApplicationDeclined{
		BaseEvent: events.NewBaseEvent(TypeApplicationDeclined, applicationID, "LoanApplication", now),
		PersonID:  personID,
		LoanID:    loanID,
	}
}

// ---------------------------------------------------------------------------
// Loan Events
// ---------------------------------------------------------------------------

// LoanApproved is raised when an approved request becomes an active loan.
type LoanApproved struct {
	FirstDueDate time.Time `json:"first_due_date"`
	events.BaseEvent
	ApplicationID     string          `json:"application_id"`
	Principal         decimal.Decimal `json:"principal"`
	TotalInterest     decimal.Decimal `json:"total_interest"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	PeriodCount       int             `json:"period_count"`
}

func NewLoanApproved(
	loanID, applicationID string,
	principal, totalInterest, installment decimal.Decimal,
	periodCount int, firstDueDate time.Time, now time.Time,
) LoanApproved {
	return LoanApproved{
		BaseEvent:         events.NewBaseEvent(TypeLoanApproved, loanID, "Loan", now),
		ApplicationID:     applicationID,
		Principal:         principal,
		TotalInterest:     totalInterest,
		InstallmentAmount: installment,
		PeriodCount:       periodCount,
		FirstDueDate:      firstDueDate,
	}
}

// PaymentRecorded is raised when an installment is paid.
type PaymentRecorded struct {
	PaidOn time.Time `json:"paid_on"`
	events.BaseEvent
	PaymentID          string          `json:"payment_id"`
	PeriodIndex        int             `json:"period_index"`
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentRecorded(
	loanID, paymentID string, periodIndex int,
	amount, outstanding decimal.Decimal, paidOn, now time.Time,
) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:          events.NewBaseEvent(TypePaymentRecorded, loanID, "Loan", now),
		PaymentID:          paymentID,
		PeriodIndex:        periodIndex,
		Amount:             amount,
		OutstandingBalance: outstanding,
		PaidOn:             paidOn,
	}
}

// PaymentReversed is raised when a recorded payment is undone.
type PaymentReversed struct {
	events.BaseEvent
	PaymentID          string          `json:"payment_id"`
	PeriodIndex        int             `json:"period_index"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
}

func NewPaymentReversed(loanID, paymentID string, periodIndex int, outstanding decimal.Decimal, now time.Time) PaymentReversed {
	return PaymentReversed{
		BaseEvent:          events.NewBaseEvent(TypePaymentReversed, loanID, "Loan", now),
		PaymentID:          paymentID,
		PeriodIndex:        periodIndex,
		OutstandingBalance: outstanding,
	}
}

// LoanCompleted is raised when the last pending installment is paid.
type LoanCompleted struct {
	events.BaseEvent
}

func NewLoanCompleted(loanID string, now time.Time) LoanCompleted {
	return LoanCompleted{
		BaseEvent: events.NewBaseEvent(TypeLoanCompleted, loanID, "Loan", now),
	}
}

// LoanDeleted is raised when a loan is removed with its schedule and payments.
type LoanDeleted struct {
	events.BaseEvent
}

func NewLoanDeleted(loanID string, now time.Time) LoanDeleted {
	return LoanDeleted{
		BaseEvent: events.NewBaseEvent(TypeLoanDeleted, loanID, "Loan", now),
	}
}
