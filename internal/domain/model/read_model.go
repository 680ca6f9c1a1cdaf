package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// Default pagination for application listings.
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ApplicationFilter narrows ListApplications. Zero values mean no filter.
type ApplicationFilter struct {
	CreatedFrom time.Time
	CreatedTo   time.Time
	Status      valueobject.ApplicationStatus
	Page        int
	Limit       int
}

// Normalize applies the default page and limit.
func (f ApplicationFilter) Normalize() ApplicationFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	return f
}

// Offset is the row offset of the requested page.
func (f ApplicationFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// ApplicationListItem is an application joined with its borrower.
type ApplicationListItem struct {
	Application LoanApplication
	Borrower    Person
}

// ApplicationPage is one page of applications plus the unpaged total.
type ApplicationPage struct {
	Items []ApplicationListItem
	Total int
	Page  int
	Limit int
}

// LoanFilter narrows ListLoans. A zero Status lists every loan.
type LoanFilter struct {
	Status valueobject.LoanStatus
}

// LoanListItem is a loan joined with its borrower. Schedule is not loaded.
type LoanListItem struct {
	Loan     Loan
	Borrower Person
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

// UpcomingPayment is the first unpaid installment of an active loan.
type UpcomingPayment struct {
	DueDate      time.Time       `json:"due_date"`
	Capital      decimal.Decimal `json:"capital"`
	Interest     decimal.Decimal `json:"interest"`
	Total        decimal.Decimal `json:"total"`
	LoanID       string          `json:"loan_id"`
	BorrowerName string          `json:"borrower_name"`
	Cedula       string          `json:"cedula"`
	PeriodIndex  int             `json:"period_index"`
	Overdue      bool            `json:"overdue"`
}

// DueDateTotal aggregates the unpaid installments of active loans on one date.
type DueDateTotal struct {
	DueDate      time.Time       `json:"due_date"`
	Total        decimal.Decimal `json:"total"`
	Capital      decimal.Decimal `json:"capital"`
	Interest     decimal.Decimal `json:"interest"`
	Installments int             `json:"installments"`
}

// RecentPayment is a recorded, non-reversed payment with its borrower.
type RecentPayment struct {
	PaidOn       time.Time       `json:"paid_on"`
	CreatedAt    time.Time       `json:"created_at"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentID    string          `json:"payment_id"`
	LoanID       string          `json:"loan_id"`
	BorrowerName string          `json:"borrower_name"`
	PeriodIndex  int             `json:"period_index"`
}

// Dashboard is the back-office summary. It is cached as JSON.
type Dashboard struct {
	GeneratedAt         time.Time         `json:"generated_at"`
	TotalOutstanding    decimal.Decimal   `json:"total_outstanding"`
	TotalInterestEarned decimal.Decimal   `json:"total_interest_earned"`
	UpcomingPayments    []UpcomingPayment `json:"upcoming_payments"`
	NextDueDates        []DueDateTotal    `json:"next_due_dates"`
	RecentPayments      []RecentPayment   `json:"recent_payments"`
	PendingApplications int               `json:"pending_applications"`
	ActiveLoans         int               `json:"active_loans"`
}

// Dashboard list sizes.
const (
	DashboardUpcomingLimit = 5
	DashboardDueDateLimit  = 3
	DashboardRecentLimit   = 10
)
