package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// CreateCompanyRequest names a new employer company.
type CreateCompanyRequest struct {
	Name string `json:"name"`
}

// RenameCompanyRequest changes the name of an existing company.
type RenameCompanyRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SubmitApplicationRequest carries the borrower and the loan request captured
// by the intake form.
type SubmitApplicationRequest struct {
	ContractStart     time.Time       `json:"contract_start,omitempty"`
	MonthlySalary     decimal.Decimal `json:"monthly_salary"`
	RequestedAmount   decimal.Decimal `json:"requested_amount"`
	Cedula            string          `json:"cedula"`
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	Email             string          `json:"email"`
	Phone             string          `json:"phone"`
	Address           string          `json:"address"`
	CompanyID         string          `json:"company_id,omitempty"`
	BankAccountType   string          `json:"bank_account_type"`
	BankAccountNumber string          `json:"bank_account_number"`
	BankName          string          `json:"bank_name"`
	Employer          string          `json:"employer"`
	IDPhotoURLs       []string        `json:"id_photo_urls,omitempty"`
	MonthsEmployed    int             `json:"months_employed"`
	DurationMonths    int             `json:"duration_months"`
}

// ListApplicationsRequest filters and paginates loan requests.
type ListApplicationsRequest struct {
	CreatedFrom time.Time `json:"created_from,omitempty"`
	CreatedTo   time.Time `json:"created_to,omitempty"`
	Status      string    `json:"status,omitempty"`
	Page        int       `json:"page,omitempty"`
	Limit       int       `json:"limit,omitempty"`
}

// ApproveApplicationRequest turns a nueva request into an active loan.
// A zero FirstDueDate means today in the business timezone.
type ApproveApplicationRequest struct {
	FirstDueDate   time.Time       `json:"first_due_date"`
	TargetInterest decimal.Decimal `json:"target_interest"`
	ApplicationID  string          `json:"application_id"`
	CompanyID      string          `json:"company_id,omitempty"`
}

// DeclineApplicationRequest identifies the request to decline.
type DeclineApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// PreviewScheduleRequest runs the schedule generator without persisting.
// PeriodCount takes precedence; otherwise DurationMonths x 2 is used.
type PreviewScheduleRequest struct {
	FirstDueDate   time.Time       `json:"first_due_date"`
	Principal      decimal.Decimal `json:"principal"`
	TargetInterest decimal.Decimal `json:"target_interest"`
	PeriodCount    int             `json:"period_count,omitempty"`
	DurationMonths int             `json:"duration_months,omitempty"`
}

// RecordPaymentRequest settles one installment of a loan.
type RecordPaymentRequest struct {
	PaidOn      time.Time       `json:"paid_on"`
	Amount      decimal.Decimal `json:"amount"`
	LoanID      string          `json:"loan_id"`
	PeriodIndex int             `json:"period_index"`
}

// ReversePaymentRequest identifies the payment to undo.
type ReversePaymentRequest struct {
	PaymentID string `json:"payment_id"`
}

// GetLoanRequest identifies a loan to retrieve.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// ListLoansRequest filters loans by stored or effective status.
type ListLoansRequest struct {
	Status string `json:"status,omitempty"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// CompanyResponse is the external representation of a company.
type CompanyResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
}

// BorrowerResponse is the external representation of a person.
type BorrowerResponse struct {
	MonthlySalary  decimal.Decimal `json:"monthly_salary"`
	ID             string          `json:"id"`
	Cedula         string          `json:"cedula"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Email          string          `json:"email,omitempty"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	CompanyID      string          `json:"company_id,omitempty"`
	MonthsEmployed int             `json:"months_employed"`
}

// ApplicationResponse is the external representation of a loan request.
type ApplicationResponse struct {
	CreatedAt         time.Time         `json:"created_at"`
	RequestedAmount   decimal.Decimal   `json:"requested_amount"`
	Borrower          *BorrowerResponse `json:"borrower,omitempty"`
	ID                string            `json:"id"`
	PersonID          string            `json:"person_id"`
	BankAccountType   string            `json:"bank_account_type"`
	BankAccountNumber string            `json:"bank_account_number"`
	BankName          string            `json:"bank_name"`
	Employer          string            `json:"employer"`
	Status            string            `json:"status"`
	IDPhotoURLs       []string          `json:"id_photo_urls"`
	DurationMonths    int               `json:"duration_months"`
	PeriodCount       int               `json:"period_count"`
}

// ApplicationListResponse is one page of loan requests.
type ApplicationListResponse struct {
	Items []ApplicationResponse `json:"items"`
	Total int                   `json:"total"`
	Page  int                   `json:"page"`
	Limit int                   `json:"limit"`
}

// InstallmentResponse represents a single schedule row. EffectiveStatus is
// atrasada for pending rows whose due date has passed.
type InstallmentResponse struct {
	DueDate         time.Time       `json:"due_date"`
	Amount          decimal.Decimal `json:"amount"`
	Interest        decimal.Decimal `json:"interest"`
	Capital         decimal.Decimal `json:"capital"`
	OpeningBalance  decimal.Decimal `json:"opening_balance"`
	ClosingBalance  decimal.Decimal `json:"closing_balance"`
	Status          string          `json:"status"`
	EffectiveStatus string          `json:"effective_status"`
	PeriodIndex     int             `json:"period_index"`
}

// ScheduleResponse is the output of a schedule preview.
type ScheduleResponse struct {
	InstallmentAmount decimal.Decimal       `json:"installment_amount"`
	TotalInterest     decimal.Decimal       `json:"total_interest"`
	TotalCapital      decimal.Decimal       `json:"total_capital"`
	Rows              []InstallmentResponse `json:"rows"`
	ImpliedRate       float64               `json:"implied_rate"`
}

// LoanResponse is the external representation of a loan.
type LoanResponse struct {
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	NextDueDate        *time.Time            `json:"next_due_date,omitempty"`
	Principal          decimal.Decimal       `json:"principal"`
	TotalInterest      decimal.Decimal       `json:"total_interest"`
	InstallmentAmount  decimal.Decimal       `json:"installment_amount"`
	OutstandingBalance decimal.Decimal       `json:"outstanding_balance"`
	Borrower           *BorrowerResponse     `json:"borrower,omitempty"`
	ID                 string                `json:"id"`
	ApplicationID      string                `json:"application_id"`
	Status             string                `json:"status"`
	EffectiveStatus    string                `json:"effective_status"`
	Schedule           []InstallmentResponse `json:"schedule,omitempty"`
	PeriodCount        int                   `json:"period_count"`
	Version            int                   `json:"version"`
}

// LoanListResponse is the result of a loan listing.
type LoanListResponse struct {
	Items []LoanResponse `json:"items"`
}

// DeclineApplicationResponse reports the declined request and its loan shell.
type DeclineApplicationResponse struct {
	ApplicationID string `json:"application_id"`
	LoanID        string `json:"loan_id"`
	Status        string `json:"status"`
}

// PaymentResponse is the external representation of a payment result.
type PaymentResponse struct {
	PaidOn             time.Time       `json:"paid_on"`
	ReversedAt         *time.Time      `json:"reversed_at,omitempty"`
	NextDueDate        *time.Time      `json:"next_due_date,omitempty"`
	Amount             decimal.Decimal `json:"amount"`
	OutstandingBalance decimal.Decimal `json:"outstanding_balance"`
	PaymentID          string          `json:"payment_id"`
	LoanID             string          `json:"loan_id"`
	LoanStatus         string          `json:"loan_status"`
	PeriodIndex        int             `json:"period_index"`
}

// NextPaymentResponse is the earliest pending installment of a loan.
// PeriodIndex is 0 and Amount is 0.00 when nothing is pending.
type NextPaymentResponse struct {
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	LoanID      string          `json:"loan_id"`
	PeriodIndex int             `json:"period_index"`
}

// AvailableInstallmentsResponse lists the unpaid installments of a loan.
type AvailableInstallmentsResponse struct {
	LoanID       string                `json:"loan_id"`
	Installments []InstallmentResponse `json:"installments"`
}
