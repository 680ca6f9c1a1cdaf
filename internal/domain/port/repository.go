package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/model"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// CompanyRepository persists employer companies. Save fails with
// model.ErrAlreadyExists on a duplicate name.
type CompanyRepository interface {
	Save(ctx context.Context, c model.Company) error
	Update(ctx context.Context, c model.Company) error
	FindByID(ctx context.Context, id string) (model.Company, error)
	List(ctx context.Context) ([]model.Company, error)
	Delete(ctx context.Context, id string) error
}

// PersonRepository persists borrowers.
type PersonRepository interface {
	Save(ctx context.Context, p model.Person) error
	UpdateCompany(ctx context.Context, personID, companyID string) error
	FindByID(ctx context.Context, id string) (model.Person, error)
	FindByCedula(ctx context.Context, cedula string) (model.Person, error)
}

// LoanApplicationRepository persists and retrieves loan requests.
type LoanApplicationRepository interface {
	Save(ctx context.Context, app model.LoanApplication) error
	UpdateStatus(ctx context.Context, app model.LoanApplication) error
	FindByID(ctx context.Context, id string) (model.LoanApplication, error)
	List(ctx context.Context, filter model.ApplicationFilter) (model.ApplicationPage, error)
}

// LoanRepository persists loans together with their installment rows.
// Update succeeds only when the stored version equals loan.Version() and
// fails with model.ErrConcurrentModification otherwise.
type LoanRepository interface {
	Create(ctx context.Context, loan model.Loan) error
	Update(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id string) (model.Loan, error)
	FindByApplicationID(ctx context.Context, applicationID string) (model.Loan, error)
	List(ctx context.Context, filter model.LoanFilter) ([]model.LoanListItem, error)
	Delete(ctx context.Context, id string) error
}

// PaymentRepository persists payments. MarkReversed stores ReversedAt.
type PaymentRepository interface {
	Save(ctx context.Context, p model.Payment) error
	MarkReversed(ctx context.Context, p model.Payment) error
	FindByID(ctx context.Context, id string) (model.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]model.Payment, error)
}

// DashboardQueries reads the aggregates behind the back-office dashboard.
type DashboardQueries interface {
	CountPendingApplications(ctx context.Context) (int, error)
	CountActiveLoans(ctx context.Context) (int, error)
	TotalOutstanding(ctx context.Context) (decimal.Decimal, error)
	TotalInterestEarned(ctx context.Context) (decimal.Decimal, error)
	// UpcomingPayments returns the first unpaid installment of each active
	// loan ordered by due date. Overdue is left unset.
	UpcomingPayments(ctx context.Context, limit int) ([]model.UpcomingPayment, error)
	NextDueDates(ctx context.Context, limit int) ([]model.DueDateTotal, error)
	RecentPayments(ctx context.Context, limit int) ([]model.RecentPayment, error)
}

// ---------------------------------------------------------------------------
// Infrastructure ports
// ---------------------------------------------------------------------------

// DashboardCache stores the last computed dashboard. Get reports a miss with
// ok == false and a nil error.
type DashboardCache interface {
	Get(ctx context.Context) (d model.Dashboard, ok bool, err error)
	Set(ctx context.Context, d model.Dashboard) error
	Invalidate(ctx context.Context) error
}

// TxManager runs fn in a database transaction carried by ctx.
type TxManager interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
