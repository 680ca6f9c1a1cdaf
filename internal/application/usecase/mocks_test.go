package usecase_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/service"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

// --- Mocks ---

type mockCompanyRepository struct {
	saveFunc     func(ctx context.Context, c model.Company) error
	findByIDFunc func(ctx context.Context, id string) (model.Company, error)
	deleteFunc   func(ctx context.Context, id string) error
	saved        []model.Company
	updated      []model.Company
	listed       []model.Company
}

func (m *mockCompanyRepository) Save(ctx context.Context, c model.Company) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.saved = append(m.saved, c)
	return nil
}

func (m *mockCompanyRepository) Update(_ context.Context, c model.Company) error {
	m.updated = append(m.updated, c)
	return nil
}

func (m *mockCompanyRepository) FindByID(ctx context.Context, id string) (model.Company, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Company{}, model.ErrNotFound
}

func (m *mockCompanyRepository) List(_ context.Context) ([]model.Company, error) {
	return m.listed, nil
}

func (m *mockCompanyRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockPersonRepository struct {
	findByCedulaFunc func(ctx context.Context, cedula string) (model.Person, error)
	findByIDFunc     func(ctx context.Context, id string) (model.Person, error)
	saved            []model.Person
	companyUpdates   map[string]string
}

func (m *mockPersonRepository) Save(_ context.Context, p model.Person) error {
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPersonRepository) UpdateCompany(_ context.Context, personID, companyID string) error {
	if m.companyUpdates == nil {
		m.companyUpdates = map[string]string{}
	}
	m.companyUpdates[personID] = companyID
	return nil
}

func (m *mockPersonRepository) FindByID(ctx context.Context, id string) (model.Person, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Person{}, model.ErrNotFound
}

func (m *mockPersonRepository) FindByCedula(ctx context.Context, cedula string) (model.Person, error) {
	if m.findByCedulaFunc != nil {
		return m.findByCedulaFunc(ctx, cedula)
	}
	return model.Person{}, model.ErrNotFound
}

type mockLoanApplicationRepository struct {
	findByIDFunc func(ctx context.Context, id string) (model.LoanApplication, error)
	listFunc     func(ctx context.Context, f model.ApplicationFilter) (model.ApplicationPage, error)
	savedApps    []model.LoanApplication
	statusSaves  []model.LoanApplication
}

func (m *mockLoanApplicationRepository) Save(_ context.Context, app model.LoanApplication) error {
	m.savedApps = append(m.savedApps, app)
	return nil
}

func (m *mockLoanApplicationRepository) UpdateStatus(_ context.Context, app model.LoanApplication) error {
	m.statusSaves = append(m.statusSaves, app)
	return nil
}

func (m *mockLoanApplicationRepository) FindByID(ctx context.Context, id string) (model.LoanApplication, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.LoanApplication{}, model.ErrNotFound
}

func (m *mockLoanApplicationRepository) List(ctx context.Context, f model.ApplicationFilter) (model.ApplicationPage, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f)
	}
	return model.ApplicationPage{}, nil
}

type mockLoanRepository struct {
	findByIDFunc func(ctx context.Context, id string) (model.Loan, error)
	updateFunc   func(ctx context.Context, loan model.Loan) error
	listFunc     func(ctx context.Context, f model.LoanFilter) ([]model.LoanListItem, error)
	createdLoans []model.Loan
	updatedLoans []model.Loan
	deletedIDs   []string
}

func (m *mockLoanRepository) Create(_ context.Context, loan model.Loan) error {
	m.createdLoans = append(m.createdLoans, loan)
	return nil
}

func (m *mockLoanRepository) Update(ctx context.Context, loan model.Loan) error {
	if m.updateFunc != nil {
		if err := m.updateFunc(ctx, loan); err != nil {
			return err
		}
	}
	m.updatedLoans = append(m.updatedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id string) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, model.ErrNotFound
}

func (m *mockLoanRepository) FindByApplicationID(_ context.Context, _ string) (model.Loan, error) {
	return model.Loan{}, model.ErrNotFound
}

func (m *mockLoanRepository) List(ctx context.Context, f model.LoanFilter) ([]model.LoanListItem, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, f)
	}
	return nil, nil
}

func (m *mockLoanRepository) Delete(_ context.Context, id string) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockPaymentRepository struct {
	findByIDFunc func(ctx context.Context, id string) (model.Payment, error)
	saved        []model.Payment
	reversed     []model.Payment
}

func (m *mockPaymentRepository) Save(_ context.Context, p model.Payment) error {
	m.saved = append(m.saved, p)
	return nil
}

func (m *mockPaymentRepository) MarkReversed(_ context.Context, p model.Payment) error {
	m.reversed = append(m.reversed, p)
	return nil
}

func (m *mockPaymentRepository) FindByID(ctx context.Context, id string) (model.Payment, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Payment{}, model.ErrNotFound
}

func (m *mockPaymentRepository) ListByLoan(_ context.Context, _ string) ([]model.Payment, error) {
	return m.saved, nil
}

type mockTxManager struct {
	calls int
}

func (m *mockTxManager) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockEventPublisher struct {
	publishFunc     func(ctx context.Context, events ...event.DomainEvent) error
	publishedEvents []event.DomainEvent
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) types() []string {
	out := make([]string, 0, len(m.publishedEvents))
	for _, e := range m.publishedEvents {
		out = append(out, e.EventType())
	}
	return out
}

// --- Fixtures ---

var testNow = time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testEvaluator() *service.StatusEvaluator {
	return service.NewStatusEvaluator(time.UTC, func() time.Time { return testNow })
}

func testPerson() model.Person {
	return model.ReconstructPerson("person-001", model.PersonDetails{
		Cedula:        "8-888-8888",
		FirstName:     "Ana",
		LastName:      "Pérez",
		MonthlySalary: dec("900.00"),
	}, testNow)
}

func newApplication() model.LoanApplication {
	return model.ReconstructLoanApplication("app-001", model.ApplicationRequest{
		PersonID:        "person-001",
		RequestedAmount: dec("1000.00"),
		DurationMonths:  6,
	}, valueobject.ApplicationStatusNew, testNow)
}

// activeLoan is a 1000.00 + 120.00 loan over 12 quincenas starting 2024-01-15,
// reloaded from storage at version 1.
func activeLoan() model.Loan {
	loan, err := model.NewLoan("app-001", dec("1000.00"), dec("120.00"), 12, date(2024, 1, 10), date(2024, 1, 5))
	if err != nil {
		panic(err)
	}
	return reload(loan)
}

func reload(l model.Loan) model.Loan {
	return model.ReconstructLoan(model.LoanState{
		ID:                "loan-001",
		ApplicationID:     l.ApplicationID(),
		Principal:         l.Principal(),
		TotalInterest:     l.TotalInterest(),
		InstallmentAmount: l.InstallmentAmount(),
		PeriodCount:       l.PeriodCount(),
		Outstanding:       l.OutstandingBalance(),
		NextDueDate:       l.NextDueDate(),
		Status:            l.Status(),
		Schedule:          l.Schedule(),
		Version:           l.Version(),
		CreatedAt:         l.CreatedAt(),
		UpdatedAt:         l.UpdatedAt(),
	})
}
