package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/application/usecase"
	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

type approveFixture struct {
	apps      *mockLoanApplicationRepository
	persons   *mockPersonRepository
	companies *mockCompanyRepository
	loans     *mockLoanRepository
	publisher *mockEventPublisher
	uc        *usecase.ApproveApplicationUseCase
}

func newApproveFixture(app model.LoanApplication) approveFixture {
	f := approveFixture{
		apps: &mockLoanApplicationRepository{
			findByIDFunc: func(context.Context, string) (model.LoanApplication, error) { return app, nil },
		},
		persons: &mockPersonRepository{
			findByIDFunc: func(context.Context, string) (model.Person, error) { return testPerson(), nil },
		},
		companies: &mockCompanyRepository{},
		loans:     &mockLoanRepository{},
		publisher: &mockEventPublisher{},
	}
	f.uc = usecase.NewApproveApplicationUseCase(f.apps, f.persons, f.companies, f.loans,
		&mockTxManager{}, f.publisher, testEvaluator())
	return f
}

func TestApproveApplication_Execute(t *testing.T) {
	t.Run("creates an active loan with its schedule", func(t *testing.T) {
		f := newApproveFixture(newApplication())

		resp, err := f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: dec("120.00"),
			FirstDueDate:   date(2024, 2, 10),
		})

		require.NoError(t, err)
		assert.Equal(t, "activa", resp.Status)
		assert.Equal(t, 12, resp.PeriodCount)
		assert.True(t, dec("93.33").Equal(resp.InstallmentAmount))
		assert.True(t, dec("1000.00").Equal(resp.OutstandingBalance))
		require.NotNil(t, resp.NextDueDate)
		assert.Equal(t, date(2024, 2, 15), *resp.NextDueDate)
		assert.Len(t, resp.Schedule, 12)
		assert.Equal(t, "Ana Pérez", resp.Borrower.FullName)

		require.Len(t, f.loans.createdLoans, 1)
		require.Len(t, f.apps.statusSaves, 1)
		assert.Equal(t, valueobject.ApplicationStatusApproved, f.apps.statusSaves[0].Status())
		assert.Empty(t, f.persons.companyUpdates)
		assert.Equal(t, []string{event.TypeLoanApproved}, f.publisher.types())
	})

	t.Run("defaults first due date to today", func(t *testing.T) {
		f := newApproveFixture(newApplication())

		resp, err := f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: dec("120.00"),
		})

		require.NoError(t, err)
		assert.Equal(t, date(2024, 2, 15), resp.Schedule[0].DueDate)
	})

	t.Run("assigns company when given", func(t *testing.T) {
		f := newApproveFixture(newApplication())
		f.companies.findByIDFunc = func(_ context.Context, id string) (model.Company, error) {
			return model.ReconstructCompany(id, "Acme", testNow), nil
		}

		resp, err := f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: dec("120.00"),
			CompanyID:      "company-7",
		})

		require.NoError(t, err)
		assert.Equal(t, "company-7", f.persons.companyUpdates["person-001"])
		assert.Equal(t, "company-7", resp.Borrower.CompanyID)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newApproveFixture(newApplication())

		_, err := f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: dec("120.00"),
			CompanyID:      "missing",
		})

		assert.ErrorIs(t, err, model.ErrNotFound)
		assert.Empty(t, f.loans.createdLoans)
	})

	t.Run("application already decided", func(t *testing.T) {
		approved, err := newApplication().Approve()
		require.NoError(t, err)
		f := newApproveFixture(approved)

		_, err = f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: dec("120.00"),
		})

		assert.ErrorIs(t, err, valueobject.ErrInvalidStatusTransition)
		assert.Empty(t, f.publisher.publishedEvents)
	})

	t.Run("negative interest", func(t *testing.T) {
		f := newApproveFixture(newApplication())

		_, err := f.uc.Execute(context.Background(), dto.ApproveApplicationRequest{
			ApplicationID:  "app-001",
			TargetInterest: decimal.NewFromInt(-1),
		})

		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Empty(t, f.apps.statusSaves)
	})
}

func TestDeclineApplication_Execute(t *testing.T) {
	t.Run("records rejected loan shell", func(t *testing.T) {
		apps := &mockLoanApplicationRepository{
			findByIDFunc: func(context.Context, string) (model.LoanApplication, error) { return newApplication(), nil },
		}
		loans := &mockLoanRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewDeclineApplicationUseCase(apps, loans, &mockTxManager{}, publisher, testEvaluator())
		resp, err := uc.Execute(context.Background(), dto.DeclineApplicationRequest{ApplicationID: "app-001"})

		require.NoError(t, err)
		assert.Equal(t, "rechazada", resp.Status)
		require.Len(t, loans.createdLoans, 1)
		shell := loans.createdLoans[0]
		assert.Equal(t, resp.LoanID, shell.ID())
		assert.Equal(t, valueobject.LoanStatusRejected, shell.Status())
		assert.Empty(t, shell.Schedule())
		assert.Equal(t, []string{event.TypeApplicationDeclined}, publisher.types())
	})

	t.Run("missing application", func(t *testing.T) {
		uc := usecase.NewDeclineApplicationUseCase(&mockLoanApplicationRepository{}, &mockLoanRepository{},
			&mockTxManager{}, &mockEventPublisher{}, testEvaluator())

		_, err := uc.Execute(context.Background(), dto.DeclineApplicationRequest{ApplicationID: "nope"})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}

func TestPreviewSchedule_Execute(t *testing.T) {
	uc := usecase.NewPreviewScheduleUseCase(testEvaluator())

	t.Run("by duration months", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.PreviewScheduleRequest{
			Principal:      dec("1000.00"),
			TargetInterest: dec("120.00"),
			DurationMonths: 6,
			FirstDueDate:   date(2024, 1, 10),
		})

		require.NoError(t, err)
		assert.True(t, dec("93.33").Equal(resp.InstallmentAmount))
		require.Len(t, resp.Rows, 12)
		assert.Equal(t, date(2024, 1, 15), resp.Rows[0].DueDate)
		assert.Equal(t, "pendiente", resp.Rows[0].Status)
		assert.True(t, resp.Rows[11].ClosingBalance.IsZero())
		assert.True(t, resp.TotalCapital.Equal(dec("1000.00")))
	})

	t.Run("period count wins", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.PreviewScheduleRequest{
			Principal:      dec("500.00"),
			TargetInterest: dec("50.00"),
			PeriodCount:    1,
			DurationMonths: 6,
			FirstDueDate:   date(2024, 5, 3),
		})

		require.NoError(t, err)
		require.Len(t, resp.Rows, 1)
		assert.True(t, dec("550.00").Equal(resp.Rows[0].Amount))
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := uc.Execute(context.Background(), dto.PreviewScheduleRequest{
			Principal:      dec("500.00"),
			TargetInterest: dec("50.00"),
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
