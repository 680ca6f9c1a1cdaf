package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/application/dto"
	"github.com/andresv02/loan-management-system/internal/application/usecase"
	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/model"
)

func validSubmitRequest() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		Cedula:            "8-888-8888",
		FirstName:         "Ana",
		LastName:          "Pérez",
		Email:             "ana@example.test",
		MonthlySalary:     dec("900.00"),
		MonthsEmployed:    12,
		RequestedAmount:   dec("500.00"),
		DurationMonths:    3,
		BankAccountType:   "ahorros",
		BankAccountNumber: "04-123",
		BankName:          "Banco General",
		Employer:          "Acme",
	}
}

func TestSubmitApplication_Execute(t *testing.T) {
	t.Run("creates person and application", func(t *testing.T) {
		persons := &mockPersonRepository{}
		apps := &mockLoanApplicationRepository{}
		tx := &mockTxManager{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewSubmitApplicationUseCase(persons, apps, tx, publisher, testEvaluator())
		resp, err := uc.Execute(context.Background(), validSubmitRequest())

		require.NoError(t, err)
		require.Len(t, persons.saved, 1)
		require.Len(t, apps.savedApps, 1)
		assert.Equal(t, 1, tx.calls)
		assert.Equal(t, persons.saved[0].ID(), resp.PersonID)
		assert.Equal(t, "nueva", resp.Status)
		assert.Equal(t, 6, resp.PeriodCount)
		assert.Equal(t, "Banco General", resp.BankName)
		require.NotNil(t, resp.Borrower)
		assert.Equal(t, "Ana Pérez", resp.Borrower.FullName)
		assert.Equal(t, []string{event.TypeApplicationSubmitted}, publisher.types())
	})

	t.Run("reuses existing person without overwriting", func(t *testing.T) {
		existing := testPerson()
		persons := &mockPersonRepository{
			findByCedulaFunc: func(_ context.Context, cedula string) (model.Person, error) {
				assert.Equal(t, "8-888-8888", cedula)
				return existing, nil
			},
		}
		apps := &mockLoanApplicationRepository{}

		req := validSubmitRequest()
		req.FirstName = "Otra"
		uc := usecase.NewSubmitApplicationUseCase(persons, apps, &mockTxManager{}, &mockEventPublisher{}, testEvaluator())
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Empty(t, persons.saved)
		assert.Equal(t, "person-001", resp.PersonID)
		assert.Equal(t, "Ana", resp.Borrower.FirstName)
	})

	t.Run("rejects invalid borrower", func(t *testing.T) {
		req := validSubmitRequest()
		req.Cedula = ""
		uc := usecase.NewSubmitApplicationUseCase(&mockPersonRepository{}, &mockLoanApplicationRepository{},
			&mockTxManager{}, &mockEventPublisher{}, testEvaluator())

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("rejects invalid application", func(t *testing.T) {
		req := validSubmitRequest()
		req.DurationMonths = 0
		apps := &mockLoanApplicationRepository{}
		uc := usecase.NewSubmitApplicationUseCase(&mockPersonRepository{}, apps,
			&mockTxManager{}, &mockEventPublisher{}, testEvaluator())

		_, err := uc.Execute(context.Background(), req)
		assert.ErrorIs(t, err, model.ErrInvalidInput)
		assert.Empty(t, apps.savedApps)
	})

	t.Run("surfaces lookup failures", func(t *testing.T) {
		persons := &mockPersonRepository{
			findByCedulaFunc: func(context.Context, string) (model.Person, error) {
				return model.Person{}, errors.New("connection refused")
			},
		}
		uc := usecase.NewSubmitApplicationUseCase(persons, &mockLoanApplicationRepository{},
			&mockTxManager{}, &mockEventPublisher{}, testEvaluator())

		_, err := uc.Execute(context.Background(), validSubmitRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "find person")
	})

	t.Run("fails when publishing fails", func(t *testing.T) {
		publisher := &mockEventPublisher{
			publishFunc: func(context.Context, ...event.DomainEvent) error { return errors.New("broker down") },
		}
		uc := usecase.NewSubmitApplicationUseCase(&mockPersonRepository{}, &mockLoanApplicationRepository{},
			&mockTxManager{}, publisher, testEvaluator())

		_, err := uc.Execute(context.Background(), validSubmitRequest())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "publish events")
	})
}

func TestListApplications_Execute(t *testing.T) {
	t.Run("applies defaults and maps borrowers", func(t *testing.T) {
		var got model.ApplicationFilter
		apps := &mockLoanApplicationRepository{
			listFunc: func(_ context.Context, f model.ApplicationFilter) (model.ApplicationPage, error) {
				got = f
				return model.ApplicationPage{
					Items: []model.ApplicationListItem{{Application: newApplication(), Borrower: testPerson()}},
					Total: 41,
				}, nil
			},
		}

		uc := usecase.NewListApplicationsUseCase(apps)
		resp, err := uc.Execute(context.Background(), dto.ListApplicationsRequest{Status: "nueva"})

		require.NoError(t, err)
		assert.Equal(t, 1, got.Page)
		assert.Equal(t, 20, got.Limit)
		assert.Equal(t, "nueva", got.Status.String())
		assert.Equal(t, 41, resp.Total)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "8-888-8888", resp.Items[0].Borrower.Cedula)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		uc := usecase.NewListApplicationsUseCase(&mockLoanApplicationRepository{})
		_, err := uc.Execute(context.Background(), dto.ListApplicationsRequest{Status: "pendiente"})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})

	t.Run("rejects inverted date range", func(t *testing.T) {
		uc := usecase.NewListApplicationsUseCase(&mockLoanApplicationRepository{})
		_, err := uc.Execute(context.Background(), dto.ListApplicationsRequest{
			CreatedFrom: date(2024, 3, 1),
			CreatedTo:   date(2024, 2, 1),
		})
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}
