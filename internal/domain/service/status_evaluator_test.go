package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/service"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixedAt(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestStatusEvaluator_TodayUsesBusinessTimezone(t *testing.T) {
	panama, err := time.LoadLocation("America/Panama")
	require.NoError(t, err)

	// 02:00 UTC on the 16th is still the 15th in Panama.
	e := service.NewStatusEvaluator(panama, fixedAt(time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)))
	assert.Equal(t, date(2024, 3, 15), e.Today())
	assert.False(t, e.IsOverdue(date(2024, 3, 15)))
	assert.True(t, e.IsOverdue(date(2024, 3, 14)))

	utc := service.NewStatusEvaluator(nil, fixedAt(time.Date(2024, 3, 16, 2, 0, 0, 0, time.UTC)))
	assert.True(t, utc.IsOverdue(date(2024, 3, 15)))
}

func TestStatusEvaluator_InstallmentStatus(t *testing.T) {
	e := service.NewStatusEvaluator(time.UTC, fixedAt(time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)))

	tests := []struct {
		name string
		row  model.Installment
		want valueobject.InstallmentStatus
	}{
		{
			name: "pending past due",
			row:  model.Installment{DueDate: date(2024, 1, 31), Status: valueobject.InstallmentStatusPending},
			want: valueobject.InstallmentStatusLate,
		},
		{
			name: "pending due today",
			row:  model.Installment{DueDate: date(2024, 2, 1), Status: valueobject.InstallmentStatusPending},
			want: valueobject.InstallmentStatusPending,
		},
		{
			name: "paid past due",
			row:  model.Installment{DueDate: date(2024, 1, 15), Status: valueobject.InstallmentStatusPaid},
			want: valueobject.InstallmentStatusPaid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.InstallmentStatus(tt.row))
		})
	}
}

func TestStatusEvaluator_LoanStatus(t *testing.T) {
	created := date(2024, 1, 1)
	loan, err := model.NewLoan("app-1", decimal.NewFromInt(400), decimal.NewFromInt(40), 4, date(2024, 1, 10), created)
	require.NoError(t, err)

	before := service.NewStatusEvaluator(time.UTC, fixedAt(date(2024, 1, 15)))
	assert.Equal(t, valueobject.LoanStatusActive, before.LoanStatus(loan))
	assert.Equal(t, valueobject.LoanStatusActive, before.ListedLoanStatus(loan))

	after := service.NewStatusEvaluator(time.UTC, fixedAt(date(2024, 1, 16)))
	assert.Equal(t, valueobject.LoanStatusLate, after.LoanStatus(loan))
	assert.Equal(t, valueobject.LoanStatusLate, after.ListedLoanStatus(loan))

	paid, _, err := loan.RecordPayment(1, decimal.NewFromInt(110), date(2024, 1, 15), created)
	require.NoError(t, err)
	assert.Equal(t, valueobject.LoanStatusActive, after.LoanStatus(paid))

	rejected, err := model.NewRejectedLoan("app-2", decimal.NewFromInt(100), created)
	require.NoError(t, err)
	assert.Equal(t, valueobject.LoanStatusRejected, after.LoanStatus(rejected))
}
