package model_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/domain/event"
	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

var loanNow = time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)

func newTestLoan(t *testing.T) model.Loan {
	t.Helper()
	loan, err := model.NewLoan("app-1", dec("1000.00"), dec("120.00"), 12, date(2024, 1, 10), loanNow)
	require.NoError(t, err)
	return loan
}

func eventTypes(events []event.DomainEvent) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.EventType())
	}
	return out
}

func TestLoan_Creation(t *testing.T) {
	loan := newTestLoan(t)

	assert.NotEmpty(t, loan.ID())
	assert.Equal(t, "app-1", loan.ApplicationID())
	assert.True(t, loan.Principal().Equal(dec("1000.00")))
	assert.True(t, loan.TotalInterest().Equal(dec("120.00")))
	assert.True(t, loan.InstallmentAmount().Equal(dec("93.33")))
	assert.Equal(t, 12, loan.PeriodCount())
	assert.True(t, loan.Status().Equal(valueobject.LoanStatusActive))
	assert.True(t, loan.OutstandingBalance().Equal(dec("1000.00")))
	assert.Equal(t, date(2024, 1, 15), loan.NextDueDate())
	assert.Len(t, loan.Schedule(), 12)
	assert.Equal(t, 1, loan.Version())
	assert.Equal(t, []string{event.TypeLoanApproved}, eventTypes(loan.DomainEvents()))
}

func TestLoan_Creation_PropagatesScheduleErrors(t *testing.T) {
	_, err := model.NewLoan("app-1", decimal.Zero, dec("10"), 4, date(2024, 1, 1), loanNow)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = model.NewLoan("", dec("100"), dec("10"), 4, date(2024, 1, 1), loanNow)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestLoan_RecordPayment(t *testing.T) {
	loan := newTestLoan(t).ClearEvents()
	first, err := loan.Installment(1)
	require.NoError(t, err)

	updated, payment, err := loan.RecordPayment(1, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)

	assert.True(t, updated.OutstandingBalance().Equal(dec("1000.00").Sub(first.Capital)),
		"outstanding %s", updated.OutstandingBalance())
	assert.Equal(t, date(2024, 1, 31), updated.NextDueDate())
	assert.True(t, updated.Status().Equal(valueobject.LoanStatusActive))
	assert.Equal(t, []string{event.TypePaymentRecorded}, eventTypes(updated.DomainEvents()))

	row, err := updated.Installment(1)
	require.NoError(t, err)
	assert.True(t, row.IsPaid())

	assert.NotEmpty(t, payment.ID())
	assert.Equal(t, loan.ID(), payment.LoanID())
	assert.Equal(t, 1, payment.PeriodIndex())
	assert.True(t, payment.Amount().Equal(dec("93.33")))
	assert.False(t, payment.IsReversed())

	// the original value is untouched
	orig, _ := loan.Installment(1)
	assert.False(t, orig.IsPaid())
	assert.True(t, loan.OutstandingBalance().Equal(dec("1000.00")))
}

func TestLoan_RecordPayment_OutOfOrderKeepsEarliestPendingDue(t *testing.T) {
	loan := newTestLoan(t)

	updated, _, err := loan.RecordPayment(3, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 1, 15), updated.NextDueDate())

	next, ok := updated.NextPendingInstallment()
	require.True(t, ok)
	assert.Equal(t, 1, next.PeriodIndex)
	assert.Len(t, updated.UnpaidInstallments(), 11)
}

func TestLoan_RecordPayment_CompletesLoan(t *testing.T) {
	loan := newTestLoan(t).ClearEvents()

	var err error
	for i := 1; i <= 12; i++ {
		loan, _, err = loan.RecordPayment(i, dec("93.33"), date(2024, 6, 30), loanNow)
		require.NoError(t, err)
	}

	assert.True(t, loan.Status().Equal(valueobject.LoanStatusCompleted))
	assert.True(t, loan.OutstandingBalance().IsZero(), "outstanding %s", loan.OutstandingBalance())
	assert.True(t, loan.NextDueDate().IsZero())
	assert.Empty(t, loan.UnpaidInstallments())

	types := eventTypes(loan.DomainEvents())
	assert.Equal(t, event.TypeLoanCompleted, types[len(types)-1])

	var interest decimal.Decimal
	for _, row := range loan.Schedule() {
		interest = interest.Add(row.Interest)
	}
	assert.True(t, loan.InterestEarned().Equal(interest))
}

func TestLoan_RecordPayment_Errors(t *testing.T) {
	loan := newTestLoan(t)
	paid, _, err := loan.RecordPayment(1, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)

	rejected, err := model.NewRejectedLoan("app-2", dec("500"), loanNow)
	require.NoError(t, err)

	tests := []struct {
		name    string
		loan    model.Loan
		period  int
		amount  decimal.Decimal
		paidOn  time.Time
		wantErr error
	}{
		{name: "zero amount", loan: loan, period: 1, amount: decimal.Zero, paidOn: date(2024, 1, 14), wantErr: model.ErrInvalidInput},
		{name: "negative amount", loan: loan, period: 1, amount: dec("-1"), paidOn: date(2024, 1, 14), wantErr: model.ErrInvalidInput},
		{name: "missing date", loan: loan, period: 1, amount: dec("93.33"), wantErr: model.ErrInvalidInput},
		{name: "unknown period", loan: loan, period: 13, amount: dec("93.33"), paidOn: date(2024, 1, 14), wantErr: model.ErrInstallmentNotFound},
		{name: "already paid", loan: paid, period: 1, amount: dec("93.33"), paidOn: date(2024, 1, 14), wantErr: model.ErrInstallmentAlreadyPaid},
		{name: "rejected loan", loan: rejected, period: 1, amount: dec("93.33"), paidOn: date(2024, 1, 14), wantErr: valueobject.ErrInvalidStatusTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.loan.RecordPayment(tt.period, tt.amount, tt.paidOn, loanNow)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoan_ReversePayment(t *testing.T) {
	loan := newTestLoan(t)
	paid, payment, err := loan.RecordPayment(1, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)

	reversedAt := loanNow.Add(time.Hour)
	restored, reversed, err := paid.ClearEvents().ReversePayment(payment, reversedAt)
	require.NoError(t, err)

	assert.True(t, restored.OutstandingBalance().Equal(dec("1000.00")))
	assert.True(t, restored.Status().Equal(valueobject.LoanStatusActive))
	assert.Equal(t, date(2024, 1, 15), restored.NextDueDate())
	assert.Equal(t, []string{event.TypePaymentReversed}, eventTypes(restored.DomainEvents()))

	row, err := restored.Installment(1)
	require.NoError(t, err)
	assert.Equal(t, valueobject.InstallmentStatusPending, row.Status)

	require.True(t, reversed.IsReversed())
	assert.Equal(t, reversedAt, *reversed.ReversedAt())
	assert.False(t, payment.IsReversed())

	_, _, err = restored.ReversePayment(reversed, reversedAt)
	assert.ErrorIs(t, err, model.ErrPaymentAlreadyReversed)
}

func TestLoan_ReversePayment_ReopensCompletedLoan(t *testing.T) {
	loan := newTestLoan(t)
	var (
		last model.Payment
		err  error
	)
	for i := 1; i <= 12; i++ {
		loan, last, err = loan.RecordPayment(i, dec("93.33"), date(2024, 6, 30), loanNow)
		require.NoError(t, err)
	}
	require.True(t, loan.Status().Equal(valueobject.LoanStatusCompleted))

	reopened, _, err := loan.ReversePayment(last, loanNow)
	require.NoError(t, err)

	lastRow, _ := reopened.Installment(12)
	assert.True(t, reopened.Status().Equal(valueobject.LoanStatusActive))
	assert.True(t, reopened.OutstandingBalance().Equal(lastRow.Capital))
	assert.Equal(t, date(2024, 6, 30), reopened.NextDueDate())
}

func TestLoan_ReversePayment_CapsAtPrincipal(t *testing.T) {
	loan := newTestLoan(t)
	paid, payment, err := loan.RecordPayment(2, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)

	state := model.LoanState{
		ID:                paid.ID(),
		ApplicationID:     paid.ApplicationID(),
		Principal:         paid.Principal(),
		TotalInterest:     paid.TotalInterest(),
		InstallmentAmount: paid.InstallmentAmount(),
		PeriodCount:       paid.PeriodCount(),
		Outstanding:       dec("999.99"),
		NextDueDate:       paid.NextDueDate(),
		Status:            paid.Status(),
		Schedule:          paid.Schedule(),
		Version:           3,
	}
	drifted := model.ReconstructLoan(state)

	restored, _, err := drifted.ReversePayment(payment, loanNow)
	require.NoError(t, err)
	assert.True(t, restored.OutstandingBalance().Equal(dec("1000.00")))
	assert.Equal(t, 3, restored.Version())
}

func TestLoan_ReversePayment_Errors(t *testing.T) {
	loan := newTestLoan(t)
	other := newTestLoan(t)
	_, payment, err := other.RecordPayment(1, dec("93.33"), date(2024, 1, 14), loanNow)
	require.NoError(t, err)

	_, _, err = loan.ReversePayment(payment, loanNow)
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	unpaid := model.ReconstructPayment("pay-1", loan.ID(), 2, dec("93.33"), date(2024, 1, 14), loanNow, nil)
	_, _, err = loan.ReversePayment(unpaid, loanNow)
	assert.ErrorIs(t, err, model.ErrInstallmentNotPaid)
}

func TestNewRejectedLoan(t *testing.T) {
	loan, err := model.NewRejectedLoan("app-9", dec("750.00"), loanNow)
	require.NoError(t, err)

	assert.True(t, loan.Status().Equal(valueobject.LoanStatusRejected))
	assert.True(t, loan.Principal().Equal(dec("750.00")))
	assert.True(t, loan.TotalInterest().IsZero())
	assert.True(t, loan.InstallmentAmount().IsZero())
	assert.True(t, loan.OutstandingBalance().IsZero())
	assert.Zero(t, loan.PeriodCount())
	assert.Empty(t, loan.Schedule())
	assert.Empty(t, loan.DomainEvents())

	_, ok := loan.NextPendingInstallment()
	assert.False(t, ok)
}

func TestLoan_MarkDeleted(t *testing.T) {
	loan := newTestLoan(t).ClearEvents().MarkDeleted(loanNow)
	assert.Equal(t, []string{event.TypeLoanDeleted}, eventTypes(loan.DomainEvents()))
}
