package model_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func cents(n int) decimal.Decimal { return decimal.New(int64(n), -2) }

func TestGenerateSchedule_ThousandOverTwelveQuincenas(t *testing.T) {
	plan, err := model.GenerateSchedule(dec("1000.00"), dec("120.00"), 12, date(2024, 1, 10))
	require.NoError(t, err)

	assert.True(t, dec("93.33").Equal(plan.InstallmentAmount), "installment %s", plan.InstallmentAmount)
	require.Len(t, plan.Rows, 12)

	first := plan.Rows[0]
	assert.Equal(t, 1, first.PeriodIndex)
	assert.Equal(t, date(2024, 1, 15), first.DueDate)
	assert.True(t, dec("1000.00").Equal(first.OpeningBalance))

	wantDates := []time.Time{
		date(2024, 1, 15), date(2024, 1, 31),
		date(2024, 2, 15), date(2024, 2, 29),
		date(2024, 3, 15), date(2024, 3, 31),
		date(2024, 4, 15), date(2024, 4, 30),
		date(2024, 5, 15), date(2024, 5, 31),
		date(2024, 6, 15), date(2024, 6, 30),
	}
	for i, row := range plan.Rows {
		assert.Equal(t, wantDates[i], row.DueDate, "row %d", row.PeriodIndex)
	}

	last := plan.Rows[11]
	assert.True(t, last.ClosingBalance.IsZero())
	assert.True(t, last.Capital.Equal(last.OpeningBalance))

	assert.True(t, plan.TotalCapital().Sub(dec("1000.00")).Abs().LessThanOrEqual(cents(12)),
		"capital sum %s", plan.TotalCapital())
	assert.True(t, plan.TotalInterest().Sub(dec("120.00")).Abs().LessThanOrEqual(cents(12)),
		"interest sum %s", plan.TotalInterest())
}

func TestGenerateSchedule_SinglePeriod(t *testing.T) {
	plan, err := model.GenerateSchedule(dec("500.00"), dec("50.00"), 1, date(2024, 5, 3))
	require.NoError(t, err)
	require.Len(t, plan.Rows, 1)

	row := plan.Rows[0]
	assert.True(t, dec("500.00").Equal(row.Capital))
	assert.True(t, dec("50.00").Equal(row.Interest))
	assert.True(t, row.ClosingBalance.IsZero())
	assert.True(t, dec("550.00").Equal(row.Amount))
	assert.Equal(t, date(2024, 5, 15), row.DueDate)
}

func TestGenerateSchedule_FifteenthBoundary(t *testing.T) {
	plan, err := model.GenerateSchedule(dec("300.00"), dec("30.00"), 4, date(2024, 3, 15))
	require.NoError(t, err)
	require.Len(t, plan.Rows, 4)

	assert.Equal(t, date(2024, 3, 15), plan.Rows[0].DueDate)
	assert.Equal(t, date(2024, 3, 31), plan.Rows[1].DueDate)
	assert.Equal(t, date(2024, 4, 15), plan.Rows[2].DueDate)
	assert.Equal(t, date(2024, 4, 30), plan.Rows[3].DueDate)
}

func TestGenerateSchedule_YearRollover(t *testing.T) {
	plan, err := model.GenerateSchedule(dec("400.00"), dec("40.00"), 4, date(2024, 12, 20))
	require.NoError(t, err)

	assert.Equal(t, date(2024, 12, 31), plan.Rows[0].DueDate)
	assert.Equal(t, date(2025, 1, 15), plan.Rows[1].DueDate)
	assert.Equal(t, date(2025, 1, 31), plan.Rows[2].DueDate)
	assert.Equal(t, date(2025, 2, 15), plan.Rows[3].DueDate)
}

func TestGenerateSchedule_ZeroInterestWithRoundingRemainder(t *testing.T) {
	plan, err := model.GenerateSchedule(dec("1000.00"), decimal.Zero, 3, date(2024, 1, 1))
	require.NoError(t, err)
	require.Len(t, plan.Rows, 3)

	assert.True(t, dec("333.33").Equal(plan.InstallmentAmount))
	for _, row := range plan.Rows {
		assert.True(t, row.Interest.IsZero(), "row %d interest %s", row.PeriodIndex, row.Interest)
	}
	last := plan.Rows[2]
	assert.True(t, dec("333.34").Equal(last.Capital))
	assert.True(t, dec("333.34").Equal(last.Amount))
	assert.True(t, last.ClosingBalance.IsZero())
	assert.True(t, dec("1000.00").Equal(plan.TotalCapital()))
}

func TestGenerateSchedule_Invariants(t *testing.T) {
	inputs := []struct {
		principal string
		interest  string
		periods   int
		start     time.Time
	}{
		{"1000.00", "120.00", 12, date(2024, 1, 10)},
		{"250.00", "0.00", 4, date(2024, 2, 16)},
		{"999.99", "333.33", 7, date(2023, 11, 30)},
		{"5000.00", "1750.00", 24, date(2024, 7, 15)},
		{"100.00", "1000.00", 2, date(2024, 8, 1)},
		{"1.00", "0.01", 6, date(2024, 9, 9)},
		{"12345.67", "2345.67", 48, date(2025, 1, 31)},
	}

	for _, in := range inputs {
		t.Run(fmt.Sprintf("%s+%s/%d", in.principal, in.interest, in.periods), func(t *testing.T) {
			principal := dec(in.principal)
			target := dec(in.interest)

			plan, err := model.GenerateSchedule(principal, target, in.periods, in.start)
			require.NoError(t, err)
			require.Len(t, plan.Rows, in.periods)

			tolerance := cents(in.periods)
			assert.True(t, plan.Rows[0].OpeningBalance.Equal(principal))
			assert.Equal(t, model.FirstQuincena(in.start), plan.Rows[0].DueDate)

			for i, row := range plan.Rows {
				assert.Equal(t, i+1, row.PeriodIndex)
				assert.Equal(t, valueobject.InstallmentStatusPending, row.Status)
				assert.False(t, row.Interest.IsNegative())
				assert.False(t, row.Capital.IsNegative())
				assert.False(t, row.ClosingBalance.IsNegative())
				assert.True(t, row.ClosingBalance.LessThanOrEqual(row.OpeningBalance))
				assert.True(t, row.OpeningBalance.Sub(row.Capital).Equal(row.ClosingBalance))
				assert.True(t, row.Interest.Add(row.Capital).Sub(row.Amount).Abs().LessThanOrEqual(cents(1)))

				if i > 0 {
					prev := plan.Rows[i-1]
					assert.True(t, prev.ClosingBalance.Equal(row.OpeningBalance))
					assert.True(t, row.DueDate.After(prev.DueDate))
					assert.Equal(t, model.NextQuincena(prev.DueDate), row.DueDate)
				}
			}

			last := plan.Rows[len(plan.Rows)-1]
			assert.True(t, last.ClosingBalance.IsZero())
			assert.True(t, plan.TotalCapital().Sub(principal).Abs().LessThanOrEqual(tolerance))
			assert.True(t, plan.TotalInterest().Sub(target).Abs().LessThanOrEqual(tolerance),
				"interest %s target %s", plan.TotalInterest(), target)
		})
	}
}

func TestGenerateSchedule_Deterministic(t *testing.T) {
	a, err := model.GenerateSchedule(dec("1800.00"), dec("275.50"), 20, date(2024, 4, 2))
	require.NoError(t, err)
	b, err := model.GenerateSchedule(dec("1800.00"), dec("275.50"), 20, date(2024, 4, 2))
	require.NoError(t, err)

	assert.Equal(t, a.ImpliedRate, b.ImpliedRate)
	require.Len(t, b.Rows, len(a.Rows))
	for i := range a.Rows {
		assert.Equal(t, a.Rows[i].DueDate, b.Rows[i].DueDate)
		assert.Equal(t, a.Rows[i].Interest.String(), b.Rows[i].Interest.String())
		assert.Equal(t, a.Rows[i].Capital.String(), b.Rows[i].Capital.String())
		assert.Equal(t, a.Rows[i].ClosingBalance.String(), b.Rows[i].ClosingBalance.String())
	}
}

func TestGenerateSchedule_InvalidInput(t *testing.T) {
	tests := []struct {
		name      string
		principal decimal.Decimal
		interest  decimal.Decimal
		periods   int
		first     time.Time
	}{
		{name: "zero principal", principal: decimal.Zero, interest: dec("10"), periods: 2, first: date(2024, 1, 1)},
		{name: "negative principal", principal: dec("-5"), interest: dec("10"), periods: 2, first: date(2024, 1, 1)},
		{name: "negative interest", principal: dec("100"), interest: dec("-0.01"), periods: 2, first: date(2024, 1, 1)},
		{name: "zero periods", principal: dec("100"), interest: dec("10"), periods: 0, first: date(2024, 1, 1)},
		{name: "negative periods", principal: dec("100"), interest: dec("10"), periods: -3, first: date(2024, 1, 1)},
		{name: "missing first due date", principal: dec("100"), interest: dec("10"), periods: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := model.GenerateSchedule(tt.principal, tt.interest, tt.periods, tt.first)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
			assert.Empty(t, plan.Rows)
		})
	}
}
