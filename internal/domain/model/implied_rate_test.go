package model_test

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresv02/loan-management-system/internal/domain/model"
)

func presentValue(payment, rate float64, n int) float64 {
	pv := 0.0
	for i := 1; i <= n; i++ {
		pv += payment / math.Pow(1+rate, float64(i))
	}
	return pv
}

func TestSolveImpliedRate(t *testing.T) {
	tests := []struct {
		name        string
		principal   string
		installment string
		periods     int
	}{
		{name: "twelve quincenas", principal: "1000.00", installment: "93.33", periods: 12},
		{name: "short loan", principal: "500.00", installment: "275.00", periods: 2},
		{name: "long loan", principal: "2500.00", installment: "120.00", periods: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := decimal.RequireFromString(tt.principal)
			a := decimal.RequireFromString(tt.installment)

			r, err := model.SolveImpliedRate(p, a, tt.periods)
			require.NoError(t, err)
			assert.Greater(t, r, 0.0)
			assert.Less(t, r, 1.0)
			assert.InDelta(t, p.InexactFloat64(), presentValue(a.InexactFloat64(), r, tt.periods), 1e-6)
		})
	}
}

func TestSolveImpliedRate_SinglePeriod(t *testing.T) {
	r, err := model.SolveImpliedRate(decimal.NewFromInt(500), decimal.NewFromInt(550), 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.10, r, 1e-12)
}

func TestSolveImpliedRate_ZeroInterest(t *testing.T) {
	r, err := model.SolveImpliedRate(decimal.NewFromInt(1200), decimal.NewFromInt(100), 12)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-12)
}

func TestSolveImpliedRate_Deterministic(t *testing.T) {
	p := decimal.RequireFromString("1375.50")
	a := decimal.RequireFromString("61.27")

	first, err := model.SolveImpliedRate(p, a, 24)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := model.SolveImpliedRate(p, a, 24)
		require.NoError(t, err)
		assert.Equal(t, math.Float64bits(first), math.Float64bits(again))
	}
}

func TestSolveImpliedRate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		principal   decimal.Decimal
		installment decimal.Decimal
		periods     int
		wantErr     error
	}{
		{
			name:        "zero principal",
			principal:   decimal.Zero,
			installment: decimal.NewFromInt(10),
			periods:     4,
			wantErr:     model.ErrInvalidInput,
		},
		{
			name:        "negative installment",
			principal:   decimal.NewFromInt(100),
			installment: decimal.NewFromInt(-10),
			periods:     4,
			wantErr:     model.ErrInvalidInput,
		},
		{
			name:        "zero periods",
			principal:   decimal.NewFromInt(100),
			installment: decimal.NewFromInt(10),
			periods:     0,
			wantErr:     model.ErrInvalidInput,
		},
		{
			name:        "installments cannot repay principal",
			principal:   decimal.NewFromInt(1000),
			installment: decimal.NewFromInt(10),
			periods:     12,
			wantErr:     model.ErrInfeasibleSchedule,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := model.SolveImpliedRate(tt.principal, tt.installment, tt.periods)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSolveImpliedRate_RoundingShortfallTolerated(t *testing.T) {
	// 3 x 333.33 is one cent short of 1000.00.
	r, err := model.SolveImpliedRate(decimal.NewFromInt(1000), decimal.RequireFromString("333.33"), 3)
	require.NoError(t, err)
	assert.InDelta(t, 0, r, 1e-12)
}
