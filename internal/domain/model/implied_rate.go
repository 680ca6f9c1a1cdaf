package model

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/pkg/money"
)

// ImpliedRateIterations is the fixed number of bisection steps. The search
// never exits early so the solved rate is bit-for-bit reproducible.
const ImpliedRateIterations = 200

// halfCent is the per-period rounding slack allowed when checking that the
// level installment can amortize the principal.
var halfCent = decimal.New(5, -3)

// SolveImpliedRate finds the periodic rate r in [0, 1] for which the present
// value of periods level payments of installment equals principal:
//
//	sum(i=1..n) installment / (1+r)^i == principal
//
// It returns ErrInvalidInput for non-positive arguments and
// ErrInfeasibleSchedule when installment*periods falls short of principal by
// more than half a cent per period.
func SolveImpliedRate(principal, installment decimal.Decimal, periods int) (float64, error) {
	if periods <= 0 {
		return 0, fmt.Errorf("%w: period count must be positive, got %d", ErrInvalidInput, periods)
	}
	if !principal.IsPositive() {
		return 0, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidInput, principal)
	}
	if !installment.IsPositive() {
		return 0, fmt.Errorf("%w: installment must be positive, got %s", ErrInvalidInput, installment)
	}

	n := decimal.NewFromInt(int64(periods))
	shortfall := principal.Sub(installment.Mul(n))
	if shortfall.GreaterThan(halfCent.Mul(n)) {
		return 0, fmt.Errorf("%w: %d installments of %s cannot repay %s",
			ErrInfeasibleSchedule, periods, money.Format(installment), money.Format(principal))
	}

	p := principal.InexactFloat64()
	a := installment.InexactFloat64()

	low, high := 0.0, 1.0
	for i := 0; i < ImpliedRateIterations; i++ {
		mid := (low + high) / 2
		if annuityPresentValue(a, mid, periods) > p {
			low = mid
		} else {
			high = mid
		}
	}
	return (low + high) / 2, nil
}

// annuityPresentValue sums the discounted payments term by term.
func annuityPresentValue(payment, rate float64, periods int) float64 {
	pv := 0.0
	for i := 1; i <= periods; i++ {
		pv += payment / math.Pow(1+rate, float64(i))
	}
	return pv
}
