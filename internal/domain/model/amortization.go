package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/valueobject"
	"github.com/andresv02/loan-management-system/pkg/money"
)

// Installment is one bi-weekly row of an amortization schedule.
// Amount == Interest + Capital and ClosingBalance == OpeningBalance - Capital.
type Installment struct {
	PeriodIndex    int
	DueDate        time.Time
	Amount         decimal.Decimal
	Interest       decimal.Decimal
	Capital        decimal.Decimal
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Status         valueobject.InstallmentStatus
}

// IsPaid reports whether the installment has been settled.
func (i Installment) IsPaid() bool {
	return i.Status.Equal(valueobject.InstallmentStatusPaid)
}

// AmortizationPlan is the output of GenerateSchedule. ImpliedRate is the
// solved periodic rate; it is informational and never persisted.
type AmortizationPlan struct {
	InstallmentAmount decimal.Decimal
	ImpliedRate       float64
	Rows              []Installment
}

// TotalInterest sums the interest portion of every row.
func (p AmortizationPlan) TotalInterest() decimal.Decimal {
	amounts := make([]decimal.Decimal, len(p.Rows))
	for i, r := range p.Rows {
		amounts[i] = r.Interest
	}
	return money.Sum(amounts...)
}

// TotalCapital sums the capital portion of every row.
func (p AmortizationPlan) TotalCapital() decimal.Decimal {
	amounts := make([]decimal.Decimal, len(p.Rows))
	for i, r := range p.Rows {
		amounts[i] = r.Capital
	}
	return money.Sum(amounts...)
}

// GenerateSchedule builds a level-installment bi-weekly schedule that repays
// principal plus targetInterest over periodCount quincenas.
//
// The installment is round2((principal+targetInterest)/periodCount). The
// interest/capital split of each row follows the periodic rate implied by that
// installment (see SolveImpliedRate). Every amount is rounded to cents, half
// away from zero. The last row always absorbs the remaining balance so the
// schedule closes at exactly 0.00.
//
// Row 1 falls on FirstQuincena(firstDueDate) and each subsequent row on
// NextQuincena of the previous one. All rows are pendiente.
func GenerateSchedule(
	principal decimal.Decimal,
	targetInterest decimal.Decimal,
	periodCount int,
	firstDueDate time.Time,
) (AmortizationPlan, error) {
	if !principal.IsPositive() {
		return AmortizationPlan{}, fmt.Errorf("%w: principal must be positive, got %s", ErrInvalidInput, principal)
	}
	if targetInterest.IsNegative() {
		return AmortizationPlan{}, fmt.Errorf("%w: target interest must not be negative, got %s", ErrInvalidInput, targetInterest)
	}
	if periodCount <= 0 {
		return AmortizationPlan{}, fmt.Errorf("%w: period count must be positive, got %d", ErrInvalidInput, periodCount)
	}
	if firstDueDate.IsZero() {
		return AmortizationPlan{}, fmt.Errorf("%w: first due date is required", ErrInvalidInput)
	}

	n := decimal.NewFromInt(int64(periodCount))
	installment := money.Round(principal.Add(targetInterest).Div(n))

	rate, err := SolveImpliedRate(principal, installment, periodCount)
	if err != nil {
		return AmortizationPlan{}, err
	}
	r := decimal.NewFromFloat(rate)

	rows := make([]Installment, 0, periodCount)
	opening := money.Round(principal)
	dueDate := FirstQuincena(firstDueDate)

	for i := 1; i <= periodCount; i++ {
		interest := money.Round(opening.Mul(r))
		capital := money.Round(installment.Sub(interest))
		closing := money.Round(opening.Sub(capital))

		// Overshoot: never amortize more than what is left.
		if capital.GreaterThan(opening) {
			capital = opening
			closing = decimal.Zero
			interest = money.Round(installment.Sub(capital))
		}

		amount := installment
		if i == periodCount {
			capital = opening
			closing = decimal.Zero
			interest = money.Round(installment.Sub(capital))

			if interest.IsNegative() {
				// Installments rounded down at zero interest leave a few cents
				// of principal for the last row.
				if interest.Abs().GreaterThan(centsFor(periodCount)) {
					return AmortizationPlan{}, fmt.Errorf("%w: final interest %s", ErrRoundingReconciliation, money.Format(interest))
				}
				interest = decimal.Zero
				amount = capital
			}
		}

		if capital.IsNegative() || interest.IsNegative() || closing.IsNegative() {
			return AmortizationPlan{}, fmt.Errorf("%w: period %d capital %s interest %s",
				ErrRoundingReconciliation, i, money.Format(capital), money.Format(interest))
		}

		rows = append(rows, Installment{
			PeriodIndex:    i,
			DueDate:        dueDate,
			Amount:         amount,
			Interest:       interest,
			Capital:        capital,
			OpeningBalance: opening,
			ClosingBalance: closing,
			Status:         valueobject.InstallmentStatusPending,
		})

		opening = closing
		dueDate = NextQuincena(dueDate)
	}

	return AmortizationPlan{
		InstallmentAmount: installment,
		ImpliedRate:       rate,
		Rows:              rows,
	}, nil
}

func centsFor(periods int) decimal.Decimal {
	return decimal.New(int64(periods), -2)
}
