package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payment records the settlement of one installment. A reversed payment keeps
// its row with ReversedAt set.
type Payment struct {
	paidOn      time.Time
	createdAt   time.Time
	reversedAt  *time.Time
	amount      decimal.Decimal
	id          string
	loanID      string
	periodIndex int
}

func newPayment(loanID string, periodIndex int, amount decimal.Decimal, paidOn, now time.Time) Payment {
	return Payment{
		id:          uuid.New().String(),
		loanID:      loanID,
		periodIndex: periodIndex,
		paidOn:      CivilDate(paidOn),
		amount:      amount,
		createdAt:   now,
	}
}

// ReconstructPayment rebuilds a Payment from persisted state.
func ReconstructPayment(
	id, loanID string,
	periodIndex int,
	amount decimal.Decimal,
	paidOn, createdAt time.Time,
	reversedAt *time.Time,
) Payment {
	p := Payment{
		id:          id,
		loanID:      loanID,
		periodIndex: periodIndex,
		amount:      amount,
		paidOn:      paidOn,
		createdAt:   createdAt,
	}
	if reversedAt != nil {
		t := *reversedAt
		p.reversedAt = &t
	}
	return p
}

// Reverse marks the payment as reversed at now.
func (p Payment) Reverse(now time.Time) (Payment, error) {
	if p.IsReversed() {
		return Payment{}, fmt.Errorf("payment %s: %w", p.id, ErrPaymentAlreadyReversed)
	}
	t := now
	p.reversedAt = &t
	return p, nil
}

// IsReversed reports whether the payment has been undone.
func (p Payment) IsReversed() bool { return p.reversedAt != nil }

func (p Payment) ID() string              { return p.id }
func (p Payment) LoanID() string          { return p.loanID }
func (p Payment) PeriodIndex() int        { return p.periodIndex }
func (p Payment) PaidOn() time.Time       { return p.paidOn }
func (p Payment) Amount() decimal.Decimal { return p.amount }
func (p Payment) CreatedAt() time.Time    { return p.createdAt }

// ReversedAt returns the reversal time, or nil while the payment stands.
func (p Payment) ReversedAt() *time.Time {
	if p.reversedAt == nil {
		return nil
	}
	t := *p.reversedAt
	return &t
}
