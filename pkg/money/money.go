// Package money holds the cent-precision helpers shared by the lending
// domain, its persistence layer and its transports. Amounts are Balboa
// (at par with USD) with two fractional digits.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits of every stored amount.
const Places = 2

var (
	// ErrInvalidAmount is returned for unparsable amounts.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrTooPrecise is returned for amounts with sub-cent digits.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
)

// Round rounds d to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Parse reads a decimal amount such as "1000", "93.33" or " 0.5 ".
// Sub-cent precision is rejected rather than silently rounded.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %w", ErrInvalidAmount, s, err)
	}
	if !d.Equal(Round(d)) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrTooPrecise, s)
	}
	return d, nil
}

// ParsePositive is Parse restricted to amounts greater than zero.
func ParsePositive(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	return d, nil
}

// Format renders d with exactly two decimals, e.g. "93.30".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// Sum adds amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Min returns the smaller of a and b.
func Min(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}
