package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andresv02/loan-management-system/internal/domain/model"
	"github.com/andresv02/loan-management-system/pkg/money"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// ParseDate parses an optional YYYY-MM-DD date. An empty string yields the
// zero time, which use cases read as "today".
func ParseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s must be a YYYY-MM-DD date, got %q", model.ErrInvalidInput, field, s)
	}
	return t, nil
}

// ParseAmount parses a cent-precision amount. An empty string yields zero.
func ParseAmount(field, s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %w", model.ErrInvalidInput, field, err)
	}
	return d, nil
}
