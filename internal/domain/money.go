package domain

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatUSD renders a decimal amount as a dollar string rounded to cents, e.g. "$11,611.11"
func FormatUSD(amount decimal.Decimal) string {
	cents := amount.Round(2).Shift(2).IntPart()
	return money.New(cents, money.USD).Display()
}

// FormatPercent renders a percentage with two decimals, e.g. "-5.00%"
func FormatPercent(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// Bounds on decimals accepted from callers. Arithmetic on a decimal rescales to its
// exponent, so an input like 1e30000000 would cost time and memory proportional to it.
const (
	MaxInputExponent = 12
	MinInputExponent = -16
	MaxInputDigits   = 34
)

// CheckMagnitude rejects decimals whose exponent or digit count falls outside the input bounds
func CheckMagnitude(field string, d decimal.Decimal) error {
	exp := d.Exponent()
	if exp > MaxInputExponent || exp < MinInputExponent || d.NumDigits() > MaxInputDigits {
		return NewValidationError("%s must be a decimal number of at most %d digits", field, MaxInputDigits)
	}
	return nil
}

// ParseDecimal parses s and applies CheckMagnitude
func ParseDecimal(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, NewValidationError("%s must be a decimal number", field)
	}
	if err := CheckMagnitude(field, d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}
