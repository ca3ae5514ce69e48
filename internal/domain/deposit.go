package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositType represents the direction of a cash movement
type DepositType string

const (
	DepositTypeDeposit    DepositType = "DEPOSIT"
	DepositTypeWithdrawal DepositType = "WITHDRAWAL"
)

// DefaultBenchmarkTicker is the instrument deposits are compared against
const DefaultBenchmarkTicker = "SPY"

// sharesTolerance bounds the drift allowed between stored shares and amount/price.
var sharesTolerance = decimal.New(1, -8)

// DepositRecord represents one cash movement in a user's ledger.
// Amount and BenchmarkShares are ABSOLUTE values; Type carries the sign.
// BenchmarkPrice is captured when the record is created and never recomputed.
type DepositRecord struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Type            DepositType
	Amount          decimal.Decimal // ABSOLUTE VALUE (Always Positive)
	Date            time.Time       // calendar date, truncated to midnight UTC
	BenchmarkTicker string
	BenchmarkPrice  decimal.Decimal // close of BenchmarkTicker on Date
	BenchmarkShares decimal.Decimal // Amount / BenchmarkPrice, ABSOLUTE VALUE
	Notes           string
	CreatedAt       time.Time
}

// NewDepositRecord builds a record and computes its benchmark shares from the captured price.
// The caller is expected to Validate the result before persisting it.
func NewDepositRecord(userID uuid.UUID, depositType DepositType, amount decimal.Decimal, date time.Time, ticker string, price decimal.Decimal, notes string) (*DepositRecord, error) {
	if !price.IsPositive() {
		return nil, &InvalidPriceError{Field: "benchmark_price", Price: price}
	}

	return &DepositRecord{
		ID:              uuid.New(),
		UserID:          userID,
		Type:            depositType,
		Amount:          amount,
		Date:            TruncateDate(date),
		BenchmarkTicker: ticker,
		BenchmarkPrice:  price,
		BenchmarkShares: amount.Div(price),
		Notes:           notes,
		CreatedAt:       time.Now().UTC(),
	}, nil
}

// Validate ensures the record adheres to domain rules
// CRITICAL: BenchmarkShares must equal Amount / BenchmarkPrice
func (d *DepositRecord) Validate() error {
	if d.Type != DepositTypeDeposit && d.Type != DepositTypeWithdrawal {
		return NewValidationError("deposit type must be DEPOSIT or WITHDRAWAL")
	}

	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("deposit amount must be positive (absolute value)")
	}

	if d.Date.IsZero() {
		return NewValidationError("deposit date is required")
	}

	if !d.BenchmarkPrice.IsPositive() {
		return &InvalidPriceError{Field: "benchmark_price", Price: d.BenchmarkPrice}
	}

	if d.BenchmarkShares.IsNegative() {
		return NewValidationError("benchmark shares must be an absolute value")
	}

	expected := d.Amount.Div(d.BenchmarkPrice)
	if expected.Sub(d.BenchmarkShares).Abs().GreaterThan(sharesTolerance) {
		return NewValidationError("benchmark shares must equal amount divided by benchmark price")
	}

	return nil
}

// SignedAmount returns the amount as a signed cash flow: positive for deposits, negative for withdrawals
func (d *DepositRecord) SignedAmount() decimal.Decimal {
	if d.Type == DepositTypeWithdrawal {
		return d.Amount.Neg()
	}
	return d.Amount
}

// SignedShares returns the benchmark shares signed the same way as SignedAmount
func (d *DepositRecord) SignedShares() decimal.Decimal {
	if d.Type == DepositTypeWithdrawal {
		return d.BenchmarkShares.Neg()
	}
	return d.BenchmarkShares
}

// TruncateDate drops the time-of-day, keeping the calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateFormat is the wire and storage layout for calendar dates
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, NewValidationError("invalid date, expected YYYY-MM-DD")
	}
	return t, nil
}
