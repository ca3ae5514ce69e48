package benchmark

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// LumpSumOverride is a caller supplied hypothetical purchase date and price.
// It is used verbatim; no historical price is ever substituted.
type LumpSumOverride struct {
	Date  time.Time
	Price decimal.Decimal
}

// LumpSumPosition is the result of deploying all capital in a single purchase
type LumpSumPosition struct {
	Date     time.Time
	Price    decimal.Decimal
	Invested decimal.Decimal
	Shares   decimal.Decimal
}

// Value returns the position valued at price
func (p LumpSumPosition) Value(price decimal.Decimal) decimal.Decimal {
	return p.Shares.Mul(price)
}

// SimulateLumpSum buys benchmark shares with totalInvested at price on date.
// totalInvested should be the net invested capital of the DCA path so both paths use equal capital.
func SimulateLumpSum(totalInvested decimal.Decimal, date time.Time, price decimal.Decimal) (LumpSumPosition, error) {
	if !price.IsPositive() {
		return LumpSumPosition{}, &domain.InvalidPriceError{Field: "lump_sum_price", Price: price}
	}

	return LumpSumPosition{
		Date:     domain.TruncateDate(date),
		Price:    price,
		Invested: totalInvested,
		Shares:   totalInvested.Div(price),
	}, nil
}

// DefaultLumpSum resolves the default scenario: everything invested on the first deposit date
// at the benchmark price recorded on that deposit.
func DefaultLumpSum(records []domain.DepositRecord) (LumpSumOverride, error) {
	if len(records) == 0 {
		return LumpSumOverride{}, domain.ErrNoDeposits
	}

	first := SortRecords(records)[0]

	return LumpSumOverride{
		Date:  first.Date,
		Price: first.BenchmarkPrice,
	}, nil
}
