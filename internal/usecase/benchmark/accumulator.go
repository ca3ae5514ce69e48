package benchmark

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// DCAPoint is the running benchmark position right after one deposit record
type DCAPoint struct {
	Date          time.Time
	Price         decimal.Decimal // benchmark price captured on the record
	InvestedSoFar decimal.Decimal
	SharesSoFar   decimal.Decimal
}

// Value returns the position valued at price
func (p DCAPoint) Value(price decimal.Decimal) decimal.Decimal {
	return p.SharesSoFar.Mul(price)
}

// DCASeries is the dollar-cost-average replay of a deposit ledger
type DCASeries struct {
	Points        []DCAPoint
	TotalInvested decimal.Decimal
	TotalShares   decimal.Decimal
}

// ValueAt returns the final position valued at price
func (s DCASeries) ValueAt(price decimal.Decimal) decimal.Decimal {
	return s.TotalShares.Mul(price)
}

// IsShort reports a net negative share position, e.g. after an over-withdrawal
func (s DCASeries) IsShort() bool {
	return s.TotalShares.IsNegative()
}

// SortRecords returns a copy of records ordered by date, then by creation time.
// Records sharing both keep their input order.
func SortRecords(records []domain.DepositRecord) []domain.DepositRecord {
	sorted := make([]domain.DepositRecord, len(records))
	copy(sorted, records)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	return sorted
}

// Accumulate replays every deposit and withdrawal as a purchase or sale of benchmark shares on its date.
// Logic:
//  1. Sort records by date (callers are not trusted to do it)
//  2. Keep running totals of signed amounts and signed shares
//  3. Emit one point per record
//
// Withdrawals larger than the shares held are accepted; the totals simply go negative.
func Accumulate(records []domain.DepositRecord) DCASeries {
	series := DCASeries{
		Points:        make([]DCAPoint, 0, len(records)),
		TotalInvested: decimal.Zero,
		TotalShares:   decimal.Zero,
	}

	for _, record := range SortRecords(records) {
		series.TotalInvested = series.TotalInvested.Add(record.SignedAmount())
		series.TotalShares = series.TotalShares.Add(record.SignedShares())

		series.Points = append(series.Points, DCAPoint{
			Date:          record.Date,
			Price:         record.BenchmarkPrice,
			InvestedSoFar: series.TotalInvested,
			SharesSoFar:   series.TotalShares,
		})
	}

	return series
}
