package benchmark

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// percentPlaces is the precision percentages are rounded to
const percentPlaces = 4

// currencyPlaces is the granularity at which the two paths are compared for the winner
const currencyPlaces = 2

var hundred = decimal.NewFromInt(100)

// ComparisonInput holds everything Compare needs; all prices are resolved by the caller.
type ComparisonInput struct {
	Records      []domain.DepositRecord // any order
	CurrentPrice decimal.Decimal        // latest known benchmark price
	AsOf         time.Time              // date of CurrentPrice, zero to omit the closing series point
	LumpSum      *LumpSumOverride       // nil for the default first-deposit scenario
}

// Compare evaluates the deposit history (DCA) against a lump sum of the same net capital.
// Logic:
//  1. Validate prices before any computation
//  2. Replay deposits to get DCA invested capital and shares
//  3. Resolve the lump sum date/price (default: first deposit) and buy with the DCA capital
//  4. Value both paths at CurrentPrice and derive returns, timing benefit and winner
//
// The result is either complete or an error is returned; no partial result is produced.
func Compare(input ComparisonInput) (*domain.LumpSumComparison, error) {
	if !input.CurrentPrice.IsPositive() {
		return nil, &domain.InvalidPriceError{Field: "current_price", Price: input.CurrentPrice}
	}

	if input.LumpSum != nil && !input.LumpSum.Price.IsPositive() {
		return nil, &domain.InvalidPriceError{Field: "lump_sum_price", Price: input.LumpSum.Price}
	}

	if len(input.Records) == 0 {
		return nil, domain.ErrNoDeposits
	}

	records := SortRecords(input.Records)
	dca := Accumulate(records)

	lumpSum := input.LumpSum
	isWhatIf := lumpSum != nil
	if lumpSum == nil {
		resolved, err := DefaultLumpSum(records)
		if err != nil {
			return nil, err
		}
		lumpSum = &resolved
	}

	// Equal capital: the lump sum buys with exactly what the DCA path invested
	position, err := SimulateLumpSum(dca.TotalInvested, lumpSum.Date, lumpSum.Price)
	if err != nil {
		return nil, err
	}

	dcaValue := dca.ValueAt(input.CurrentPrice)
	lumpSumValue := position.Value(input.CurrentPrice)
	dcaReturn := dcaValue.Sub(dca.TotalInvested)
	lumpSumReturn := lumpSumValue.Sub(position.Invested)
	timingBenefit := dcaValue.Sub(lumpSumValue)

	result := &domain.LumpSumComparison{
		CurrentPrice: input.CurrentPrice,

		DCAInvested:     dca.TotalInvested,
		DCAShares:       dca.TotalShares,
		DCACurrentValue: dcaValue,
		DCAReturn:       dcaReturn,
		DCAReturnPct:    percentOf(dcaReturn, dca.TotalInvested),

		LumpSumDate:         position.Date,
		LumpSumPrice:        position.Price,
		LumpSumShares:       position.Shares,
		LumpSumCurrentValue: lumpSumValue,
		LumpSumReturn:       lumpSumReturn,
		LumpSumReturnPct:    percentOf(lumpSumReturn, position.Invested),
		IsWhatIf:            isWhatIf,

		TimingBenefit:    timingBenefit,
		TimingBenefitPct: percentOf(timingBenefit, lumpSumValue),
		Winner:           pickWinner(dcaValue, lumpSumValue),

		FirstDepositDate: records[0].Date,
		LastDepositDate:  records[len(records)-1].Date,
	}

	result.Series = buildSeries(dca, position, input.CurrentPrice, input.AsOf)

	return result, nil
}

// percentOf returns part/whole*100 rounded to percentPlaces, or zero when whole is zero
func percentOf(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(percentPlaces)
}

// pickWinner compares both values at cent granularity so sub-cent noise is a TIE
func pickWinner(dcaValue, lumpSumValue decimal.Decimal) domain.Winner {
	switch dcaValue.Round(currencyPlaces).Cmp(lumpSumValue.Round(currencyPlaces)) {
	case 1:
		return domain.WinnerDCA
	case -1:
		return domain.WinnerLumpSum
	default:
		return domain.WinnerTie
	}
}

// buildSeries values both paths at every deposit date, using the shares held as of that date.
// The lump sum is worth nothing before its purchase date.
func buildSeries(dca DCASeries, position LumpSumPosition, currentPrice decimal.Decimal, asOf time.Time) []domain.ComparisonPoint {
	series := make([]domain.ComparisonPoint, 0, len(dca.Points)+1)

	for _, point := range dca.Points {
		series = append(series, domain.ComparisonPoint{
			Date:         point.Date,
			Price:        point.Price,
			DCAValue:     point.Value(point.Price),
			LumpSumValue: lumpSumValueOn(position, point.Date, point.Price),
		})
	}

	if len(dca.Points) > 0 && !asOf.IsZero() {
		asOfDate := domain.TruncateDate(asOf)
		if asOfDate.After(dca.Points[len(dca.Points)-1].Date) {
			series = append(series, domain.ComparisonPoint{
				Date:         asOfDate,
				Price:        currentPrice,
				DCAValue:     dca.ValueAt(currentPrice),
				LumpSumValue: lumpSumValueOn(position, asOfDate, currentPrice),
			})
		}
	}

	return series
}

func lumpSumValueOn(position LumpSumPosition, date time.Time, price decimal.Decimal) decimal.Decimal {
	if date.Before(position.Date) {
		return decimal.Zero
	}
	return position.Value(price)
}
