package benchmark

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testUserID = uuid.MustParse("11111111-1111-1111-1111-111111111111")

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	require.NoError(t, err)
	return d
}

func record(t *testing.T, depositType domain.DepositType, amount, date, price string) domain.DepositRecord {
	t.Helper()
	r, err := domain.NewDepositRecord(
		testUserID,
		depositType,
		decimal.RequireFromString(amount),
		mustDate(t, date),
		domain.DefaultBenchmarkTicker,
		decimal.RequireFromString(price),
		"",
	)
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	return *r
}

func TestAccumulate_Empty(t *testing.T) {
	series := Accumulate(nil)

	assert.Empty(t, series.Points)
	assert.True(t, series.TotalInvested.IsZero())
	assert.True(t, series.TotalShares.IsZero())
	assert.False(t, series.IsShort())
}

func TestAccumulate_SortsAndKeepsRunningTotals(t *testing.T) {
	june := record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00")
	january := record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00")
	march := record(t, domain.DepositTypeWithdrawal, "1000", "2024-03-01", "400.00")

	series := Accumulate([]domain.DepositRecord{june, january, march})

	require.Len(t, series.Points, 3)
	assert.Equal(t, january.Date, series.Points[0].Date)
	assert.Equal(t, march.Date, series.Points[1].Date)
	assert.Equal(t, june.Date, series.Points[2].Date)

	assert.Equal(t, "5000", series.Points[0].InvestedSoFar.String())
	assert.Equal(t, "4000", series.Points[1].InvestedSoFar.String())
	assert.Equal(t, "9000", series.Points[2].InvestedSoFar.String())

	// 11.1111 - 2.5 + 10
	assert.Equal(t, "8.6111", series.Points[1].SharesSoFar.StringFixed(4))
	assert.Equal(t, "18.6111", series.TotalShares.StringFixed(4))
	assert.Equal(t, "9000", series.TotalInvested.String())
}

func TestAccumulate_SameDateKeepsInputOrder(t *testing.T) {
	first := record(t, domain.DepositTypeDeposit, "100", "2024-01-01", "100")
	second := record(t, domain.DepositTypeWithdrawal, "50", "2024-01-01", "100")
	second.CreatedAt = first.CreatedAt

	series := Accumulate([]domain.DepositRecord{first, second})

	require.Len(t, series.Points, 2)
	assert.Equal(t, "100", series.Points[0].InvestedSoFar.String())
	assert.Equal(t, "50", series.Points[1].InvestedSoFar.String())
}

func TestSortRecords_SameDateOrdersByCreation(t *testing.T) {
	created := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	older := record(t, domain.DepositTypeDeposit, "100", "2024-01-01", "100")
	older.CreatedAt = created
	newer := record(t, domain.DepositTypeWithdrawal, "50", "2024-01-01", "200")
	newer.CreatedAt = created.Add(time.Hour)
	earlier := record(t, domain.DepositTypeDeposit, "100", "2023-12-01", "90")
	earlier.CreatedAt = created.Add(2 * time.Hour)

	sorted := SortRecords([]domain.DepositRecord{newer, older, earlier})

	require.Len(t, sorted, 3)
	assert.Equal(t, earlier.ID, sorted[0].ID)
	assert.Equal(t, older.ID, sorted[1].ID)
	assert.Equal(t, newer.ID, sorted[2].ID)

	series := Accumulate([]domain.DepositRecord{newer, older})
	require.Len(t, series.Points, 2)
	assert.Equal(t, "100", series.Points[0].InvestedSoFar.String())
	assert.Equal(t, "50", series.Points[1].InvestedSoFar.String())
}

func TestAccumulate_DoesNotMutateInput(t *testing.T) {
	later := record(t, domain.DepositTypeDeposit, "100", "2024-02-01", "100")
	earlier := record(t, domain.DepositTypeDeposit, "100", "2024-01-01", "100")
	input := []domain.DepositRecord{later, earlier}

	Accumulate(input)

	assert.Equal(t, later.ID, input[0].ID)
	assert.Equal(t, earlier.ID, input[1].ID)
}

// Scenario E
func TestAccumulate_OverWithdrawalGoesShort(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "1000", "2024-01-01", "100"),
		record(t, domain.DepositTypeWithdrawal, "2000", "2024-02-01", "100"),
	}

	series := Accumulate(records)
	summary := Summarize(records)

	assert.True(t, series.TotalShares.Equal(decimal.NewFromInt(-10)))
	assert.True(t, series.IsShort())
	assert.True(t, summary.TotalBenchmarkShares.Equal(decimal.NewFromInt(-10)))
	assert.True(t, summary.NetInvested.Equal(decimal.NewFromInt(-1000)))
}

func TestSimulateLumpSum(t *testing.T) {
	date := mustDate(t, "2024-01-01")

	position, err := SimulateLumpSum(decimal.NewFromInt(10000), date, decimal.RequireFromString("450.00"))
	require.NoError(t, err)
	assert.Equal(t, "22.2222", position.Shares.StringFixed(4))
	assert.Equal(t, date, position.Date)
	assert.Equal(t, "12222.22", position.Value(decimal.NewFromInt(550)).StringFixed(2))

	for _, price := range []string{"0", "-1"} {
		_, err := SimulateLumpSum(decimal.NewFromInt(10000), date, decimal.RequireFromString(price))
		var priceErr *domain.InvalidPriceError
		require.True(t, errors.As(err, &priceErr), "price %s", price)
		assert.Equal(t, "lump_sum_price", priceErr.Field)
	}
}

func TestDefaultLumpSum(t *testing.T) {
	_, err := DefaultLumpSum(nil)
	assert.ErrorIs(t, err, domain.ErrNoDeposits)

	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00"),
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
	}
	lumpSum, err := DefaultLumpSum(records)
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-01-01"), lumpSum.Date)
	assert.Equal(t, "450", lumpSum.Price.String())
}

func TestDefaultLumpSum_SameDateUsesEarliestCreated(t *testing.T) {
	created := time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC)
	first := record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "100")
	first.CreatedAt = created
	second := record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "200")
	second.CreatedAt = created.Add(time.Hour)

	lumpSum, err := DefaultLumpSum([]domain.DepositRecord{second, first})
	require.NoError(t, err)
	assert.Equal(t, mustDate(t, "2024-01-01"), lumpSum.Date)
	assert.Equal(t, "100", lumpSum.Price.String())
}

// Scenario A
func TestCompare_SingleDepositIsAlwaysATie(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "10000", "2024-01-01", "450.00"),
	}
	assert.Equal(t, "22.2222", records[0].BenchmarkShares.StringFixed(4))

	for _, current := range []string{"300", "450", "550", "1234.56"} {
		result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.RequireFromString(current)})
		require.NoError(t, err)

		assert.True(t, result.DCAShares.Equal(result.LumpSumShares), "price %s", current)
		assert.Equal(t, domain.WinnerTie, result.Winner, "price %s", current)
		assert.True(t, result.TimingBenefit.IsZero())
		assert.False(t, result.IsWhatIf)
	}
}

// Scenario B
func TestCompare_LumpSumWins(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00"),
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
	}

	result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.NewFromInt(550)})
	require.NoError(t, err)

	assert.Equal(t, "10000", result.DCAInvested.String())
	assert.Equal(t, "21.1111", result.DCAShares.StringFixed(4))
	assert.Equal(t, "22.2222", result.LumpSumShares.StringFixed(4))
	assert.Equal(t, "11611.11", result.DCACurrentValue.StringFixed(2))
	assert.Equal(t, "12222.22", result.LumpSumCurrentValue.StringFixed(2))
	assert.Equal(t, "-611.11", result.TimingBenefit.StringFixed(2))
	assert.Equal(t, domain.WinnerLumpSum, result.Winner)

	assert.Equal(t, "1611.11", result.DCAReturn.StringFixed(2))
	assert.Equal(t, "16.1111", result.DCAReturnPct.String())
	assert.Equal(t, "22.2222", result.LumpSumReturnPct.String())
	assert.Equal(t, "-5", result.TimingBenefitPct.String())

	assert.Equal(t, mustDate(t, "2024-01-01"), result.FirstDepositDate)
	assert.Equal(t, mustDate(t, "2024-06-01"), result.LastDepositDate)
	assert.Equal(t, mustDate(t, "2024-01-01"), result.LumpSumDate)
}

func TestCompare_DCAWins(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "500.00"),
		record(t, domain.DepositTypeDeposit, "5000", "2024-03-01", "400.00"),
	}

	result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.NewFromInt(500)})
	require.NoError(t, err)

	// 10 + 12.5 shares vs 20 shares
	assert.Equal(t, "11250.00", result.DCACurrentValue.StringFixed(2))
	assert.Equal(t, "10000.00", result.LumpSumCurrentValue.StringFixed(2))
	assert.Equal(t, domain.WinnerDCA, result.Winner)
	assert.True(t, result.TimingBenefit.IsPositive())
}

func TestCompare_SubCentDifferenceIsATie(t *testing.T) {
	assert.Equal(t, domain.WinnerTie, pickWinner(decimal.RequireFromString("100.001"), decimal.RequireFromString("100.004")))
	assert.Equal(t, domain.WinnerDCA, pickWinner(decimal.RequireFromString("100.01"), decimal.RequireFromString("100.00")))
	assert.Equal(t, domain.WinnerLumpSum, pickWinner(decimal.RequireFromString("99.99"), decimal.RequireFromString("100.00")))
}

func TestCompare_WhatIf(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
		record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00"),
	}
	whatIf := &LumpSumOverride{Date: mustDate(t, "2023-10-01"), Price: decimal.NewFromInt(400)}

	result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.NewFromInt(550), LumpSum: whatIf})
	require.NoError(t, err)

	assert.True(t, result.IsWhatIf)
	assert.Equal(t, "400", result.LumpSumPrice.String())
	assert.Equal(t, mustDate(t, "2023-10-01"), result.LumpSumDate)
	assert.Equal(t, "25", result.LumpSumShares.String())
	assert.Equal(t, "13750", result.LumpSumCurrentValue.String())
}

// Scenario C
func TestCompare_WhatIfZeroPriceFails(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "10000", "2024-01-01", "450.00"),
	}
	whatIf := &LumpSumOverride{Date: mustDate(t, "2024-01-01"), Price: decimal.Zero}

	result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.NewFromInt(550), LumpSum: whatIf})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrInvalidPrice)
	var priceErr *domain.InvalidPriceError
	require.ErrorAs(t, err, &priceErr)
	assert.Equal(t, "lump_sum_price", priceErr.Field)
}

// Scenario D
func TestCompare_NoDeposits(t *testing.T) {
	result, err := Compare(ComparisonInput{CurrentPrice: decimal.NewFromInt(550)})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNoDeposits)
}

func TestCompare_InvalidCurrentPrice(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "10000", "2024-01-01", "450.00"),
	}

	tests := []struct {
		name  string
		price decimal.Decimal
	}{
		{name: "missing", price: decimal.Decimal{}},
		{name: "zero", price: decimal.Zero},
		{name: "negative", price: decimal.NewFromInt(-550)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compare(ComparisonInput{Records: records, CurrentPrice: tt.price})
			assert.Nil(t, result)
			var priceErr *domain.InvalidPriceError
			require.ErrorAs(t, err, &priceErr)
			assert.Equal(t, "current_price", priceErr.Field)
		})
	}
}

// P5
func TestCompare_ZeroNetInvestedIsGuarded(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "1000", "2024-01-01", "100"),
		record(t, domain.DepositTypeWithdrawal, "1000", "2024-02-01", "125"),
	}

	result, err := Compare(ComparisonInput{Records: records, CurrentPrice: decimal.NewFromInt(150)})
	require.NoError(t, err)

	assert.True(t, result.DCAInvested.IsZero())
	assert.True(t, result.DCAReturnPct.IsZero())
	assert.True(t, result.LumpSumShares.IsZero())
	assert.True(t, result.LumpSumReturnPct.IsZero())
	assert.True(t, result.TimingBenefitPct.IsZero())
	// 2 shares left over from the cheaper purchase
	assert.Equal(t, "300", result.DCACurrentValue.String())
	assert.Equal(t, domain.WinnerDCA, result.Winner)
}

func TestCompare_Series(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
		record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00"),
	}
	whatIf := &LumpSumOverride{Date: mustDate(t, "2024-03-01"), Price: decimal.NewFromInt(400)}
	asOf := time.Date(2024, 9, 1, 17, 0, 0, 0, time.UTC)

	result, err := Compare(ComparisonInput{
		Records:      records,
		CurrentPrice: decimal.NewFromInt(550),
		AsOf:         asOf,
		LumpSum:      whatIf,
	})
	require.NoError(t, err)
	require.Len(t, result.Series, 3)

	// before the hypothetical purchase the lump sum holds nothing
	assert.Equal(t, "5000.00", result.Series[0].DCAValue.StringFixed(2))
	assert.True(t, result.Series[0].LumpSumValue.IsZero())

	// 21.1111 shares at 500; 25 shares at 500
	assert.Equal(t, "10555.56", result.Series[1].DCAValue.StringFixed(2))
	assert.Equal(t, "12500.00", result.Series[1].LumpSumValue.StringFixed(2))

	closing := result.Series[2]
	assert.Equal(t, mustDate(t, "2024-09-01"), closing.Date)
	assert.True(t, closing.DCAValue.Equal(result.DCACurrentValue))
	assert.True(t, closing.LumpSumValue.Equal(result.LumpSumCurrentValue))
}

func TestCompare_SeriesOmitsClosingPointOnLastDepositDate(t *testing.T) {
	records := []domain.DepositRecord{
		record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
	}

	result, err := Compare(ComparisonInput{
		Records:      records,
		CurrentPrice: decimal.NewFromInt(450),
		AsOf:         mustDate(t, "2024-01-01"),
	})
	require.NoError(t, err)
	assert.Len(t, result.Series, 1)
}

func TestSummarize(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		summary := Summarize(nil)
		assert.True(t, summary.NetInvested.IsZero())
		assert.True(t, summary.TotalBenchmarkShares.IsZero())
		assert.Nil(t, summary.AverageCostBasis)
		assert.Nil(t, summary.FirstDepositDate)
		assert.Nil(t, summary.LastDepositDate)
	})

	t.Run("deposits and withdrawals", func(t *testing.T) {
		records := []domain.DepositRecord{
			record(t, domain.DepositTypeDeposit, "5000", "2024-06-01", "500.00"),
			record(t, domain.DepositTypeDeposit, "5000", "2024-01-01", "450.00"),
			record(t, domain.DepositTypeWithdrawal, "1000", "2024-03-01", "400.00"),
		}

		summary := Summarize(records)

		assert.Equal(t, "10000", summary.TotalDeposits.String())
		assert.Equal(t, "1000", summary.TotalWithdrawals.String())
		assert.Equal(t, 2, summary.DepositCount)
		assert.Equal(t, 1, summary.WithdrawalCount)
		assert.Equal(t, "9000", summary.NetInvested.String())
		assert.Equal(t, "18.6111", summary.TotalBenchmarkShares.StringFixed(4))
		require.NotNil(t, summary.AverageCostBasis)
		assert.Equal(t, "483.58", summary.AverageCostBasis.StringFixed(2))
		assert.Equal(t, mustDate(t, "2024-01-01"), *summary.FirstDepositDate)
		assert.Equal(t, mustDate(t, "2024-06-01"), *summary.LastDepositDate)
	})

	t.Run("zero shares leaves cost basis undefined", func(t *testing.T) {
		records := []domain.DepositRecord{
			record(t, domain.DepositTypeDeposit, "1000", "2024-01-01", "100"),
			record(t, domain.DepositTypeWithdrawal, "1000", "2024-02-01", "100"),
		}
		assert.Nil(t, Summarize(records).AverageCostBasis)
	})
}
