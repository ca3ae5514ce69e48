package benchmark

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// Summarize aggregates a deposit ledger. An empty ledger yields zero totals and nil dates.
func Summarize(records []domain.DepositRecord) domain.DepositSummary {
	summary := domain.DepositSummary{
		TotalDeposits:        decimal.Zero,
		TotalWithdrawals:     decimal.Zero,
		NetInvested:          decimal.Zero,
		TotalBenchmarkShares: decimal.Zero,
	}

	for i := range records {
		record := &records[i]

		switch record.Type {
		case domain.DepositTypeWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(record.Amount)
			summary.WithdrawalCount++
		default:
			summary.TotalDeposits = summary.TotalDeposits.Add(record.Amount)
			summary.DepositCount++
		}

		summary.NetInvested = summary.NetInvested.Add(record.SignedAmount())
		summary.TotalBenchmarkShares = summary.TotalBenchmarkShares.Add(record.SignedShares())

		date := record.Date
		if summary.FirstDepositDate == nil || date.Before(*summary.FirstDepositDate) {
			summary.FirstDepositDate = &date
		}
		if summary.LastDepositDate == nil || date.After(*summary.LastDepositDate) {
			summary.LastDepositDate = &date
		}
	}

	if !summary.TotalBenchmarkShares.IsZero() {
		basis := summary.NetInvested.Div(summary.TotalBenchmarkShares)
		summary.AverageCostBasis = &basis
	}

	return summary
}
