package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositSummary is the derived aggregate over a user's deposit ledger. It is never stored.
type DepositSummary struct {
	TotalDeposits        decimal.Decimal
	TotalWithdrawals     decimal.Decimal // ABSOLUTE VALUE
	DepositCount         int
	WithdrawalCount      int
	NetInvested          decimal.Decimal // sum of signed amounts
	TotalBenchmarkShares decimal.Decimal // sum of signed shares, may be negative
	AverageCostBasis     *decimal.Decimal // NetInvested / TotalBenchmarkShares, nil when shares are zero
	FirstDepositDate     *time.Time
	LastDepositDate      *time.Time
}

// Winner names the better performing path of a lump sum comparison
type Winner string

const (
	WinnerDCA     Winner = "DCA"
	WinnerLumpSum Winner = "LUMP_SUM"
	WinnerTie     Winner = "TIE"
)

// ComparisonPoint is one sample of the DCA and lump sum values for charting
type ComparisonPoint struct {
	Date         time.Time
	Price        decimal.Decimal
	DCAValue     decimal.Decimal
	LumpSumValue decimal.Decimal
}

// LumpSumComparison compares the actual deposit history (dollar-cost averaging)
// against investing the same net capital at once on LumpSumDate.
type LumpSumComparison struct {
	CurrentPrice decimal.Decimal

	DCAInvested     decimal.Decimal
	DCAShares       decimal.Decimal
	DCACurrentValue decimal.Decimal
	DCAReturn       decimal.Decimal
	DCAReturnPct    decimal.Decimal

	LumpSumDate         time.Time
	LumpSumPrice        decimal.Decimal
	LumpSumShares       decimal.Decimal
	LumpSumCurrentValue decimal.Decimal
	LumpSumReturn       decimal.Decimal
	LumpSumReturnPct    decimal.Decimal
	IsWhatIf            bool // LumpSumDate and LumpSumPrice were supplied by the caller

	TimingBenefit    decimal.Decimal // DCACurrentValue - LumpSumCurrentValue, negative is a cost
	TimingBenefitPct decimal.Decimal
	Winner           Winner

	FirstDepositDate time.Time
	LastDepositDate  time.Time
	Series           []ComparisonPoint
}
