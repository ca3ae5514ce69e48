package grpc

import "google.golang.org/protobuf/types/known/timestamppb"

// Deposit is the wire form of a deposit record. Money, prices and shares travel as decimal strings.
type Deposit struct {
	Id              string                 `json:"id"`
	Type            string                 `json:"type"`
	Amount          string                 `json:"amount"`
	Date            *timestamppb.Timestamp `json:"date"`
	BenchmarkTicker string                 `json:"benchmarkTicker"`
	BenchmarkPrice  string                 `json:"benchmarkPrice"`
	BenchmarkShares string                 `json:"benchmarkShares"`
	Notes           string                 `json:"notes"`
	CreatedAt       *timestamppb.Timestamp `json:"createdAt"`
}

type RecordDepositRequest struct {
	Type   string `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount string `json:"amount" validate:"required,positive_decimal"`
	Date   string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes  string `json:"notes" validate:"max=1000"`
	// BenchmarkPrice is optional; empty means look up the close for Date
	BenchmarkPrice string `json:"benchmarkPrice" validate:"omitempty,decimal"`
}

type RecordDepositResponse struct {
	Deposit *Deposit `json:"deposit"`
}

type ListDepositsRequest struct{}

type ListDepositsResponse struct {
	Deposits []*Deposit `json:"deposits"`
}

type UpdateDepositNotesRequest struct {
	Id    string `json:"id" validate:"required,uuid"`
	Notes string `json:"notes" validate:"max=1000"`
}

type UpdateDepositNotesResponse struct {
	Deposit *Deposit `json:"deposit"`
}

type DeleteDepositRequest struct {
	Id string `json:"id" validate:"required,uuid"`
}

type DeleteDepositResponse struct{}

type GetDepositSummaryRequest struct{}

type GetDepositSummaryResponse struct {
	TotalDeposits        string                 `json:"totalDeposits"`
	TotalWithdrawals     string                 `json:"totalWithdrawals"`
	DepositCount         int32                  `json:"depositCount"`
	WithdrawalCount      int32                  `json:"withdrawalCount"`
	NetInvested          string                 `json:"netInvested"`
	TotalBenchmarkShares string                 `json:"totalBenchmarkShares"`
	AverageCostBasis     string                 `json:"averageCostBasis,omitempty"` // empty when shares are zero
	FirstDepositDate     *timestamppb.Timestamp `json:"firstDepositDate,omitempty"`
	LastDepositDate      *timestamppb.Timestamp `json:"lastDepositDate,omitempty"`
}

// CompareLumpSumRequest selects default mode when both fields are empty
type CompareLumpSumRequest struct {
	LumpSumDate  string `json:"lumpSumDate" validate:"omitempty,datetime=2006-01-02"`
	LumpSumPrice string `json:"lumpSumPrice" validate:"omitempty,decimal"`
}

type ComparisonPoint struct {
	Date         *timestamppb.Timestamp `json:"date"`
	Price        string                 `json:"price"`
	DcaValue     string                 `json:"dcaValue"`
	LumpSumValue string                 `json:"lumpSumValue"`
}

type CompareLumpSumResponse struct {
	CurrentPrice string `json:"currentPrice"`

	DcaInvested     string `json:"dcaInvested"`
	DcaShares       string `json:"dcaShares"`
	DcaCurrentValue string `json:"dcaCurrentValue"`
	DcaReturn       string `json:"dcaReturn"`
	DcaReturnPct    string `json:"dcaReturnPct"`

	LumpSumDate         *timestamppb.Timestamp `json:"lumpSumDate"`
	LumpSumPrice        string                 `json:"lumpSumPrice"`
	LumpSumShares       string                 `json:"lumpSumShares"`
	LumpSumCurrentValue string                 `json:"lumpSumCurrentValue"`
	LumpSumReturn       string                 `json:"lumpSumReturn"`
	LumpSumReturnPct    string                 `json:"lumpSumReturnPct"`
	IsWhatIf            bool                   `json:"isWhatIf"`

	TimingBenefit    string `json:"timingBenefit"`
	TimingBenefitPct string `json:"timingBenefitPct"`
	Winner           string `json:"winner"`

	FirstDepositDate *timestamppb.Timestamp `json:"firstDepositDate"`
	LastDepositDate  *timestamppb.Timestamp `json:"lastDepositDate"`
	Series           []*ComparisonPoint     `json:"series"`
}
