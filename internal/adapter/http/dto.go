package http

import (
	"time"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

type recordDepositRequest struct {
	Type           string `json:"type" validate:"required,oneof=DEPOSIT WITHDRAWAL"`
	Amount         string `json:"amount" validate:"required,positive_decimal"`
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	Notes          string `json:"notes" validate:"max=1000"`
	BenchmarkPrice string `json:"benchmarkPrice" validate:"omitempty,decimal"`
}

type updateNotesRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type comparisonQuery struct {
	LumpSumDate  string `json:"lumpSumDate" validate:"omitempty,datetime=2006-01-02"`
	LumpSumPrice string `json:"lumpSumPrice" validate:"omitempty,decimal"`
}

type depositResponse struct {
	ID              string    `json:"id"`
	Type            string    `json:"type"`
	Amount          string    `json:"amount"`
	Date            string    `json:"date"`
	BenchmarkTicker string    `json:"benchmarkTicker"`
	BenchmarkPrice  string    `json:"benchmarkPrice"`
	BenchmarkShares string    `json:"benchmarkShares"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
}

type summaryResponse struct {
	TotalDeposits        string  `json:"totalDeposits"`
	TotalWithdrawals     string  `json:"totalWithdrawals"`
	DepositCount         int     `json:"depositCount"`
	WithdrawalCount      int     `json:"withdrawalCount"`
	NetInvested          string  `json:"netInvested"`
	NetInvestedDisplay   string  `json:"netInvestedDisplay"`
	TotalBenchmarkShares string  `json:"totalBenchmarkShares"`
	AverageCostBasis     *string `json:"averageCostBasis"`
	FirstDepositDate     *string `json:"firstDepositDate"`
	LastDepositDate      *string `json:"lastDepositDate"`
}

type seriesPoint struct {
	Date         string `json:"date"`
	Price        string `json:"price"`
	DCAValue     string `json:"dcaValue"`
	LumpSumValue string `json:"lumpSumValue"`
}

type comparisonResponse struct {
	CurrentPrice string `json:"currentPrice"`

	DCAInvested     string `json:"dcaInvested"`
	DCAShares       string `json:"dcaShares"`
	DCACurrentValue string `json:"dcaCurrentValue"`
	DCAReturn       string `json:"dcaReturn"`
	DCAReturnPct    string `json:"dcaReturnPct"`

	LumpSumDate         string `json:"lumpSumDate"`
	LumpSumPrice        string `json:"lumpSumPrice"`
	LumpSumShares       string `json:"lumpSumShares"`
	LumpSumCurrentValue string `json:"lumpSumCurrentValue"`
	LumpSumReturn       string `json:"lumpSumReturn"`
	LumpSumReturnPct    string `json:"lumpSumReturnPct"`
	IsWhatIf            bool   `json:"isWhatIf"`

	TimingBenefit    string `json:"timingBenefit"`
	TimingBenefitPct string `json:"timingBenefitPct"`
	Winner           string `json:"winner"`

	FirstDepositDate string        `json:"firstDepositDate"`
	LastDepositDate  string        `json:"lastDepositDate"`
	Display          displayFields `json:"display"`
	Series           []seriesPoint `json:"series"`
}

// displayFields are cent-rounded, currency formatted copies for rendering
type displayFields struct {
	DCACurrentValue     string `json:"dcaCurrentValue"`
	LumpSumCurrentValue string `json:"lumpSumCurrentValue"`
	TimingBenefit       string `json:"timingBenefit"`
	TimingBenefitPct    string `json:"timingBenefitPct"`
}

func toDepositResponse(r *domain.DepositRecord) depositResponse {
	return depositResponse{
		ID:              r.ID.String(),
		Type:            string(r.Type),
		Amount:          r.Amount.String(),
		Date:            r.Date.Format(domain.DateFormat),
		BenchmarkTicker: r.BenchmarkTicker,
		BenchmarkPrice:  r.BenchmarkPrice.String(),
		BenchmarkShares: r.BenchmarkShares.String(),
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}

func toSummaryResponse(s *domain.DepositSummary) summaryResponse {
	resp := summaryResponse{
		TotalDeposits:        s.TotalDeposits.String(),
		TotalWithdrawals:     s.TotalWithdrawals.String(),
		DepositCount:         s.DepositCount,
		WithdrawalCount:      s.WithdrawalCount,
		NetInvested:          s.NetInvested.String(),
		NetInvestedDisplay:   domain.FormatUSD(s.NetInvested),
		TotalBenchmarkShares: s.TotalBenchmarkShares.String(),
		FirstDepositDate:     optionalDate(s.FirstDepositDate),
		LastDepositDate:      optionalDate(s.LastDepositDate),
	}
	if s.AverageCostBasis != nil {
		basis := s.AverageCostBasis.String()
		resp.AverageCostBasis = &basis
	}
	return resp
}

func toComparisonResponse(c *domain.LumpSumComparison) comparisonResponse {
	series := make([]seriesPoint, 0, len(c.Series))
	for _, p := range c.Series {
		series = append(series, seriesPoint{
			Date:         p.Date.Format(domain.DateFormat),
			Price:        p.Price.String(),
			DCAValue:     p.DCAValue.String(),
			LumpSumValue: p.LumpSumValue.String(),
		})
	}

	return comparisonResponse{
		CurrentPrice:        c.CurrentPrice.String(),
		DCAInvested:         c.DCAInvested.String(),
		DCAShares:           c.DCAShares.String(),
		DCACurrentValue:     c.DCACurrentValue.String(),
		DCAReturn:           c.DCAReturn.String(),
		DCAReturnPct:        c.DCAReturnPct.String(),
		LumpSumDate:         c.LumpSumDate.Format(domain.DateFormat),
		LumpSumPrice:        c.LumpSumPrice.String(),
		LumpSumShares:       c.LumpSumShares.String(),
		LumpSumCurrentValue: c.LumpSumCurrentValue.String(),
		LumpSumReturn:       c.LumpSumReturn.String(),
		LumpSumReturnPct:    c.LumpSumReturnPct.String(),
		IsWhatIf:            c.IsWhatIf,
		TimingBenefit:       c.TimingBenefit.String(),
		TimingBenefitPct:    c.TimingBenefitPct.String(),
		Winner:              string(c.Winner),
		FirstDepositDate:    c.FirstDepositDate.Format(domain.DateFormat),
		LastDepositDate:     c.LastDepositDate.Format(domain.DateFormat),
		Display: displayFields{
			DCACurrentValue:     domain.FormatUSD(c.DCACurrentValue),
			LumpSumCurrentValue: domain.FormatUSD(c.LumpSumCurrentValue),
			TimingBenefit:       domain.FormatUSD(c.TimingBenefit),
			TimingBenefitPct:    domain.FormatPercent(c.TimingBenefitPct),
		},
		Series: series,
	}
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
