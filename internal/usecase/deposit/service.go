package deposit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/benchmark"
)

// RecordDepositInput represents the input for recording a deposit or withdrawal
type RecordDepositInput struct {
	UserID uuid.UUID
	Type   domain.DepositType
	Amount decimal.Decimal // ABSOLUTE VALUE
	Date   time.Time
	Notes  string
	// BenchmarkPrice is optional; when nil the close for Date is looked up
	BenchmarkPrice *decimal.Decimal
}

// CompareInput represents the input for a DCA vs lump sum comparison.
// LumpSumDate and LumpSumPrice are supplied together for a what-if scenario, or both left nil.
type CompareInput struct {
	UserID       uuid.UUID
	LumpSumDate  *time.Time
	LumpSumPrice *decimal.Decimal
}

// DepositService handles the deposit ledger and its benchmark comparisons
type DepositService struct {
	DepositRepo domain.DepositRepository
	Prices      domain.PriceLookup
	Ticker      string
	Now         func() time.Time
}

// NewDepositService creates a new DepositService instance
func NewDepositService(depositRepo domain.DepositRepository, prices domain.PriceLookup, ticker string) *DepositService {
	if ticker == "" {
		ticker = domain.DefaultBenchmarkTicker
	}
	return &DepositService{
		DepositRepo: depositRepo,
		Prices:      prices,
		Ticker:      ticker,
		Now:         time.Now,
	}
}

// RecordDeposit creates a deposit record
// Logic:
//  1. Validate amount, type and date (no future dates)
//  2. Capture the benchmark price for the date (supplied, or looked up)
//  3. Compute shares once and persist; the captured price is never recomputed
func (s *DepositService) RecordDeposit(ctx context.Context, input RecordDepositInput) (*domain.DepositRecord, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, domain.NewValidationError("deposit amount must be positive")
	}

	if err := domain.CheckMagnitude("deposit amount", input.Amount); err != nil {
		return nil, err
	}

	if input.Type != domain.DepositTypeDeposit && input.Type != domain.DepositTypeWithdrawal {
		return nil, domain.NewValidationError("deposit type must be DEPOSIT or WITHDRAWAL")
	}

	if input.Date.IsZero() {
		return nil, domain.NewValidationError("deposit date is required")
	}

	date := domain.TruncateDate(input.Date)
	if date.After(s.today()) {
		return nil, domain.NewValidationError("deposit date must not be in the future")
	}

	price, err := s.capturePrice(ctx, date, input.BenchmarkPrice)
	if err != nil {
		return nil, err
	}

	record, err := domain.NewDepositRecord(input.UserID, input.Type, input.Amount, date, s.Ticker, price, input.Notes)
	if err != nil {
		return nil, err
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := s.DepositRepo.Create(ctx, record); err != nil {
		return nil, err
	}

	return record, nil
}

// capturePrice returns the supplied price, or the close of the benchmark on date
func (s *DepositService) capturePrice(ctx context.Context, date time.Time, supplied *decimal.Decimal) (decimal.Decimal, error) {
	if supplied != nil {
		if !supplied.IsPositive() {
			return decimal.Zero, &domain.InvalidPriceError{Field: "benchmark_price", Price: *supplied}
		}
		if err := domain.CheckMagnitude("benchmark price", *supplied); err != nil {
			return decimal.Zero, err
		}
		return *supplied, nil
	}

	point, err := s.Prices.GetPrice(ctx, s.Ticker, date)
	if err != nil {
		return decimal.Zero, asInvalidPrice("benchmark_price", err)
	}

	if !point.Close.IsPositive() {
		return decimal.Zero, &domain.InvalidPriceError{Field: "benchmark_price", Price: point.Close}
	}

	return point.Close, nil
}

// ListDeposits returns the user's ledger ordered by date ascending
func (s *DepositService) ListDeposits(ctx context.Context, userID uuid.UUID) ([]domain.DepositRecord, error) {
	records, err := s.DepositRepo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deposits: %w", err)
	}
	return benchmark.SortRecords(records), nil
}

// UpdateNotes replaces the notes of a record; every other field is immutable
func (s *DepositService) UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string) (*domain.DepositRecord, error) {
	record, err := s.DepositRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.DepositRepo.UpdateNotes(ctx, userID, id, notes); err != nil {
		return nil, err
	}

	record.Notes = notes
	return record, nil
}

// DeleteDeposit removes a record from the user's ledger
func (s *DepositService) DeleteDeposit(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.DepositRepo.GetByID(ctx, userID, id); err != nil {
		return err
	}
	return s.DepositRepo.Delete(ctx, userID, id)
}

// GetSummary aggregates the user's ledger
func (s *DepositService) GetSummary(ctx context.Context, userID uuid.UUID) (*domain.DepositSummary, error) {
	records, err := s.ListDeposits(ctx, userID)
	if err != nil {
		return nil, err
	}

	summary := benchmark.Summarize(records)
	return &summary, nil
}

// CompareLumpSum compares the user's deposit history against a lump sum of the same capital
// Logic:
//  1. Reject a half-specified, non-positive or oversized what-if before any I/O
//  2. Fetch the ledger and today's benchmark close concurrently
//  3. An empty ledger is ErrNoDeposits regardless of the price outcome
//  4. Delegate the math to benchmark.Compare
func (s *DepositService) CompareLumpSum(ctx context.Context, input CompareInput) (*domain.LumpSumComparison, error) {
	var whatIf *benchmark.LumpSumOverride
	if input.LumpSumDate != nil || input.LumpSumPrice != nil {
		if input.LumpSumDate == nil || input.LumpSumPrice == nil {
			return nil, domain.NewValidationError("lump sum date and price must be supplied together")
		}
		if !input.LumpSumPrice.IsPositive() {
			return nil, &domain.InvalidPriceError{Field: "lump_sum_price", Price: *input.LumpSumPrice}
		}
		if err := domain.CheckMagnitude("lump sum price", *input.LumpSumPrice); err != nil {
			return nil, err
		}
		whatIf = &benchmark.LumpSumOverride{
			Date:  domain.TruncateDate(*input.LumpSumDate),
			Price: *input.LumpSumPrice,
		}
	}

	var (
		records  []domain.DepositRecord
		current  *domain.PricePoint
		priceErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		list, err := s.DepositRepo.List(gctx, input.UserID)
		if err != nil {
			return fmt.Errorf("failed to list deposits: %w", err)
		}
		records = list
		return nil
	})
	g.Go(func() error {
		current, priceErr = s.Prices.GetPrice(gctx, s.Ticker, s.today())
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, domain.ErrNoDeposits
	}

	if priceErr != nil {
		return nil, asInvalidPrice("current_price", priceErr)
	}

	return benchmark.Compare(benchmark.ComparisonInput{
		Records:      records,
		CurrentPrice: current.Close,
		AsOf:         current.Date,
		LumpSum:      whatIf,
	})
}

func (s *DepositService) today() time.Time {
	return domain.TruncateDate(s.Now())
}

// asInvalidPrice keeps an existing InvalidPriceError or wraps a lookup failure into one
func asInvalidPrice(field string, err error) error {
	var priceErr *domain.InvalidPriceError
	if errors.As(err, &priceErr) {
		return err
	}
	return &domain.InvalidPriceError{Field: field, Cause: err}
}
