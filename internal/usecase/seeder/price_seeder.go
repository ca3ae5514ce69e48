package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// PriceSeeder backfills the stored benchmark price history from a market data provider
type PriceSeeder struct {
	repo     domain.PriceRepository
	provider domain.PriceProvider
	logger   *slog.Logger
}

// NewPriceSeeder creates a new PriceSeeder instance
func NewPriceSeeder(repo domain.PriceRepository, provider domain.PriceProvider, logger *slog.Logger) *PriceSeeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceSeeder{
		repo:     repo,
		provider: provider,
		logger:   logger,
	}
}

// Seed ensures the closes of ticker for the trailing days ending at asOf are stored.
// It returns the number of points written, zero when the history is already current.
func (s *PriceSeeder) Seed(ctx context.Context, ticker string, asOf time.Time, days int) (int, error) {
	if days < 1 {
		return 0, fmt.Errorf("backfill days must be at least 1, got %d", days)
	}
	if ticker == "" {
		return 0, errors.New("ticker is required")
	}

	to := domain.TruncateDate(asOf)
	from := to.AddDate(0, 0, -(days - 1))

	// A close stored for asOf means an earlier run already covered the window
	if _, err := s.repo.GetOnOrBefore(ctx, ticker, to, to); err == nil {
		s.logger.Debug("price history current", "ticker", ticker, "date", to.Format(time.DateOnly))
		return 0, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return 0, fmt.Errorf("failed to check stored prices: %w", err)
	}

	fetched, err := s.provider.DailyCloses(ctx, ticker, from, to)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch %s closes: %w", ticker, err)
	}

	points := make([]domain.PricePoint, 0, len(fetched))
	for _, p := range fetched {
		day := domain.TruncateDate(p.Date)
		if !p.Close.IsPositive() || day.Before(from) || day.After(to) {
			s.logger.Warn("skipping price point", "ticker", ticker, "date", day.Format(time.DateOnly), "close", p.Close.String())
			continue
		}
		points = append(points, domain.PricePoint{Ticker: ticker, Date: day, Close: p.Close})
	}

	if len(points) == 0 {
		s.logger.Warn("provider returned no usable closes", "ticker", ticker,
			"from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
		return 0, nil
	}

	if err := s.repo.Upsert(ctx, points); err != nil {
		return 0, err
	}

	s.logger.Info("price history backfilled", "ticker", ticker, "points", len(points),
		"from", from.Format(time.DateOnly), "to", to.Format(time.DateOnly))
	return len(points), nil
}
