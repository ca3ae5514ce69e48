package pricing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// DefaultLookbackDays covers weekends and market holidays
const DefaultLookbackDays = 7

// PriceService resolves benchmark closes, falling back to the nearest earlier trading day.
// Lookup order: cache, price history table, market data provider.
// It implements domain.PriceLookup and is safe for concurrent use.
type PriceService struct {
	Repo     domain.PriceRepository
	Cache    domain.PriceCache    // optional
	Provider domain.PriceProvider // optional
	Lookback int                  // days searched before the requested date
	Logger   *slog.Logger
	Now      func() time.Time

	fetches singleflight.Group
}

// NewPriceService creates a new PriceService instance
func NewPriceService(repo domain.PriceRepository, cache domain.PriceCache, provider domain.PriceProvider, lookbackDays int, logger *slog.Logger) *PriceService {
	if lookbackDays <= 0 {
		lookbackDays = DefaultLookbackDays
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceService{
		Repo:     repo,
		Cache:    cache,
		Provider: provider,
		Lookback: lookbackDays,
		Logger:   logger,
		Now:      time.Now,
	}
}

// GetPrice returns the close of ticker on date, or on the closest earlier trading day within the lookback window
func (s *PriceService) GetPrice(ctx context.Context, ticker string, date time.Time) (*domain.PricePoint, error) {
	day := domain.TruncateDate(date)

	if point, ok := s.fromCache(ctx, ticker, day); ok {
		return point, nil
	}

	notBefore := day.AddDate(0, 0, -s.Lookback)

	point, err := s.Repo.GetOnOrBefore(ctx, ticker, day, notBefore)
	if err == nil {
		point = s.refresh(ctx, ticker, day, point)
		s.remember(ctx, ticker, day, point)
		return point, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to read price history: %w", err)
	}

	point, err = s.fetch(ctx, ticker, day, notBefore)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, ticker, day, point)
	return point, nil
}

// refresh asks the provider for closes newer than stored when day is recent enough
// for the history table to lag behind. The stored point is kept when nothing newer arrives.
func (s *PriceService) refresh(ctx context.Context, ticker string, day time.Time, stored *domain.PricePoint) *domain.PricePoint {
	if s.Provider == nil || !stored.Date.Before(day) {
		return stored
	}

	today := domain.TruncateDate(s.Now())
	if day.Before(today.AddDate(0, 0, -s.Lookback)) {
		return stored
	}

	newer, err := s.fetch(ctx, ticker, day, stored.Date.AddDate(0, 0, 1))
	if err != nil {
		if !errors.Is(err, domain.ErrPriceUnavailable) {
			s.Logger.Warn("price refresh failed, using stored close", "ticker", ticker,
				"date", day.Format(domain.DateFormat), "stored", stored.Date.Format(domain.DateFormat), "error", err)
		}
		return stored
	}

	return newer
}

// fetch asks the provider for the lookback window, persists every close and resolves the date.
// Concurrent requests for the same window share one provider call.
func (s *PriceService) fetch(ctx context.Context, ticker string, day, notBefore time.Time) (*domain.PricePoint, error) {
	if s.Provider == nil {
		return nil, unavailable(ticker, day)
	}

	key := ticker + "|" + notBefore.Format(domain.DateFormat) + "|" + day.Format(domain.DateFormat)
	v, err, _ := s.fetches.Do(key, func() (interface{}, error) {
		points, err := s.Provider.DailyCloses(ctx, ticker, notBefore, day)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s closes: %w", ticker, err)
		}

		if len(points) > 0 {
			if err := s.Repo.Upsert(ctx, points); err != nil {
				s.Logger.Warn("price history write failed", "ticker", ticker, "error", err)
			}
		}

		return points, nil
	})
	if err != nil {
		return nil, err
	}

	point := NearestOnOrBefore(v.([]domain.PricePoint), day, notBefore)
	if point == nil {
		return nil, unavailable(ticker, day)
	}

	return point, nil
}

func (s *PriceService) fromCache(ctx context.Context, ticker string, day time.Time) (*domain.PricePoint, bool) {
	if s.Cache == nil {
		return nil, false
	}

	point, ok, err := s.Cache.Get(ctx, ticker, day)
	if err != nil {
		s.Logger.Warn("price cache read failed", "ticker", ticker, "date", day.Format(domain.DateFormat), "error", err)
		return nil, false
	}

	return point, ok
}

func (s *PriceService) remember(ctx context.Context, ticker string, day time.Time, point *domain.PricePoint) {
	if s.Cache == nil {
		return
	}

	if err := s.Cache.Set(ctx, ticker, day, point); err != nil {
		s.Logger.Warn("price cache write failed", "ticker", ticker, "date", day.Format(domain.DateFormat), "error", err)
	}
}

// NearestOnOrBefore picks the latest positive close dated in [notBefore, day]
func NearestOnOrBefore(points []domain.PricePoint, day, notBefore time.Time) *domain.PricePoint {
	var best *domain.PricePoint

	for i := range points {
		p := points[i]
		if p.Date.After(day) || p.Date.Before(notBefore) || !p.Close.IsPositive() {
			continue
		}
		if best == nil || p.Date.After(best.Date) {
			best = &p
		}
	}

	return best
}

func unavailable(ticker string, day time.Time) error {
	return &domain.InvalidPriceError{
		Field: "benchmark_price",
		Cause: fmt.Errorf("%w: no %s close on or before %s", domain.ErrPriceUnavailable, ticker, day.Format(domain.DateFormat)),
	}
}
