package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// priceRepository implements domain.PriceRepository
type priceRepository struct {
	db *DB
}

// NewPriceRepository creates a new benchmark price repository
func NewPriceRepository(db *DB) domain.PriceRepository {
	return &priceRepository{db: db}
}

// Upsert stores closing prices in a single database transaction
func (r *priceRepository) Upsert(ctx context.Context, points []domain.PricePoint) error {
	dbTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		INSERT INTO benchmark_prices (ticker, date, close, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (ticker, date) DO UPDATE SET close = EXCLUDED.close, updated_at = NOW()
	`

	for _, point := range points {
		_, err = dbTx.ExecContext(ctx, query,
			point.Ticker,
			point.Date,
			point.Close.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert %s close for %s: %w", point.Ticker, point.Date.Format(domain.DateFormat), err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetOnOrBefore retrieves the latest close of ticker dated between notBefore and date
func (r *priceRepository) GetOnOrBefore(ctx context.Context, ticker string, date, notBefore time.Time) (*domain.PricePoint, error) {
	query := `
		SELECT ticker, date, close
		FROM benchmark_prices
		WHERE ticker = $1 AND date <= $2 AND date >= $3
		ORDER BY date DESC
		LIMIT 1
	`

	var point domain.PricePoint
	var closeStr string

	err := r.db.QueryRowContext(ctx, query, ticker, date, notBefore).Scan(
		&point.Ticker,
		&point.Date,
		&closeStr,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no %s close on or before %s: %w", ticker, date.Format(domain.DateFormat), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get benchmark price: %w", err)
	}

	closePrice, err := decimal.NewFromString(closeStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse close: %w", err)
	}
	point.Close = closePrice
	point.Date = domain.TruncateDate(point.Date)

	return &point, nil
}
