package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// PriceRepository keeps benchmark closes in process memory
type PriceRepository struct {
	mu     sync.RWMutex
	closes map[string]map[time.Time]domain.PricePoint // ticker -> day -> close
}

// NewPriceRepository creates an in-memory price repository seeded with points
func NewPriceRepository(points ...domain.PricePoint) *PriceRepository {
	r := &PriceRepository{closes: make(map[string]map[time.Time]domain.PricePoint)}
	r.put(points)
	return r
}

// Upsert stores closing prices, replacing existing ones for the same ticker and day
func (r *PriceRepository) Upsert(ctx context.Context, points []domain.PricePoint) error {
	r.put(points)
	return nil
}

func (r *PriceRepository) put(points []domain.PricePoint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range points {
		p.Date = domain.TruncateDate(p.Date)
		if r.closes[p.Ticker] == nil {
			r.closes[p.Ticker] = make(map[time.Time]domain.PricePoint)
		}
		r.closes[p.Ticker][p.Date] = p
	}
}

// GetOnOrBefore retrieves the latest close of ticker dated between notBefore and date
func (r *PriceRepository) GetOnOrBefore(ctx context.Context, ticker string, date, notBefore time.Time) (*domain.PricePoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	date, notBefore = domain.TruncateDate(date), domain.TruncateDate(notBefore)
	for day := date; !day.Before(notBefore); day = day.AddDate(0, 0, -1) {
		if p, ok := r.closes[ticker][day]; ok {
			return &p, nil
		}
	}
	return nil, fmt.Errorf("no %s close on or before %s: %w", ticker, date.Format(domain.DateFormat), domain.ErrNotFound)
}
