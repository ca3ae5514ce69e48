package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DepositRepository defines the interface for deposit ledger persistence operations.
// Every method is scoped to a single user.
type DepositRepository interface {
	// Create stores a new deposit record
	Create(ctx context.Context, record *DepositRecord) error

	// GetByID retrieves a deposit record owned by userID
	// Returns ErrNotFound if it does not exist
	GetByID(ctx context.Context, userID, id uuid.UUID) (*DepositRecord, error)

	// List retrieves every deposit record of userID ordered by date ascending
	List(ctx context.Context, userID uuid.UUID) ([]DepositRecord, error)

	// UpdateNotes replaces the notes of a record; notes are the only mutable field
	UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string) error

	// Delete removes a record
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// PriceRepository defines the interface for benchmark price history persistence
type PriceRepository interface {
	// Upsert stores closing prices, replacing existing rows for the same ticker and date
	Upsert(ctx context.Context, points []PricePoint) error

	// GetOnOrBefore retrieves the latest close for ticker dated between notBefore and date inclusive
	// Returns ErrNotFound if no row falls in the window
	GetOnOrBefore(ctx context.Context, ticker string, date, notBefore time.Time) (*PricePoint, error)
}

// PriceLookup resolves the historical close of a ticker for a date, or the nearest
// earlier trading day available.
type PriceLookup interface {
	GetPrice(ctx context.Context, ticker string, date time.Time) (*PricePoint, error)
}

// PriceCache is a best-effort cache in front of PriceLookup
type PriceCache interface {
	// Get returns the cached point and true on a hit
	Get(ctx context.Context, ticker string, date time.Time) (*PricePoint, bool, error)
	Set(ctx context.Context, ticker string, date time.Time, point *PricePoint) error
}

// PriceProvider fetches daily closes from an external market data source
type PriceProvider interface {
	// DailyCloses returns closes for every trading day in [from, to]
	DailyCloses(ctx context.Context, ticker string, from, to time.Time) ([]PricePoint, error)
}
