package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

// DepositRepository keeps deposit ledgers in process memory.
// It backs the offline CLI and the transport tests.
type DepositRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.DepositRecord
	order   []uuid.UUID // insertion order
}

// NewDepositRepository creates an empty in-memory deposit repository
func NewDepositRepository() *DepositRepository {
	return &DepositRepository{records: make(map[uuid.UUID]domain.DepositRecord)}
}

// Create stores a copy of record
func (r *DepositRepository) Create(ctx context.Context, record *domain.DepositRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return fmt.Errorf("deposit %s already exists", record.ID)
	}
	r.records[record.ID] = *record
	r.order = append(r.order, record.ID)
	return nil
}

// GetByID retrieves a deposit record owned by userID
func (r *DepositRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.DepositRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return nil, fmt.Errorf("deposit %s %w", id, domain.ErrNotFound)
	}
	return &record, nil
}

// List returns the records of userID in insertion order; callers sort by date
func (r *DepositRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.DepositRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.DepositRecord, 0)
	for _, id := range r.order {
		if record := r.records[id]; record.UserID == userID {
			records = append(records, record)
		}
	}
	return records, nil
}

// UpdateNotes replaces the notes of a record
func (r *DepositRepository) UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return fmt.Errorf("deposit %s %w", id, domain.ErrNotFound)
	}
	record.Notes = notes
	r.records[id] = record
	return nil
}

// Delete removes a record
func (r *DepositRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.UserID != userID {
		return fmt.Errorf("deposit %s %w", id, domain.ErrNotFound)
	}
	delete(r.records, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
