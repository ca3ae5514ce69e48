package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

const depositColumns = `id, user_id, type, amount, date, benchmark_ticker, benchmark_price, benchmark_shares, notes, created_at`

// depositRepository implements domain.DepositRepository
type depositRepository struct {
	db *DB
}

// NewDepositRepository creates a new deposit repository
func NewDepositRepository(db *DB) domain.DepositRepository {
	return &depositRepository{db: db}
}

// Create stores a new deposit record
func (r *depositRepository) Create(ctx context.Context, record *domain.DepositRecord) error {
	query := `
		INSERT INTO deposits (` + depositColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		string(record.Type),
		record.Amount.String(),
		record.Date,
		record.BenchmarkTicker,
		record.BenchmarkPrice.String(),
		record.BenchmarkShares.String(),
		record.Notes,
		record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create deposit: %w", err)
	}

	return nil
}

// GetByID retrieves a deposit record owned by userID
func (r *depositRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.DepositRecord, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE user_id = $1 AND id = $2
	`

	record, err := scanDeposit(r.db.QueryRowContext(ctx, query, userID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("deposit %s %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get deposit by ID: %w", err)
	}

	return record, nil
}

// List retrieves every deposit of userID, oldest first, insertion order within a day
func (r *depositRepository) List(ctx context.Context, userID uuid.UUID) ([]domain.DepositRecord, error) {
	query := `
		SELECT ` + depositColumns + `
		FROM deposits
		WHERE user_id = $1
		ORDER BY date ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer rows.Close()

	records := make([]domain.DepositRecord, 0)
	for rows.Next() {
		record, err := scanDeposit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deposits: %w", err)
	}

	return records, nil
}

// UpdateNotes replaces the notes of a record
func (r *depositRepository) UpdateNotes(ctx context.Context, userID, id uuid.UUID, notes string) error {
	query := `UPDATE deposits SET notes = $1 WHERE user_id = $2 AND id = $3`

	result, err := r.db.ExecContext(ctx, query, notes, userID, id)
	if err != nil {
		return fmt.Errorf("failed to update deposit notes: %w", err)
	}

	return requireAffected(result, id)
}

// Delete removes a record
func (r *depositRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	query := `DELETE FROM deposits WHERE user_id = $1 AND id = $2`

	result, err := r.db.ExecContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("failed to delete deposit: %w", err)
	}

	return requireAffected(result, id)
}

func requireAffected(result sql.Result, id uuid.UUID) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("deposit %s %w", id, domain.ErrNotFound)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDeposit(row rowScanner) (*domain.DepositRecord, error) {
	var record domain.DepositRecord
	var depositType string
	var amountStr, priceStr, sharesStr string

	err := row.Scan(
		&record.ID,
		&record.UserID,
		&depositType,
		&amountStr,
		&record.Date,
		&record.BenchmarkTicker,
		&priceStr,
		&sharesStr,
		&record.Notes,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Type = domain.DepositType(depositType)
	record.Date = domain.TruncateDate(record.Date)

	// Parse NUMERIC columns
	if record.Amount, err = decimal.NewFromString(amountStr); err != nil {
		return nil, fmt.Errorf("failed to parse amount: %w", err)
	}
	if record.BenchmarkPrice, err = decimal.NewFromString(priceStr); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark_price: %w", err)
	}
	if record.BenchmarkShares, err = decimal.NewFromString(sharesStr); err != nil {
		return nil, fmt.Errorf("failed to parse benchmark_shares: %w", err)
	}

	return &record, nil
}
