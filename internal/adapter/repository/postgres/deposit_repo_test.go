package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var depositRowColumns = []string{"id", "user_id", "type", "amount", "date", "benchmark_ticker", "benchmark_price", "benchmark_shares", "notes", "created_at"}

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &DB{DB: db}, mock
}

func TestDepositRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	record, err := domain.NewDepositRecord(uuid.New(), domain.DepositTypeDeposit, decimal.NewFromInt(5000),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "SPY", decimal.RequireFromString("450.00"), "first")
	require.NoError(t, err)

	mock.ExpectExec("INSERT INTO deposits").
		WithArgs(record.ID, record.UserID, "DEPOSIT", "5000", record.Date, "SPY", "450", record.BenchmarkShares.String(), "first", record.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Create(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	userID := uuid.New()
	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(depositRowColumns).
		AddRow(uuid.New().String(), userID.String(), "DEPOSIT", "5000", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "SPY", "450", "11.1111111111111111", "", created).
		AddRow(uuid.New().String(), userID.String(), "WITHDRAWAL", "1000", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "SPY", "400", "2.5", "rent", created)

	mock.ExpectQuery("SELECT (.+) FROM deposits WHERE user_id = \\$1 ORDER BY date ASC, created_at ASC").
		WithArgs(userID).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), userID)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.DepositTypeWithdrawal, records[1].Type)
	assert.Equal(t, "2.5", records[1].BenchmarkShares.String())
	assert.Equal(t, "rent", records[1].Notes)
	assert.True(t, records[1].SignedAmount().Equal(decimal.NewFromInt(-1000)))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepository_ListRejectsCorruptNumeric(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	userID := uuid.New()
	rows := sqlmock.NewRows(depositRowColumns).
		AddRow(uuid.New().String(), userID.String(), "DEPOSIT", "abc", time.Now(), "SPY", "450", "1", "", time.Now())
	mock.ExpectQuery("SELECT (.+) FROM deposits").WithArgs(userID).WillReturnRows(rows)

	_, err := repo.List(context.Background(), userID)

	assert.ErrorContains(t, err, "failed to parse amount")
}

func TestDepositRepository_GetByIDNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	userID, id := uuid.New(), uuid.New()
	mock.ExpectQuery("SELECT (.+) FROM deposits WHERE user_id = \\$1 AND id = \\$2").
		WithArgs(userID, id).
		WillReturnRows(sqlmock.NewRows(depositRowColumns))

	record, err := repo.GetByID(context.Background(), userID, id)

	assert.Nil(t, record)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepository_UpdateNotes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	userID, id := uuid.New(), uuid.New()

	t.Run("updated", func(t *testing.T) {
		mock.ExpectExec("UPDATE deposits SET notes = \\$1 WHERE user_id = \\$2 AND id = \\$3").
			WithArgs("bonus", userID, id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.UpdateNotes(context.Background(), userID, id, "bonus"))
	})

	t.Run("belongs to another user", func(t *testing.T) {
		mock.ExpectExec("UPDATE deposits SET notes").
			WithArgs("bonus", userID, id).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.UpdateNotes(context.Background(), userID, id, "bonus")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDepositRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDepositRepository(db)

	userID, id := uuid.New(), uuid.New()
	mock.ExpectExec("DELETE FROM deposits WHERE user_id = \\$1 AND id = \\$2").
		WithArgs(userID, id).
		WillReturnError(errors.New("connection reset"))

	err := repo.Delete(context.Background(), userID, id)

	assert.EqualError(t, err, "failed to delete deposit: connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}
