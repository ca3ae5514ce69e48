//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	grpcadapter "github.com/simaogato/wheeltrack-backend/internal/adapter/grpc"
	"github.com/simaogato/wheeltrack-backend/internal/adapter/repository/postgres"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/pricing"
)

const integrationTicker = "ITEST"

var db *postgres.DB

// TestMain connects to the database named by DB_CONN_STR (or the DB_* variables) and migrates it
func TestMain(m *testing.M) {
	ctx := context.Background()

	var err error
	db, err = postgres.NewDB(ctx, getDBConnectionString())
	if err != nil {
		panic(fmt.Sprintf("Failed to connect to database: %v", err))
	}

	if err := postgres.RunMigrations(ctx, db); err != nil {
		panic(fmt.Sprintf("Failed to run migrations: %v", err))
	}

	code := m.Run()
	db.Close()
	os.Exit(code)
}

func getDBConnectionString() string {
	if connStr := os.Getenv("DB_CONN_STR"); connStr != "" {
		return connStr
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		envOr("DB_HOST", "localhost"), envOr("DB_PORT", "5432"), envOr("DB_USER", "postgres"),
		envOr("DB_PASSWORD", "postgres"), envOr("DB_NAME", "wheeltrack"))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMigrations_Version(t *testing.T) {
	version, dirty, err := postgres.MigrationVersion(context.Background(), db)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.GreaterOrEqual(t, version, uint(2))
}

func TestDepositRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewDepositRepository(db)
	userID := uuid.New()

	record, err := domain.NewDepositRecord(userID, domain.DepositTypeDeposit, decimal.NewFromInt(5000),
		day(2024, 1, 2), integrationTicker, decimal.RequireFromString("472.65"), "january")
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, record))
	t.Cleanup(func() { _ = repo.Delete(context.Background(), userID, record.ID) })

	got, err := repo.GetByID(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.True(t, got.Amount.Equal(record.Amount))
	assert.True(t, got.BenchmarkShares.Equal(record.BenchmarkShares), "shares must survive the round trip unchanged")
	assert.True(t, got.Date.Equal(record.Date))

	_, err = repo.GetByID(ctx, uuid.New(), record.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "records are scoped to their owner")

	require.NoError(t, repo.UpdateNotes(ctx, userID, record.ID, "edited"))
	got, err = repo.GetByID(ctx, userID, record.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Notes)

	require.NoError(t, repo.Delete(ctx, userID, record.ID))
	assert.ErrorIs(t, repo.Delete(ctx, userID, record.ID), domain.ErrNotFound)
}

func TestPriceRepository_UpsertAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := postgres.NewPriceRepository(db)

	require.NoError(t, repo.Upsert(ctx, []domain.PricePoint{
		{Ticker: integrationTicker, Date: day(2024, 8, 29), Close: decimal.RequireFromString("558.35")},
		{Ticker: integrationTicker, Date: day(2024, 8, 30), Close: decimal.RequireFromString("563.68")},
	}))
	// replacing a close is idempotent
	require.NoError(t, repo.Upsert(ctx, []domain.PricePoint{
		{Ticker: integrationTicker, Date: day(2024, 8, 30), Close: decimal.RequireFromString("563.68")},
	}))

	point, err := repo.GetOnOrBefore(ctx, integrationTicker, day(2024, 9, 2), day(2024, 8, 26))
	require.NoError(t, err)
	assert.True(t, point.Date.Equal(day(2024, 8, 30)))
	assert.Equal(t, "563.68", point.Close.StringFixed(2))

	_, err = repo.GetOnOrBefore(ctx, integrationTicker, day(2024, 8, 28), day(2024, 8, 21))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDepositService_EndToEnd(t *testing.T) {
	ctx := context.Background()
	priceRepo := postgres.NewPriceRepository(db)
	depositRepo := postgres.NewDepositRepository(db)
	userID := uuid.New()

	require.NoError(t, priceRepo.Upsert(ctx, []domain.PricePoint{
		{Ticker: integrationTicker, Date: day(2024, 1, 2), Close: decimal.RequireFromString("450")},
		{Ticker: integrationTicker, Date: day(2024, 6, 3), Close: decimal.RequireFromString("500")},
		{Ticker: integrationTicker, Date: day(2024, 8, 30), Close: decimal.RequireFromString("550")},
	}))

	prices := pricing.NewPriceService(priceRepo, nil, nil, 7, nil)
	service := deposit.NewDepositService(depositRepo, prices, integrationTicker)
	service.Now = func() time.Time { return time.Date(2024, 9, 2, 15, 0, 0, 0, time.UTC) }

	var ids []uuid.UUID
	t.Cleanup(func() {
		for _, id := range ids {
			_ = depositRepo.Delete(context.Background(), userID, id)
		}
	})

	for _, d := range []time.Time{day(2024, 1, 2), day(2024, 6, 3)} {
		record, err := service.RecordDeposit(ctx, deposit.RecordDepositInput{
			UserID: userID,
			Type:   domain.DepositTypeDeposit,
			Amount: decimal.NewFromInt(5000),
			Date:   d,
		})
		require.NoError(t, err)
		ids = append(ids, record.ID)
	}

	summary, err := service.GetSummary(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DepositCount)
	assert.Equal(t, "10000.00", summary.NetInvested.StringFixed(2))

	comparison, err := service.CompareLumpSum(ctx, deposit.CompareInput{UserID: userID})
	require.NoError(t, err)
	assert.Equal(t, "11611.11", comparison.DCACurrentValue.StringFixed(2))
	assert.Equal(t, "12222.22", comparison.LumpSumCurrentValue.StringFixed(2))
	assert.Equal(t, domain.WinnerLumpSum, comparison.Winner)

	_, err = service.CompareLumpSum(ctx, deposit.CompareInput{UserID: uuid.New()})
	assert.ErrorIs(t, err, domain.ErrNoDeposits)
}

// TestGRPCServer_Smoke runs against a live server when GRPC_ADDRESS is set
func TestGRPCServer_Smoke(t *testing.T) {
	addr := os.Getenv("GRPC_ADDRESS")
	if addr == "" {
		t.Skip("GRPC_ADDRESS not set")
	}

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	defer conn.Close()
	client := grpcadapter.NewDepositServiceClient(conn)

	ctx := metadata.NewOutgoingContext(context.Background(), metadata.New(map[string]string{
		"authorization":          envOr("API_TOKEN", "dev-token"),
		grpcadapter.UserIDHeader: uuid.NewString(),
	}))

	_, err = client.CompareLumpSum(ctx, &grpcadapter.CompareLumpSumRequest{})
	assert.Equal(t, codes.FailedPrecondition, status.Code(err), "a fresh user has no deposits")

	_, err = client.RecordDeposit(ctx, &grpcadapter.RecordDepositRequest{Type: "DEPOSIT", Amount: "-5", Date: "2024-01-02"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ListDeposits(context.Background(), &grpcadapter.ListDepositsRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
