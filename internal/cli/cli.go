// Package cli implements the wheelbench subcommands, offline analysis of CSV deposit ledgers.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/wheeltrack-backend/internal/adapter/repository/memory"
	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/ledgercsv"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/pricing"
)

// localUser owns every ledger loaded from a file
var localUser = uuid.Nil

// env carries the output streams shared by all commands
type env struct {
	out    io.Writer
	logger *slog.Logger
}

// Commands returns the wheelbench subcommands writing results to out and diagnostics to errOut
func Commands(out, errOut io.Writer) []subcommands.Command {
	e := &env{
		out:    out,
		logger: slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelWarn})),
	}
	return []subcommands.Command{
		&summaryCmd{env: e},
		&compareCmd{env: e},
		&normalizeCmd{env: e},
	}
}

// loadLedger reads a CSV ledger into an in-memory repository
func (e *env) loadLedger(ctx context.Context, path, ticker string) (*memory.DepositRepository, []domain.DepositRecord, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("-ledger is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := ledgercsv.Read(f, localUser, ticker)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	repo := memory.NewDepositRepository()
	for i := range records {
		if err := repo.Create(ctx, &records[i]); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return repo, records, nil
}

// newService wires a DepositService over repo whose only known close is the given price point
func (e *env) newService(repo domain.DepositRepository, ticker string, current *domain.PricePoint) *deposit.DepositService {
	var closes []domain.PricePoint
	if current != nil {
		closes = append(closes, *current)
	}
	prices := pricing.NewPriceService(memory.NewPriceRepository(closes...), nil, nil, 1, e.logger)
	return deposit.NewDepositService(repo, prices, ticker)
}

func (e *env) fail(err error) subcommands.ExitStatus {
	e.logger.Error("wheelbench failed", "error", err)
	return subcommands.ExitFailure
}

func (e *env) usage(err error) subcommands.ExitStatus {
	e.logger.Error("invalid arguments", "error", err)
	return subcommands.ExitUsageError
}
