package cli

import (
	"context"
	"flag"

	"github.com/google/subcommands"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/ledgercsv"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/benchmark"
)

type normalizeCmd struct {
	*env
	ledger string
	ticker string
}

func (*normalizeCmd) Name() string     { return "normalize" }
func (*normalizeCmd) Synopsis() string { return "rewrite a ledger with ids and computed shares" }
func (*normalizeCmd) Usage() string {
	return `wheelbench normalize -ledger <file.csv>

  Validates the ledger and prints it sorted by date, with every column filled in.
`
}

func (c *normalizeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "CSV deposit ledger")
	f.StringVar(&c.ticker, "ticker", domain.DefaultBenchmarkTicker, "benchmark ticker the ledger prices refer to")
}

func (c *normalizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, records, err := c.loadLedger(ctx, c.ledger, c.ticker)
	if err != nil {
		return c.usage(err)
	}

	if err := ledgercsv.Write(c.out, benchmark.SortRecords(records)); err != nil {
		return c.fail(err)
	}
	return subcommands.ExitSuccess
}
