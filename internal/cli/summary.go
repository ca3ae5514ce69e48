package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
)

type summaryCmd struct {
	*env
	ledger string
	ticker string
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "aggregate a deposit ledger" }
func (*summaryCmd) Usage() string {
	return `wheelbench summary -ledger <file.csv> [-ticker SPY]

  Prints deposit totals, net invested capital and benchmark shares held.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "CSV deposit ledger")
	f.StringVar(&c.ticker, "ticker", domain.DefaultBenchmarkTicker, "benchmark ticker the ledger prices refer to")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	repo, _, err := c.loadLedger(ctx, c.ledger, c.ticker)
	if err != nil {
		return c.usage(err)
	}

	summary, err := c.newService(repo, c.ticker, nil).GetSummary(ctx, localUser)
	if err != nil {
		return c.fail(err)
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Deposits\t%d\t%s\n", summary.DepositCount, domain.FormatUSD(summary.TotalDeposits))
	fmt.Fprintf(w, "Withdrawals\t%d\t%s\n", summary.WithdrawalCount, domain.FormatUSD(summary.TotalWithdrawals))
	fmt.Fprintf(w, "Net invested\t\t%s\n", domain.FormatUSD(summary.NetInvested))
	fmt.Fprintf(w, "%s shares\t\t%s\n", c.ticker, summary.TotalBenchmarkShares.StringFixed(4))
	if summary.AverageCostBasis != nil {
		fmt.Fprintf(w, "Average cost basis\t\t%s\n", domain.FormatUSD(*summary.AverageCostBasis))
	}
	if summary.FirstDepositDate != nil {
		fmt.Fprintf(w, "Period\t\t%s .. %s\n",
			summary.FirstDepositDate.Format(domain.DateFormat),
			summary.LastDepositDate.Format(domain.DateFormat))
	}
	if err := w.Flush(); err != nil {
		return c.fail(err)
	}

	return subcommands.ExitSuccess
}
