package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"

	"github.com/simaogato/wheeltrack-backend/internal/domain"
	"github.com/simaogato/wheeltrack-backend/internal/usecase/deposit"
)

type compareCmd struct {
	*env
	ledger    string
	ticker    string
	price     string
	asOf      string
	lumpDate  string
	lumpPrice string
	series    bool
	asJSON    bool
}

func (*compareCmd) Name() string     { return "compare" }
func (*compareCmd) Synopsis() string { return "compare a deposit ledger against a lump sum" }
func (*compareCmd) Usage() string {
	return `wheelbench compare -ledger <file.csv> -price <current> [-as-of <date>] [-lump-date <date> -lump-price <price>] [-series] [-json]

  Compares the deposits as made (dollar-cost averaging) against investing the same
  net capital at once. Without -lump-date and -lump-price the lump sum is placed on
  the first deposit at its recorded price. No network access is performed.
`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "ledger", "", "CSV deposit ledger")
	f.StringVar(&c.ticker, "ticker", domain.DefaultBenchmarkTicker, "benchmark ticker the ledger prices refer to")
	f.StringVar(&c.price, "price", "", "current benchmark price")
	f.StringVar(&c.asOf, "as-of", "", "date of the current price (defaults to today)")
	f.StringVar(&c.lumpDate, "lump-date", "", "what-if lump sum date")
	f.StringVar(&c.lumpPrice, "lump-price", "", "what-if lump sum price")
	f.BoolVar(&c.series, "series", false, "print the value series")
	f.BoolVar(&c.asJSON, "json", false, "print the comparison as JSON")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	current, input, err := c.parse()
	if err != nil {
		return c.usage(err)
	}

	repo, _, err := c.loadLedger(ctx, c.ledger, c.ticker)
	if err != nil {
		return c.usage(err)
	}

	service := c.newService(repo, c.ticker, current)
	service.Now = func() time.Time { return current.Date }

	result, err := service.CompareLumpSum(ctx, input)
	if err != nil {
		return c.fail(err)
	}

	if c.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return c.fail(err)
		}
		return subcommands.ExitSuccess
	}

	if err := c.render(result); err != nil {
		return c.fail(err)
	}
	return subcommands.ExitSuccess
}

// parse validates the flags into the current price point and the comparison input
func (c *compareCmd) parse() (*domain.PricePoint, deposit.CompareInput, error) {
	input := deposit.CompareInput{UserID: localUser}

	if c.price == "" {
		return nil, input, errors.New("-price is required")
	}
	price, err := domain.ParseDecimal("price", c.price)
	if err != nil {
		return nil, input, fmt.Errorf("-price: %w", err)
	}

	asOf := domain.TruncateDate(time.Now())
	if c.asOf != "" {
		if asOf, err = domain.ParseDate(c.asOf); err != nil {
			return nil, input, fmt.Errorf("-as-of: %w", err)
		}
	}

	if c.lumpDate != "" {
		date, err := domain.ParseDate(c.lumpDate)
		if err != nil {
			return nil, input, fmt.Errorf("-lump-date: %w", err)
		}
		input.LumpSumDate = &date
	}
	if c.lumpPrice != "" {
		lump, err := domain.ParseDecimal("lump price", c.lumpPrice)
		if err != nil {
			return nil, input, fmt.Errorf("-lump-price: %w", err)
		}
		input.LumpSumPrice = &lump
	}

	return &domain.PricePoint{Ticker: c.ticker, Date: asOf, Close: price}, input, nil
}

func (c *compareCmd) render(r *domain.LumpSumComparison) error {
	mode := "first deposit"
	if r.IsWhatIf {
		mode = "what-if"
	}

	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "\tDCA\tLump sum (%s)\n", mode)
	fmt.Fprintf(w, "Entry\t%s .. %s\t%s @ %s\n",
		r.FirstDepositDate.Format(domain.DateFormat), r.LastDepositDate.Format(domain.DateFormat),
		r.LumpSumDate.Format(domain.DateFormat), domain.FormatUSD(r.LumpSumPrice))
	fmt.Fprintf(w, "Invested\t%s\t%s\n", domain.FormatUSD(r.DCAInvested), domain.FormatUSD(r.DCAInvested))
	fmt.Fprintf(w, "Shares\t%s\t%s\n", r.DCAShares.StringFixed(4), r.LumpSumShares.StringFixed(4))
	fmt.Fprintf(w, "Value @ %s\t%s\t%s\n", domain.FormatUSD(r.CurrentPrice), domain.FormatUSD(r.DCACurrentValue), domain.FormatUSD(r.LumpSumCurrentValue))
	fmt.Fprintf(w, "Return\t%s (%s)\t%s (%s)\n",
		domain.FormatUSD(r.DCAReturn), domain.FormatPercent(r.DCAReturnPct),
		domain.FormatUSD(r.LumpSumReturn), domain.FormatPercent(r.LumpSumReturnPct))
	fmt.Fprintf(w, "Timing benefit\t%s (%s)\t\n", domain.FormatUSD(r.TimingBenefit), domain.FormatPercent(r.TimingBenefitPct))
	fmt.Fprintf(w, "Winner\t%s\t\n", r.Winner)

	if c.series {
		fmt.Fprintf(w, "\nDate\tPrice\tDCA\tLump sum\n")
		for _, p := range r.Series {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Date.Format(domain.DateFormat),
				domain.FormatUSD(p.Price), domain.FormatUSD(p.DCAValue), domain.FormatUSD(p.LumpSumValue))
		}
	}

	return w.Flush()
}
