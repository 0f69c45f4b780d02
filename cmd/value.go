package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	"github.com/google/subcommands"
)

// valueCmd holds the flags for the 'value' subcommand.
type valueCmd struct {
	date string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "display the total portfolio value at a date" }
func (*valueCmd) Usage() string {
	return `gf value [-d <date>]

  Displays the total market value, committed funds and fees of the
  portfolio at the given date, in the base currency.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", portfolio.Today().String(), "Date to value the portfolio at.")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := portfolio.ParseDate(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	p, _, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	value, err := p.GetValue(on)
	if errors.Is(err, portfolio.ErrIncompleteValuation) {
		fmt.Fprintln(os.Stderr, "warning: some exchange rates are missing, the value is partial")
	}

	cur := p.BaseCurrency()
	fmt.Printf("Value on %s: %.2f %s\n", on, value.AsFloat(), cur)
	fmt.Printf("Committed funds: %.2f %s\n", p.GetCommittedFunds().AsFloat(), cur)
	fmt.Printf("Fees: %.2f %s\n", p.GetFees(on).AsFloat(), cur)
	return subcommands.ExitSuccess
}
