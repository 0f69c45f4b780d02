package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	"github.com/ghostfolio/ghostfolio-sub000/renderer"
	"github.com/google/subcommands"
)

// performanceCmd holds the flags for the 'performance' subcommand.
type performanceCmd struct {
	rng string
}

func (*performanceCmd) Name() string     { return "performance" }
func (*performanceCmd) Synopsis() string { return "display the portfolio performance over a range" }
func (*performanceCmd) Usage() string {
	return `gf performance [-r <range>]

  Displays the gross and net performance of the portfolio between the
  range's anchor date and today, in the base currency.
`
}

func (c *performanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "r", "max", "Range to report on (1d, ytd, 1y, 5y, max).")
}

func (c *performanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rng := portfolio.ParseDateRange(c.rng)
	perf, err := p.GetPerformance(rng)
	if err != nil && !errors.Is(err, portfolio.ErrIncompleteValuation) {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if errors.Is(err, portfolio.ErrIncompleteValuation) {
		fmt.Fprintln(os.Stderr, "warning: some exchange rates are missing, figures are partial")
	}

	printMarkdown(renderer.PerformanceMarkdown(p.BaseCurrency(), rng, perf))
	return subcommands.ExitSuccess
}
