package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	portfolio "github.com/ghostfolio/ghostfolio-sub000"
	"github.com/ghostfolio/ghostfolio-sub000/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	rng string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the per-symbol holdings breakdown" }
func (*holdingCmd) Usage() string {
	return `gf holding [-r <range>]

  Displays one row per held symbol: quantity, market price, value in the
  base currency and the return over the requested range.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.rng, "r", "max", "Range to report on (1d, ytd, 1y, 5y, max).")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, _, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	rng := portfolio.ParseDateRange(c.rng)
	details, err := p.GetDetails(ctx, rng)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.DetailsMarkdown(p.BaseCurrency(), rng, details))
	return subcommands.ExitSuccess
}
