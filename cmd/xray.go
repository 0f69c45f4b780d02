package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ghostfolio/ghostfolio-sub000/renderer"
	"github.com/google/subcommands"
)

// xrayCmd holds the flags for the 'xray' subcommand.
type xrayCmd struct{}

func (*xrayCmd) Name() string     { return "xray" }
func (*xrayCmd) Synopsis() string { return "evaluate the risk rules against the portfolio" }
func (*xrayCmd) Usage() string {
	return `gf xray

  Evaluates the configured risk rules (currency concentration, platform
  concentration, fees) against the current portfolio and displays one
  verdict per rule. Rules are configured in the settings file.
`
}

func (c *xrayCmd) SetFlags(f *flag.FlagSet) {}

func (c *xrayCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	p, settings, err := loadPortfolio(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.ReportMarkdown(p.GetReport(settings)))
	return subcommands.ExitSuccess
}
