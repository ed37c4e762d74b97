package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct {
	trades      string
	prices      string
	symbols     string
	multipliers string
	asOf        string
}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "display net positions with unrealized and daily P&L" }
func (*positionsCmd) Usage() string {
	return `fpnl positions -t <trades.csv> -p <prices.csv> -a <as-of> [-symbols <map.csv>] [-m SYM=MULT,...]

  Replays the trade file through FIFO matching and displays one row per
  symbol still holding open lots: net quantity, average entry, unrealized
  and daily P&L. A missing prior close shows as an explicit gap, never as
  a zero.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "t", "trades.csv", "Trade file (CSV)")
	f.StringVar(&c.prices, "p", "prices.csv", "Price file with current and prior close (CSV)")
	f.StringVar(&c.symbols, "symbols", "", "Vendor symbol mapping file (CSV), optional")
	f.StringVar(&c.multipliers, "m", "", "Contract multipliers as SYM=MULT comma list (default 1)")
	f.StringVar(&c.asOf, "a", "", "As-of instant (RFC 3339 or \"2006-01-02 15:04\" exchange-local)")
}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	loc, err := ExchangeLocation()
	if err != nil {
		return fail(err)
	}
	asOf, err := parseAsOf(c.asOf, loc)
	if err != nil {
		return fail(err)
	}

	books, errs, err := LoadBooks(c.trades, c.symbols, c.multipliers)
	if err != nil {
		return fail(err)
	}
	prices, err := DecodePrices(c.prices)
	if err != nil {
		return fail(err)
	}

	agg := pnl.Aggregator{Prices: prices, Location: loc}
	positions, aggErrs := agg.Aggregate(asOf, books...)
	errs = append(errs, aggErrs...)

	printMarkdown(renderer.PositionsMarkdown(positions, errs, asOf))
	return subcommands.ExitSuccess
}
