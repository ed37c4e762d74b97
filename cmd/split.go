package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// splitCmd holds the flags for the 'split' subcommand.
type splitCmd struct {
	trades      string
	prices      string
	settlements string
	vendor      string
	symbol      string
	symbols     string
	multipliers string
	asOf        string
	byPeriod    bool
}

func (*splitCmd) Name() string { return "split" }
func (*splitCmd) Synopsis() string {
	return "decompose each lot's P&L into settlement-bounded components"
}
func (*splitCmd) Usage() string {
	return `fpnl split -t <trades.csv> -s <settlements.csv> -p <prices.csv> -a <as-of> [-by-period]

  Decomposes the total P&L of every lot into dated components bounded by
  the daily settlement instants between entry and exit. Open lots use the
  as-of instant as synthetic exit and the current price as synthetic exit
  price. Missing settlement prices are reported as explicit gaps.

  Settlements come from a CSV file (-s), or from a vendor JSON payload for
  a single symbol (-vendor with -symbol).
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "t", "trades.csv", "Trade file (CSV)")
	f.StringVar(&c.prices, "p", "prices.csv", "Price file with current marks (CSV)")
	f.StringVar(&c.settlements, "s", "settlements.csv", "Daily settlement file (CSV)")
	f.StringVar(&c.vendor, "vendor", "", "Vendor JSON settlement payload, overrides -s")
	f.StringVar(&c.symbol, "symbol", "", "Symbol the vendor payload belongs to (with -vendor)")
	f.StringVar(&c.symbols, "symbols", "", "Vendor symbol mapping file (CSV), optional")
	f.StringVar(&c.multipliers, "m", "", "Contract multipliers as SYM=MULT comma list (default 1)")
	f.StringVar(&c.asOf, "a", "", "As-of instant (RFC 3339 or \"2006-01-02 15:04\" exchange-local)")
	f.BoolVar(&c.byPeriod, "by-period", false, "Also display totals grouped by component type")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	settlements, err := c.loadSettlements()
	if err != nil {
		return fail(err)
	}

	all, splitErrs := SplitBooks(books, prices, settlements, loc, asOf)
	errs = append(errs, splitErrs...)

	md := renderer.ComponentsMarkdown(all)
	if c.byPeriod {
		md += renderer.ByPeriodMarkdown(pnl.AggregateByPeriod(all...))
	}
	printMarkdown(md)
	reportErrors(errs)
	return subcommands.ExitSuccess
}

func (c *splitCmd) loadSettlements() (*pnl.PriceTable, error) {
	if c.vendor != "" {
		if c.symbol == "" {
			return nil, fmt.Errorf("-vendor requires -symbol")
		}
		return DecodeVendorSettlements(c.vendor, c.symbol)
	}
	return DecodeSettlements(c.settlements)
}
