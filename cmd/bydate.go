package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pnl"
	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// bydateCmd holds the flags for the 'bydate' subcommand.
type bydateCmd struct {
	trades      string
	prices      string
	settlements string
	symbols     string
	multipliers string
	asOf        string
}

func (*bydateCmd) Name() string     { return "bydate" }
func (*bydateCmd) Synopsis() string { return "display P&L totals grouped by period end" }
func (*bydateCmd) Usage() string {
	return `fpnl bydate -t <trades.csv> -s <settlements.csv> -p <prices.csv> -a <as-of>

  Splits every lot into settlement-bounded components and displays the
  totals grouped by period end key, answering "how much P&L landed on each
  trading day".
`
}

func (c *bydateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "t", "trades.csv", "Trade file (CSV)")
	f.StringVar(&c.prices, "p", "prices.csv", "Price file with current marks (CSV)")
	f.StringVar(&c.settlements, "s", "settlements.csv", "Daily settlement file (CSV)")
	f.StringVar(&c.symbols, "symbols", "", "Vendor symbol mapping file (CSV), optional")
	f.StringVar(&c.multipliers, "m", "", "Contract multipliers as SYM=MULT comma list (default 1)")
	f.StringVar(&c.asOf, "a", "", "As-of instant (RFC 3339 or \"2006-01-02 15:04\" exchange-local)")
}

func (c *bydateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	settlements, err := DecodeSettlements(c.settlements)
	if err != nil {
		return fail(err)
	}

	all, splitErrs := SplitBooks(books, prices, settlements, loc, asOf)
	errs = append(errs, splitErrs...)

	printMarkdown(renderer.ByKeyMarkdown(pnl.AggregateByEndKey(all...)))
	reportErrors(errs)
	return subcommands.ExitSuccess
}
