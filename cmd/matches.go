package cmd

import (
	"context"
	"flag"

	"github.com/etnz/pnl/renderer"
	"github.com/google/subcommands"
)

// matchesCmd holds the flags for the 'matches' subcommand.
type matchesCmd struct {
	trades      string
	symbols     string
	multipliers string
}

func (*matchesCmd) Name() string     { return "matches" }
func (*matchesCmd) Synopsis() string { return "display FIFO matches and realized P&L per symbol" }
func (*matchesCmd) Usage() string {
	return `fpnl matches -t <trades.csv> [-symbols <map.csv>] [-m SYM=MULT,...]

  Replays the trade file through FIFO matching and displays every pairing
  between a consuming trade and the lot it consumed, with the realized P&L
  of each match.
`
}

func (c *matchesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.trades, "t", "trades.csv", "Trade file (CSV)")
	f.StringVar(&c.symbols, "symbols", "", "Vendor symbol mapping file (CSV), optional")
	f.StringVar(&c.multipliers, "m", "", "Contract multipliers as SYM=MULT comma list (default 1)")
}

func (c *matchesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	books, errs, err := LoadBooks(c.trades, c.symbols, c.multipliers)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.MatchesMarkdown(books, errs))
	return subcommands.ExitSuccess
}
