package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/pnl"
)

// MatchesMarkdown renders the FIFO match log of one or more books, with the
// realized P&L total per symbol.
func MatchesMarkdown(books []*pnl.Book, errs []pnl.ItemError) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Realized P&L\n\n")
	for _, book := range books {
		matches := book.Matches()
		if len(matches) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n", book.Symbol())
		fmt.Fprintln(&b, "| Lot | Trade | Qty | Entry | Exit | Realized |")
		fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
		for _, m := range matches {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
				m.LotID, m.TradeID, m.Quantity, m.EntryPrice, m.ExitPrice, m.Realized.SignedString())
		}
		fmt.Fprintf(&b, "\nTotal realized: %s\n\n", book.Realized().SignedString())
	}

	appendErrors(&b, errs)
	return b.String()
}
