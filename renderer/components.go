package renderer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/etnz/pnl"
)

// ComponentsMarkdown renders the dated P&L decomposition of each lot.
func ComponentsMarkdown(all []pnl.Components) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Settlement P&L components\n\n")
	for _, c := range all {
		fmt.Fprintf(&b, "## %s %s\n\n", c.Symbol, c.LotID)
		if len(c.Parts) > 0 {
			fmt.Fprintln(&b, "| Period | From | To | Start | End | P&L |")
			fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|")
			for _, p := range c.Parts {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
					p.Period, p.StartKey, p.EndKey, p.StartPrice, p.EndPrice, p.PnL.SignedString())
			}
		}
		for _, gap := range c.Gaps {
			fmt.Fprintf(&b, "\n> missing settlement price: %v\n", gap)
		}
		if c.Complete() {
			fmt.Fprintf(&b, "\nTotal: %s\n\n", c.Total().SignedString())
		} else {
			fmt.Fprintf(&b, "\nTotal: %s (incomplete: %d missing settlement prices)\n\n",
				c.Total().SignedString(), len(c.Gaps))
		}
	}
	return b.String()
}

// ByPeriodMarkdown renders P&L totals bucketed by period type across lots.
func ByPeriodMarkdown(totals map[pnl.PeriodType]pnl.Money) string {
	var b strings.Builder

	fmt.Fprint(&b, "# P&L by period type\n\n")
	fmt.Fprintln(&b, "| Period | P&L |")
	fmt.Fprintln(&b, "|:---|---:|")
	for _, period := range []pnl.PeriodType{pnl.Intraday, pnl.EntryToSettle, pnl.SettleToSettle, pnl.SettleToExit} {
		total, ok := totals[period]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", period, total.SignedString())
	}
	return b.String()
}

// ByKeyMarkdown renders the dated P&L series, one row per settlement key.
func ByKeyMarkdown(totals map[string]pnl.Money) string {
	var b strings.Builder

	fmt.Fprint(&b, "# P&L by settlement\n\n")
	fmt.Fprintln(&b, "| Settlement | P&L |")
	fmt.Fprintln(&b, "|:---|---:|")
	keys := make([]string, 0, len(totals))
	for key := range totals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(&b, "| %s | %s |\n", key, totals[key].SignedString())
	}
	return b.String()
}
