// Package renderer builds markdown reports from pnl results. The caller
// decides how to display the markdown (terminal, file, ...).
package renderer

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/etnz/pnl"
)

// PositionsMarkdown renders the per-symbol position rows to a markdown table.
func PositionsMarkdown(positions []pnl.Position, errs []pnl.ItemError, asOf time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Positions as of %s\n\n", asOf.Format("2006-01-02 15:04 MST"))

	if len(positions) == 0 {
		fmt.Fprintln(&b, "No open positions.")
	} else {
		fmt.Fprintln(&b, "| Symbol | Net | Avg Entry | Unrealized | Daily |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
		for _, pos := range positions {
			daily := pos.Daily.SignedString()
			if pos.DailyGap != "" {
				daily = "n/a (" + pos.DailyGap + ")"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				pos.Symbol,
				pos.Net,
				pos.AvgEntry,
				pos.Unrealized.SignedString(),
				daily,
			)
		}
	}

	for _, pos := range positions {
		if len(pos.Attribution) > 0 {
			fmt.Fprintf(&b, "\n## %s attribution\n\n", pos.Symbol)
			buckets := make([]string, 0, len(pos.Attribution))
			for bucket := range pos.Attribution {
				buckets = append(buckets, bucket)
			}
			sort.Strings(buckets)
			for _, bucket := range buckets {
				fmt.Fprintf(&b, "- %s: %s\n", bucket, pos.Attribution[bucket].SignedString())
			}
		}
		if pos.AttributionErr != "" {
			fmt.Fprintf(&b, "\n> %s attribution unavailable: %s\n", pos.Symbol, pos.AttributionErr)
		}
	}

	appendErrors(&b, errs)
	return b.String()
}

// appendErrors renders per-item failures so the reader can reconcile them
// manually.
func appendErrors(b *strings.Builder, errs []pnl.ItemError) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## Skipped items\n\n")
	for _, e := range errs {
		fmt.Fprintf(b, "- %s\n", e.Error())
	}
}
