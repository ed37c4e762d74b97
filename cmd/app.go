// Package cmd implements the CLI application to compute futures and options P&L.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/pnl"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&positionsCmd{}, "reports")
	c.Register(&matchesCmd{}, "reports")
	c.Register(&splitCmd{}, "reports")
	c.Register(&bydateCmd{}, "reports")

	c.Register(&topicCmd{}, "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var exchangeTZ = flag.String("tz", "America/Chicago", "Exchange time zone used for settlement boundaries")
var currency = flag.String("currency", "USD", "Currency of the traded contracts")

// ExchangeLocation resolves the -tz flag into a time.Location.
func ExchangeLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(*exchangeTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", *exchangeTZ, err)
	}
	return loc, nil
}

// parseAsOf reads the -a flag value. It accepts RFC 3339, or a local
// "2006-01-02 15:04" interpreted in the exchange time zone.
func parseAsOf(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("missing -a: an explicit as-of instant is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of instant %q: use RFC 3339 or \"2006-01-02 15:04\"", s)
	}
	return t, nil
}

// parseMultipliers reads a "SYM=MULT,SYM=MULT" flag value.
func parseMultipliers(s string) (map[string]pnl.Quantity, error) {
	m := make(map[string]pnl.Quantity)
	if s == "" {
		return m, nil
	}
	for _, pair := range strings.Split(s, ",") {
		sym, val, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid multiplier %q: want SYMBOL=VALUE", pair)
		}
		q, err := pnl.ParseQuantity(val)
		if err != nil {
			return nil, fmt.Errorf("invalid multiplier for %q: %w", sym, err)
		}
		m[strings.TrimSpace(sym)] = q
	}
	return m, nil
}

// LoadBooks reads the trade file, optionally translating vendor symbols,
// and replays every trade into one book per symbol. Malformed trades are
// reported but do not abort the run.
func LoadBooks(tradesFile, symbolsFile, multipliers string) ([]*pnl.Book, []pnl.ItemError, error) {
	translator := pnl.Identity
	if symbolsFile != "" {
		var err error
		translator, err = DecodeTranslations(symbolsFile)
		if err != nil {
			return nil, nil, err
		}
	}

	mults, err := parseMultipliers(multipliers)
	if err != nil {
		return nil, nil, err
	}

	trades, errs, err := DecodeTrades(tradesFile, translator)
	if err != nil {
		return nil, nil, err
	}

	books := make(map[string]*pnl.Book)
	for _, t := range trades {
		b, ok := books[t.Symbol]
		if !ok {
			b = pnl.NewBook(t.Symbol, mults[t.Symbol], *currency)
			books[t.Symbol] = b
		}
		if _, err := b.Apply(t); err != nil {
			errs = append(errs, pnl.ItemError{Symbol: t.Symbol, ID: t.ID, Err: err})
		}
	}

	out := make([]*pnl.Book, 0, len(books))
	for _, b := range books {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol() < out[j].Symbol() })
	return out, errs, nil
}

// SplitBooks decomposes every lot of every book into settlement-bounded
// components. Open lots are marked with the symbol's current price and cut
// at asOf; a lot that cannot be split is reported and skipped.
func SplitBooks(books []*pnl.Book, prices, settlements *pnl.PriceTable, loc *time.Location, asOf time.Time) ([]pnl.Components, []pnl.ItemError) {
	var all []pnl.Components
	var errs []pnl.ItemError
	for _, b := range books {
		splitter := pnl.Splitter{
			Settlements: settlements.Settlements(b.Symbol()),
			Multiplier:  b.Multiplier(),
			Location:    loc,
			Currency:    b.Currency(),
		}
		current, marked := prices.Current(b.Symbol())
		for _, lot := range b.Lots() {
			if lot.Open() && !marked {
				errs = append(errs, pnl.ItemError{Symbol: b.Symbol(), ID: lot.ID,
					Err: fmt.Errorf("no current price to mark open lot")})
				continue
			}
			components, err := splitter.Split(pnl.Span(lot, current), asOf)
			if err != nil {
				errs = append(errs, pnl.ItemError{Symbol: b.Symbol(), ID: lot.ID, Err: err})
				continue
			}
			all = append(all, components)
		}
	}
	return all, errs
}

// printMarkdown renders markdown to the terminal.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		// Fall back to the raw markdown when the terminal renderer fails.
		fmt.Println(md)
		return
	}
	fmt.Print(out)
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}

// reportErrors prints per-item failures on stderr without failing the run.
func reportErrors(errs []pnl.ItemError) {
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}
}
