package pnl

import "time"

// Translator maps a vendor-native symbol to its canonical form. The core
// never re-derives this mapping: untranslatable symbols are rejected before
// their trades reach a Book.
type Translator interface {
	// Translate returns the canonical symbol, or false when the native
	// symbol is unmappable.
	Translate(native string) (string, bool)
}

// TranslatorFunc adapts a function to the Translator interface.
type TranslatorFunc func(native string) (string, bool)

func (f TranslatorFunc) Translate(native string) (string, bool) { return f(native) }

// Identity is a Translator for feeds that already carry canonical symbols.
var Identity Translator = TranslatorFunc(func(native string) (string, bool) { return native, true })

// Attributor decomposes a position's daily P&L into named buckets (delta,
// gamma, theta, ...). It is purely additive enrichment: a failing or absent
// attributor never blocks the core numbers.
type Attributor interface {
	Attribute(pos Position, prices *PriceTable, asOf time.Time) (map[string]Money, error)
}
