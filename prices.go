package pnl

import "github.com/etnz/pnl/period"

// PriceKey identifies a historical price by symbol and civil day. A typed
// key, not a concatenated string, so there is no format to get wrong.
type PriceKey struct {
	Symbol string
	Day    period.Day
}

// PriceSource resolves a symbol's price on a given day. Absence is a gap,
// never a zero.
type PriceSource interface {
	PriceFor(symbol string, day period.Day) (Price, bool)
}

// SettlementPrices maps settlement days to that day's settlement price for
// one symbol.
type SettlementPrices map[period.Day]Price

// PriceTable holds the price inputs of one calculation run: live prices,
// prior closes, and the dated settlement history. The caller resolves all
// lookups into the table up front; nothing is fetched mid-calculation.
type PriceTable struct {
	current    map[string]Price
	priorClose map[string]Price
	byDay      map[PriceKey]Price
}

func NewPriceTable() *PriceTable {
	return &PriceTable{
		current:    make(map[string]Price),
		priorClose: make(map[string]Price),
		byDay:      make(map[PriceKey]Price),
	}
}

// SetCurrent records the live price of a symbol.
func (t *PriceTable) SetCurrent(symbol string, p Price) { t.current[symbol] = p }

// Current returns the live price of a symbol.
func (t *PriceTable) Current(symbol string) (Price, bool) {
	p, ok := t.current[symbol]
	return p, ok
}

// SetPriorClose records the prior close price of a symbol.
func (t *PriceTable) SetPriorClose(symbol string, p Price) { t.priorClose[symbol] = p }

// PriorClose returns the prior close price of a symbol.
func (t *PriceTable) PriorClose(symbol string) (Price, bool) {
	p, ok := t.priorClose[symbol]
	return p, ok
}

// Set records a dated price, typically a daily settlement.
func (t *PriceTable) Set(symbol string, day period.Day, p Price) {
	t.byDay[PriceKey{Symbol: symbol, Day: day}] = p
}

// PriceFor returns the dated price of a symbol. PriceTable is a PriceSource.
func (t *PriceTable) PriceFor(symbol string, day period.Day) (Price, bool) {
	p, ok := t.byDay[PriceKey{Symbol: symbol, Day: day}]
	return p, ok
}

// Settlements extracts the per-day settlement prices of one symbol.
func (t *PriceTable) Settlements(symbol string) SettlementPrices {
	prices := make(SettlementPrices)
	for k, p := range t.byDay {
		if k.Symbol == symbol {
			prices[k.Day] = p
		}
	}
	return prices
}

var _ PriceSource = (*PriceTable)(nil)
