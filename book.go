package pnl

import "fmt"

// Book is the per-symbol arena of lots and their match history. Lots live in
// an indexed, append-only list; "mutation" is replacing the stored lot at its
// index, and only ever happens inside Apply. One book must be fed its trades
// as a strict sequence; distinct books are fully independent and safe to
// drive from different goroutines.
type Book struct {
	symbol     string
	multiplier Quantity
	currency   string
	kind       Kind // from the trades applied; one book trades one contract

	lots    []Lot // arena, append-only, entry-time order
	matches []Match

	realized Money
	seq      int // lot id sequence
}

// NewBook creates an empty book for one symbol. A zero multiplier defaults
// to 1. The currency is a formatting tag for P&L amounts and may be empty.
func NewBook(symbol string, multiplier Quantity, currency string) *Book {
	if multiplier.IsZero() {
		multiplier = Q(1)
	}
	return &Book{
		symbol:     symbol,
		multiplier: multiplier,
		currency:   currency,
		realized:   M(0, currency),
	}
}

func (b *Book) Symbol() string       { return b.symbol }
func (b *Book) Multiplier() Quantity { return b.multiplier }
func (b *Book) Currency() string     { return b.currency }
func (b *Book) Kind() Kind           { return b.kind }

// Realized returns the realized P&L accumulated over all matches so far.
func (b *Book) Realized() Money { return b.realized }

// NetQuantity returns the signed sum of all remaining lot quantities.
func (b *Book) NetQuantity() Quantity {
	net := Q(0)
	for i := range b.lots {
		net = net.Add(b.lots[i].Remaining)
	}
	return net
}

// OpenLots returns copies of the lots with remaining quantity, oldest entry
// first.
func (b *Book) OpenLots() []Lot {
	var open []Lot
	for i := range b.lots {
		if b.lots[i].Open() {
			open = append(open, b.lots[i])
		}
	}
	return open
}

// Lots returns copies of every lot ever opened in this book, entry order.
func (b *Book) Lots() []Lot {
	lots := make([]Lot, len(b.lots))
	copy(lots, b.lots)
	return lots
}

// Matches returns copies of every match recorded in this book, in the order
// they were made.
func (b *Book) Matches() []Match {
	matches := make([]Match, len(b.matches))
	copy(matches, b.matches)
	return matches
}

// TradeResult is the outcome of applying one trade to a book.
type TradeResult struct {
	TradeID  string
	Realized Money   // summed over this trade's matches
	Matches  []Match // one per lot the trade consumed
	Opened   *Lot    // lot opened by the unmatched residual, if any
}

// Apply matches one trade against the book using strict FIFO ordering: open
// lots of the opposite sign are consumed oldest entry first, regardless of
// long or short. Any residual quantity opens a new lot. Malformed trades
// return an InputError and leave the book untouched.
//
// Trades must arrive in ascending time order (ties in input order); Apply
// does not reorder.
func (b *Book) Apply(t Trade) (TradeResult, error) {
	if err := t.Validate(); err != nil {
		return TradeResult{}, err
	}
	if t.Symbol != b.symbol {
		return TradeResult{}, inputErrorf("trade %q: symbol %q does not belong to book %q", t.ID, t.Symbol, b.symbol)
	}

	b.kind = t.Kind

	res := TradeResult{TradeID: t.ID, Realized: M(0, b.currency)}
	tradeSign := t.Side.sign()
	remaining := t.Quantity // positive magnitude still to place

	for i := range b.lots {
		if remaining.IsZero() {
			break
		}
		lot := &b.lots[i]
		if lot.Closed() || lot.Remaining.Sign() == tradeSign {
			continue
		}

		matched := remaining.Min(lot.Remaining.Abs())
		lotSign := Q(lot.Remaining.Sign())

		// Realized P&L oriented by the lot's own sign: closing a long at a
		// higher price gains, covering a short at a higher price loses.
		realized := amount(matched.Mul(lotSign), lot.EntryPrice, t.Price, b.multiplier, b.currency)

		lot.Remaining = lot.Remaining.Sub(matched.Mul(lotSign))
		if lot.Remaining.Sign() == tradeSign && !lot.Remaining.IsZero() {
			panic(fmt.Sprintf("pnl: lot %s crossed through zero on trade %s", lot.ID, t.ID))
		}
		if lot.Closed() {
			lot.ExitPrice = t.Price
			lot.ExitTime = t.Time
			lot.ExitTradeID = t.ID
		}

		m := Match{
			LotID:      lot.ID,
			TradeID:    t.ID,
			Quantity:   matched,
			EntryPrice: lot.EntryPrice,
			ExitPrice:  t.Price,
			EntryTime:  lot.EntryTime,
			ExitTime:   t.Time,
			Realized:   realized,
		}
		b.matches = append(b.matches, m)
		res.Matches = append(res.Matches, m)
		res.Realized = res.Realized.Add(realized)
		remaining = remaining.Sub(matched)
	}

	b.realized = b.realized.Add(res.Realized)

	if remaining.IsNegative() {
		panic(fmt.Sprintf("pnl: trade %s over-matched by %s", t.ID, remaining.Neg()))
	}
	if !remaining.IsZero() {
		// Never create a zero-quantity lot: this branch only runs with a
		// strictly positive residual.
		b.seq++
		lot := Lot{
			ID:           fmt.Sprintf("%s-%d", b.symbol, b.seq),
			Symbol:       b.symbol,
			Signed:       remaining.Mul(Q(tradeSign)),
			Remaining:    remaining.Mul(Q(tradeSign)),
			EntryPrice:   t.Price,
			EntryTime:    t.Time,
			EntryTradeID: t.ID,
		}
		b.lots = append(b.lots, lot)
		opened := lot
		res.Opened = &opened
	}
	return res, nil
}

// ApplyAll applies a time-ordered batch of trades. A malformed trade is
// reported and skipped; the rest of the batch continues.
func (b *Book) ApplyAll(trades []Trade) ([]TradeResult, []ItemError) {
	var results []TradeResult
	var errs []ItemError
	for _, t := range trades {
		res, err := b.Apply(t)
		if err != nil {
			errs = append(errs, ItemError{Symbol: b.symbol, ID: t.ID, Err: err})
			continue
		}
		results = append(results, res)
	}
	return results, errs
}

// amount computes quantity * (end - start) * multiplier as a Money amount.
// The quantity is signed, so the formula is symmetric for long and short.
func amount(quantity Quantity, start, end Price, multiplier Quantity, currency string) Money {
	return M(end.Sub(start).Mul(quantity.Mul(multiplier)), currency)
}
