package pnl

import "time"

// Lot is a position slice opened by the unmatched quantity of one trade.
// Signed is fixed at creation (positive long, negative short); Remaining
// carries the same sign and its magnitude only ever decreases. The exit
// fields are stamped exactly once, when Remaining reaches zero.
//
// Lots are owned by the Book of their symbol; consumers only ever see
// copies.
type Lot struct {
	ID     string
	Symbol string

	Signed    Quantity // quantity at creation, signed
	Remaining Quantity // same sign as Signed, magnitude non-increasing

	EntryPrice   Price
	EntryTime    time.Time
	EntryTradeID string

	ExitPrice   Price
	ExitTime    time.Time
	ExitTradeID string
}

// Open reports whether the lot still has remaining quantity.
func (l Lot) Open() bool { return !l.Remaining.IsZero() }

// Closed reports whether the lot has been fully consumed. Closing is solely
// Remaining == 0, never price or time based.
func (l Lot) Closed() bool { return l.Remaining.IsZero() }

// Match records one FIFO pairing between a consuming trade and a
// pre-existing lot. It is created once and never mutated.
type Match struct {
	LotID   string
	TradeID string

	Quantity Quantity // matched magnitude, > 0

	EntryPrice Price
	ExitPrice  Price
	EntryTime  time.Time
	ExitTime   time.Time

	Realized Money
}
