package pnl

import (
	"time"

	"github.com/etnz/pnl/period"
)

// PeriodType classifies a P&L component by the boundaries that delimit it.
type PeriodType int

const (
	// Intraday spans entry to exit without crossing any settlement.
	Intraday PeriodType = iota
	// EntryToSettle spans entry to the first settlement crossed.
	EntryToSettle
	// SettleToSettle spans two consecutive settlements: one full trading day.
	SettleToSettle
	// SettleToExit spans the last settlement crossed to exit.
	SettleToExit
)

func (p PeriodType) String() string {
	switch p {
	case Intraday:
		return "intraday"
	case EntryToSettle:
		return "entry_to_settle"
	case SettleToSettle:
		return "settle_to_settle"
	case SettleToExit:
		return "settle_to_exit"
	default:
		return "unknown"
	}
}

// Component is a dated slice of one lot's P&L, bounded by settlement
// instants (or by the lot's own entry and exit). Keys are settlement keys
// in YYYYMMDD_HHMM form; true settlements render 1400, an open lot's
// synthetic "now" end renders its actual time.
type Component struct {
	Period PeriodType

	Start time.Time
	End   time.Time

	StartPrice Price
	EndPrice   Price

	PnL Money

	StartKey string
	EndKey   string
}

// Components is the ordered decomposition of one lot's P&L. When Gaps is
// empty the components are contiguous, chronological and gap-free, and their
// sum recovers the lot's total P&L at the last component's price.
type Components struct {
	LotID  string
	Symbol string

	Parts []Component
	Gaps  []PriceGap // settlement days whose price was missing
}

// Total sums the component P&L amounts. With gaps present the sum is
// incomplete, not wrong-but-zero: check Complete before trusting it as the
// lot's total.
func (c Components) Total() Money {
	var total Money
	for _, p := range c.Parts {
		total = total.Add(p.PnL)
	}
	return total
}

// Complete reports whether every required settlement price was available.
func (c Components) Complete() bool { return len(c.Gaps) == 0 }

// LotSpan is the splitter's view of one lot: entry and exit (time, price)
// plus the signed quantity. A zero ExitTime means the lot is still open and
// ExitPrice is the current price.
type LotSpan struct {
	LotID  string
	Symbol string

	Quantity Quantity // signed

	EntryTime  time.Time
	EntryPrice Price

	ExitTime  time.Time // zero when the lot is open
	ExitPrice Price     // current price for an open lot
}

// Span adapts a Lot into the splitter's input. Open lots use the given
// current price as synthetic exit.
func Span(l Lot, current Price) LotSpan {
	span := LotSpan{
		LotID:      l.ID,
		Symbol:     l.Symbol,
		Quantity:   l.Signed,
		EntryTime:  l.EntryTime,
		EntryPrice: l.EntryPrice,
	}
	if l.Closed() {
		span.ExitTime = l.ExitTime
		span.ExitPrice = l.ExitPrice
	} else {
		span.Quantity = l.Remaining
		span.ExitPrice = current
	}
	return span
}

// Splitter decomposes a lot's total P&L into dated components bounded by
// settlement instants. It is a pure function of its inputs and never mutates
// the lots it reads.
type Splitter struct {
	Settlements SettlementPrices
	Multiplier  Quantity
	Location    *time.Location
	Currency    string
}

// Split decomposes one lot span. An open span (zero ExitTime) uses asOf as
// synthetic exit time. Missing settlement prices omit the touching
// components and record explicit gaps; they are never guessed or zeroed.
// An entry after exit is an InputError.
func (s Splitter) Split(span LotSpan, asOf time.Time) (Components, error) {
	exit := span.ExitTime
	if exit.IsZero() {
		exit = asOf
	}
	if span.EntryTime.After(exit) {
		return Components{}, inputErrorf("lot %q: entry %s after exit %s", span.LotID, span.EntryTime, exit)
	}

	loc := s.loc()
	mult := s.Multiplier
	if mult.IsZero() {
		mult = Q(1)
	}

	out := Components{LotID: span.LotID, Symbol: span.Symbol}

	instants := period.InstantsBetween(span.EntryTime, exit, loc)
	if len(instants) == 0 {
		out.Parts = append(out.Parts, s.component(Intraday, span, span.EntryTime, exit, span.EntryPrice, span.ExitPrice, mult))
		return out, nil
	}

	// price returns the settlement price at a boundary instant, recording a
	// gap when it is missing.
	price := func(t time.Time) (Price, bool) {
		day := period.DayOf(t, loc)
		p, ok := s.Settlements[day]
		if !ok {
			out.Gaps = append(out.Gaps, PriceGap{Symbol: span.Symbol, Day: day})
		}
		return p, ok
	}

	if p, ok := price(instants[0]); ok {
		out.Parts = append(out.Parts, s.component(EntryToSettle, span, span.EntryTime, instants[0], span.EntryPrice, p, mult))
	}
	for i := 0; i+1 < len(instants); i++ {
		from, okFrom := s.Settlements[period.DayOf(instants[i], loc)]
		to, ok := price(instants[i+1])
		if okFrom && ok {
			out.Parts = append(out.Parts, s.component(SettleToSettle, span, instants[i], instants[i+1], from, to, mult))
		}
	}
	last := instants[len(instants)-1]
	if last.Equal(exit) {
		// Closed exactly at settlement: the decomposition ends there, no
		// empty trailing component.
		return out, nil
	}
	if p, ok := s.Settlements[period.DayOf(last, loc)]; ok {
		out.Parts = append(out.Parts, s.component(SettleToExit, span, last, exit, p, span.ExitPrice, mult))
	}
	return out, nil
}

// component builds one dated P&L slice. Settlement boundaries render 1400
// keys; entry and exit boundaries render their actual time.
func (s Splitter) component(kind PeriodType, span LotSpan, start, end time.Time, from, to Price, mult Quantity) Component {
	loc := s.loc()
	c := Component{
		Period:     kind,
		Start:      start,
		End:        end,
		StartPrice: from,
		EndPrice:   to,
		PnL:        amount(span.Quantity, from, to, mult, s.Currency),
	}
	switch kind {
	case Intraday:
		c.StartKey = period.Key(start.In(loc))
		c.EndKey = period.Key(end.In(loc))
	case EntryToSettle:
		c.StartKey = period.Key(start.In(loc))
		c.EndKey = period.SettlementKey(period.DayOf(end, loc))
	case SettleToSettle:
		c.StartKey = period.SettlementKey(period.DayOf(start, loc))
		c.EndKey = period.SettlementKey(period.DayOf(end, loc))
	case SettleToExit:
		c.StartKey = period.SettlementKey(period.DayOf(start, loc))
		c.EndKey = period.Key(end.In(loc))
	}
	return c
}

func (s Splitter) loc() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// AggregateByPeriod sums component P&L across many lots, bucketed by period
// type. A "trading day" P&L is the settle_to_settle bucket of the day in
// question.
func AggregateByPeriod(all ...Components) map[PeriodType]Money {
	totals := make(map[PeriodType]Money)
	for _, c := range all {
		for _, p := range c.Parts {
			totals[p.Period] = totals[p.Period].Add(p.PnL)
		}
	}
	return totals
}

// AggregateByEndKey sums component P&L across many lots, bucketed by the
// component's end settlement key. This yields a dated P&L series joinable
// against settlement history.
func AggregateByEndKey(all ...Components) map[string]Money {
	totals := make(map[string]Money)
	for _, c := range all {
		for _, p := range c.Parts {
			totals[p.EndKey] = totals[p.EndKey].Add(p.PnL)
		}
	}
	return totals
}
