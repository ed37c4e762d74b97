package pnl

import (
	"sort"
	"time"

	"github.com/etnz/pnl/period"
)

// Position is one derived net-position row per symbol. It is recomputed on
// every run and never stored.
type Position struct {
	Symbol string
	Kind   Kind

	Net      Quantity // signed sum of remaining lot quantities
	AvgEntry Price    // magnitude-weighted average entry price

	Unrealized Money // against the current price
	Daily      Money // against the blended close reference
	Total      Money // total unrealized; realized is tracked per trade, not re-aggregated here

	// DailyGap is set when the daily reference close could not be built
	// (missing prior close). Daily is then meaningless, not zero.
	DailyGap string

	// Attribution optionally decomposes Daily into Greek buckets. A failed
	// attribution leaves the core numbers intact and records the reason.
	Attribution    map[string]Money
	AttributionErr string
}

// Aggregator turns open lots into per-symbol position rows. It is a pure
// function of its inputs: asOf is always explicit, never a wall-clock read.
type Aggregator struct {
	Prices     *PriceTable
	Location   *time.Location
	Attributor Attributor // optional
}

// Aggregate produces one row per non-flat symbol, sorted by symbol. Per-item
// failures (missing current price) are reported and do not abort the batch.
func (a Aggregator) Aggregate(asOf time.Time, books ...*Book) ([]Position, []ItemError) {
	var positions []Position
	var errs []ItemError

	today := period.DayOf(asOf, a.loc())

	for _, b := range books {
		open := b.OpenLots()
		net := b.NetQuantity()
		if net.IsZero() {
			continue
		}

		current, ok := a.Prices.Current(b.Symbol())
		if !ok {
			errs = append(errs, ItemError{Symbol: b.Symbol(), Err: PriceGap{Symbol: b.Symbol(), Day: today}})
			continue
		}

		pos := Position{
			Symbol:   b.Symbol(),
			Kind:     b.Kind(),
			Net:      net,
			AvgEntry: avgEntry(open),
		}
		pos.Unrealized = amount(net, pos.AvgEntry, current, b.Multiplier(), b.Currency())
		pos.Total = pos.Unrealized

		if blended, gap := a.blendedClose(b.Symbol(), open, today); gap != "" {
			pos.DailyGap = gap
			pos.Daily = M(0, b.Currency())
		} else {
			pos.Daily = amount(net, blended, current, b.Multiplier(), b.Currency())
		}

		if a.Attributor != nil && pos.Kind.IsOption() {
			attribution, err := a.Attributor.Attribute(pos, a.Prices, asOf)
			if err != nil {
				pos.AttributionErr = err.Error()
			} else {
				pos.Attribution = attribution
			}
		}

		positions = append(positions, pos)
	}

	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })
	return positions, errs
}

func (a Aggregator) loc() *time.Location {
	if a.Location == nil {
		return time.UTC
	}
	return a.Location
}

// avgEntry is the magnitude-weighted average entry price of the open lots.
func avgEntry(open []Lot) Price {
	weighted := Q(0)
	total := Q(0)
	for _, l := range open {
		w := l.Remaining.Abs()
		weighted = weighted.Add(Q(l.EntryPrice.Mul(w)))
		total = total.Add(w)
	}
	if total.IsZero() {
		return P(0)
	}
	return P(weighted.Div(total).value)
}

// blendedClose builds the daily P&L reference price. Lots opened today value
// against their own entry price; lots opened before today value against the
// prior close; when both groups are present the references blend by absolute
// quantity. A missing prior close with prior lots present is a gap, not a
// zero.
func (a Aggregator) blendedClose(symbol string, open []Lot, today period.Day) (Price, string) {
	todayWeighted := Q(0)
	todayQty := Q(0)
	priorQty := Q(0)

	for _, l := range open {
		w := l.Remaining.Abs()
		if period.DayOf(l.EntryTime, a.loc()) == today {
			todayWeighted = todayWeighted.Add(Q(l.EntryPrice.Mul(w)))
			todayQty = todayQty.Add(w)
		} else {
			priorQty = priorQty.Add(w)
		}
	}

	if priorQty.IsZero() {
		if todayQty.IsZero() {
			return P(0), "no open lots"
		}
		return P(todayWeighted.Div(todayQty).value), ""
	}

	priorClose, ok := a.Prices.PriorClose(symbol)
	if !ok {
		return P(0), "missing prior close"
	}
	if todayQty.IsZero() {
		return priorClose, ""
	}

	blended := todayWeighted.Add(Q(priorClose.Mul(priorQty))).Div(todayQty.Add(priorQty))
	return P(blended.value), ""
}
