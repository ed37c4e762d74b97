package pnl

import (
	"testing"
	"time"
)

var chicago = mustLoad("America/Chicago")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// at builds a timestamp on a fixed test day in exchange-local time.
func at(t *testing.T, day string, hour, min int) time.Time {
	t.Helper()
	d, err := time.ParseInLocation("2006-01-02", day, chicago)
	if err != nil {
		t.Fatalf("bad test day %q: %v", day, err)
	}
	return d.Add(time.Duration(hour)*time.Hour + time.Duration(min)*time.Minute)
}

func trade(t *testing.T, id string, when time.Time, side Side, qty, price float64) Trade {
	t.Helper()
	return Trade{
		ID:       id,
		Symbol:   "ZN",
		Time:     when,
		Side:     side,
		Quantity: Q(qty),
		Price:    P(price),
		Kind:     Future,
	}
}

func TestBook_RoundTrip(t *testing.T) {
	// BUY 10 @ 100.00 at 09:00, SELL 10 @ 101.50 at 11:00, same day.
	b := NewBook("ZN", Q(1), "USD")

	if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 10, 100)); err != nil {
		t.Fatalf("Apply(t1) failed: %v", err)
	}
	res, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 11, 0), Sell, 10, 101.5))
	if err != nil {
		t.Fatalf("Apply(t2) failed: %v", err)
	}

	if got, want := len(res.Matches), 1; got != want {
		t.Fatalf("len(Matches) = %d, want %d", got, want)
	}
	if got, want := res.Realized, M(15, "USD"); !got.Equal(want) {
		t.Errorf("Realized = %s, want %s", got, want)
	}
	if res.Opened != nil {
		t.Errorf("Opened = %v, want nil", res.Opened)
	}
	if open := b.OpenLots(); len(open) != 0 {
		t.Errorf("OpenLots() = %v, want none", open)
	}
	if !b.NetQuantity().IsZero() {
		t.Errorf("NetQuantity() = %s, want 0", b.NetQuantity())
	}
}

func TestBook_PartialCoverShort(t *testing.T) {
	// SELL 5 (open short) @ 50.00, BUY 3 @ 49.00 covers partially.
	b := NewBook("ZN", Q(1), "USD")

	if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), Sell, 5, 50)); err != nil {
		t.Fatalf("Apply(t1) failed: %v", err)
	}
	res, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 10, 0), Buy, 3, 49))
	if err != nil {
		t.Fatalf("Apply(t2) failed: %v", err)
	}

	if got, want := len(res.Matches), 1; got != want {
		t.Fatalf("len(Matches) = %d, want %d", got, want)
	}
	if got, want := res.Matches[0].Quantity, Q(3); !got.Equal(want) {
		t.Errorf("matched quantity = %s, want %s", got, want)
	}
	if got, want := res.Realized, M(3, "USD"); !got.Equal(want) {
		t.Errorf("Realized = %s, want %s", got, want)
	}

	open := b.OpenLots()
	if len(open) != 1 {
		t.Fatalf("len(OpenLots) = %d, want 1", len(open))
	}
	if got, want := open[0].Remaining, Q(-2); !got.Equal(want) {
		t.Errorf("Remaining = %s, want %s", got, want)
	}
}

func TestBook_FIFOOrder(t *testing.T) {
	// Three long lots opened at t1 < t2 < t3; a sell must exhaust them in
	// entry order.
	b := NewBook("ZN", Q(1), "USD")

	for i, hour := range []int{9, 10, 11} {
		tr := trade(t, []string{"t1", "t2", "t3"}[i], at(t, "2025-03-03", hour, 0), Buy, 10, 100)
		if _, err := b.Apply(tr); err != nil {
			t.Fatalf("Apply failed: %v", err)
		}
	}

	res, err := b.Apply(trade(t, "t4", at(t, "2025-03-03", 12, 0), Sell, 25, 101))
	if err != nil {
		t.Fatalf("Apply(t4) failed: %v", err)
	}
	if got, want := len(res.Matches), 3; got != want {
		t.Fatalf("len(Matches) = %d, want %d", got, want)
	}
	wantLots := []string{"ZN-1", "ZN-2", "ZN-3"}
	wantQty := []Quantity{Q(10), Q(10), Q(5)}
	for i, m := range res.Matches {
		if m.LotID != wantLots[i] {
			t.Errorf("match %d lot = %s, want %s", i, m.LotID, wantLots[i])
		}
		if !m.Quantity.Equal(wantQty[i]) {
			t.Errorf("match %d quantity = %s, want %s", i, m.Quantity, wantQty[i])
		}
	}

	open := b.OpenLots()
	if len(open) != 1 || open[0].ID != "ZN-3" {
		t.Fatalf("OpenLots() = %v, want only ZN-3", open)
	}
	if got, want := open[0].Remaining, Q(5); !got.Equal(want) {
		t.Errorf("ZN-3 remaining = %s, want %s", got, want)
	}
}

func TestBook_Symmetry(t *testing.T) {
	testCases := []struct {
		name         string
		first, then  Side
		p1, p2       float64
		wantRealized Money
	}{
		{"long round trip", Buy, Sell, 100, 102.5, M(25, "USD")},
		{"short round trip", Sell, Buy, 100, 102.5, M(-25, "USD")},
		{"short round trip gain", Sell, Buy, 102.5, 100, M(25, "USD")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := NewBook("ZN", Q(1), "USD")
			if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), tc.first, 10, tc.p1)); err != nil {
				t.Fatalf("Apply(t1) failed: %v", err)
			}
			res, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 10, 0), tc.then, 10, tc.p2))
			if err != nil {
				t.Fatalf("Apply(t2) failed: %v", err)
			}
			if !res.Realized.Equal(tc.wantRealized) {
				t.Errorf("Realized = %s, want %s", res.Realized, tc.wantRealized)
			}
		})
	}
}

func TestBook_Multiplier(t *testing.T) {
	b := NewBook("ZN", Q(1000), "USD")
	if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 2, 110.5)); err != nil {
		t.Fatalf("Apply(t1) failed: %v", err)
	}
	res, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 10, 0), Sell, 2, 110.53125))
	if err != nil {
		t.Fatalf("Apply(t2) failed: %v", err)
	}
	// 2 * (110.53125 - 110.5) * 1000 = 62.5
	if got, want := res.Realized, M(62.5, "USD"); !got.Equal(want) {
		t.Errorf("Realized = %s, want %s", got, want)
	}
}

func TestBook_Conservation(t *testing.T) {
	// For every lot: matched quantity across its matches plus final
	// remaining equals the lot's original magnitude.
	b := NewBook("ZN", Q(1), "USD")
	trades := []Trade{
		trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 10, 100),
		trade(t, "t2", at(t, "2025-03-03", 9, 30), Sell, 4, 101),
		trade(t, "t3", at(t, "2025-03-03", 10, 0), Buy, 7, 99),
		trade(t, "t4", at(t, "2025-03-03", 10, 30), Sell, 9, 102),
		trade(t, "t5", at(t, "2025-03-03", 11, 0), Sell, 12, 103),
		trade(t, "t6", at(t, "2025-03-03", 11, 30), Buy, 5, 101),
	}
	if _, errs := b.ApplyAll(trades); len(errs) != 0 {
		t.Fatalf("ApplyAll() reported errors: %v", errs)
	}

	matchedBy := make(map[string]Quantity)
	for _, m := range b.Matches() {
		matchedBy[m.LotID] = matchedBy[m.LotID].Add(m.Quantity)
	}
	for _, l := range b.Lots() {
		total := matchedBy[l.ID].Add(l.Remaining.Abs())
		if !total.Equal(l.Signed.Abs()) {
			t.Errorf("lot %s: matched %s + remaining %s != original %s",
				l.ID, matchedBy[l.ID], l.Remaining.Abs(), l.Signed.Abs())
		}
	}
}

func TestBook_FlipThroughZero(t *testing.T) {
	// A trade larger than the open interest closes the book side and opens a
	// new lot on the other side.
	b := NewBook("ZN", Q(1), "USD")
	if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 5, 100)); err != nil {
		t.Fatalf("Apply(t1) failed: %v", err)
	}
	res, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 10, 0), Sell, 8, 101))
	if err != nil {
		t.Fatalf("Apply(t2) failed: %v", err)
	}
	if got, want := res.Realized, M(5, "USD"); !got.Equal(want) {
		t.Errorf("Realized = %s, want %s", got, want)
	}
	if res.Opened == nil {
		t.Fatal("Opened = nil, want a new short lot")
	}
	if got, want := res.Opened.Signed, Q(-3); !got.Equal(want) {
		t.Errorf("Opened.Signed = %s, want %s", got, want)
	}
	if got, want := b.NetQuantity(), Q(-3); !got.Equal(want) {
		t.Errorf("NetQuantity() = %s, want %s", got, want)
	}
}

func TestBook_ExitStampedOnce(t *testing.T) {
	b := NewBook("ZN", Q(1), "USD")
	if _, err := b.Apply(trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 10, 100)); err != nil {
		t.Fatalf("Apply(t1) failed: %v", err)
	}
	if _, err := b.Apply(trade(t, "t2", at(t, "2025-03-03", 10, 0), Sell, 4, 101)); err != nil {
		t.Fatalf("Apply(t2) failed: %v", err)
	}

	lots := b.Lots()
	if lots[0].Closed() || !lots[0].ExitTime.IsZero() {
		t.Fatalf("partially consumed lot must not carry exit fields: %+v", lots[0])
	}

	if _, err := b.Apply(trade(t, "t3", at(t, "2025-03-03", 11, 0), Sell, 6, 102)); err != nil {
		t.Fatalf("Apply(t3) failed: %v", err)
	}
	lots = b.Lots()
	if !lots[0].Closed() {
		t.Fatal("lot should be closed after full consumption")
	}
	if got, want := lots[0].ExitTradeID, "t3"; got != want {
		t.Errorf("ExitTradeID = %q, want %q", got, want)
	}
	if got, want := lots[0].ExitPrice, P(102); !got.Equal(want) {
		t.Errorf("ExitPrice = %s, want %s", got, want)
	}
}

func TestBook_MalformedTrades(t *testing.T) {
	b := NewBook("ZN", Q(1), "USD")

	trades := []Trade{
		{ID: "bad1", Symbol: "ZN", Time: at(t, "2025-03-03", 9, 0), Side: Buy, Quantity: Q(0), Price: P(100)},
		{ID: "bad2", Symbol: "ZN", Time: at(t, "2025-03-03", 9, 1), Side: 0, Quantity: Q(1), Price: P(100)},
		trade(t, "good", at(t, "2025-03-03", 9, 2), Buy, 5, 100),
		{ID: "bad3", Symbol: "ES", Time: at(t, "2025-03-03", 9, 3), Side: Buy, Quantity: Q(1), Price: P(100)},
	}

	results, errs := b.ApplyAll(trades)
	if got, want := len(results), 1; got != want {
		t.Fatalf("len(results) = %d, want %d", got, want)
	}
	if got, want := len(errs), 3; got != want {
		t.Fatalf("len(errs) = %d, want %d", got, want)
	}
	for _, e := range errs {
		if !IsInputError(e.Err) {
			t.Errorf("error %v is not an InputError", e)
		}
	}
	// The malformed trades must not have touched the book.
	if got, want := b.NetQuantity(), Q(5); !got.Equal(want) {
		t.Errorf("NetQuantity() = %s, want %s", got, want)
	}
}

func TestBook_Determinism(t *testing.T) {
	trades := []Trade{
		trade(t, "t1", at(t, "2025-03-03", 9, 0), Buy, 10, 100),
		trade(t, "t2", at(t, "2025-03-03", 9, 30), Sell, 4, 101.25),
		trade(t, "t3", at(t, "2025-03-03", 10, 0), Sell, 9, 99.75),
		trade(t, "t4", at(t, "2025-03-03", 10, 30), Buy, 3, 100.5),
	}

	run := func() ([]Lot, []Match, Money) {
		b := NewBook("ZN", Q(1), "USD")
		if _, errs := b.ApplyAll(trades); len(errs) != 0 {
			t.Fatalf("ApplyAll() reported errors: %v", errs)
		}
		return b.Lots(), b.Matches(), b.Realized()
	}

	lots1, matches1, realized1 := run()
	lots2, matches2, realized2 := run()

	if !realized1.Equal(realized2) {
		t.Errorf("realized differs across runs: %s vs %s", realized1, realized2)
	}
	if len(lots1) != len(lots2) || len(matches1) != len(matches2) {
		t.Fatalf("shape differs across runs")
	}
	for i := range lots1 {
		if lots1[i].ID != lots2[i].ID || !lots1[i].Remaining.Equal(lots2[i].Remaining) {
			t.Errorf("lot %d differs across runs: %+v vs %+v", i, lots1[i], lots2[i])
		}
	}
	for i := range matches1 {
		if matches1[i].LotID != matches2[i].LotID || !matches1[i].Realized.Equal(matches2[i].Realized) {
			t.Errorf("match %d differs across runs", i)
		}
	}
}
