package period

import (
	"fmt"
	"time"
)

// Settlement cutover happens at 14:00 exchange-local civil time, every day.
const (
	SettlementHour   = 14
	SettlementMinute = 0
)

// KeyFormat is the layout of a settlement key: 13 ASCII characters,
// zero-padded, exchange-local civil time. A true settlement instant
// always renders "1400" for its time part.
const KeyFormat = "20060102_1504"

// SettlementInstant returns the settlement instant of the given civil day:
// 14:00 local time on that day, with that day's own DST offset.
func SettlementInstant(d Day, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), SettlementHour, SettlementMinute, 0, 0, loc)
}

// InstantsBetween returns every settlement instant t with start < t <= end,
// in chronological order. The interval is half-open on the left so a lot
// opened exactly at settlement does not double-count that boundary, and
// closed on the right so a lot closed exactly at settlement is split there.
func InstantsBetween(start, end time.Time, loc *time.Location) []time.Time {
	if !start.Before(end) {
		return nil
	}
	var instants []time.Time
	// Start scanning one day early: in a west-of-UTC location the civil day
	// of start can lag the instant itself.
	d := DayOf(start, loc).Add(-1)
	last := DayOf(end, loc).Add(1)
	for !d.After(last) {
		t := SettlementInstant(d, loc)
		if t.After(start) && !t.After(end) {
			instants = append(instants, t)
		}
		d = d.Add(1)
	}
	return instants
}

// PnLDay returns the trading day a timestamp belongs to: timestamps strictly
// before that civil day's settlement belong to that day's P&L period,
// timestamps at or after it belong to the next day's. This, not wall-clock
// midnight, defines the "trading day".
func PnLDay(t time.Time, loc *time.Location) Day {
	d := DayOf(t, loc)
	if t.Before(SettlementInstant(d, loc)) {
		return d
	}
	return d.Add(1)
}

// Boundaries returns the (start, end] instants of the P&L period for a
// trading day: end is that day's settlement, start is the previous calendar
// day's settlement. The one-calendar-day lookback is naive over weekends and
// holidays; the period preceding a Monday settlement starts on Sunday, not
// on Friday.
func Boundaries(d Day, loc *time.Location) (start, end time.Time) {
	return SettlementInstant(d.Add(-1), loc), SettlementInstant(d, loc)
}

// Key renders the settlement key of an arbitrary instant, in the location
// the instant carries.
func Key(t time.Time) string { return t.Format(KeyFormat) }

// SettlementKey renders the settlement key of the given day's settlement
// instant. It always ends in "1400".
func SettlementKey(d Day) string {
	return fmt.Sprintf("%04d%02d%02d_1400", d.Year(), d.Month(), d.Day())
}

// ParseKey parses a settlement key back into the instant it denotes,
// interpreted in the given location.
func ParseKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(KeyFormat, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid settlement key %q want format %q: %w", key, KeyFormat, err)
	}
	return t, nil
}
