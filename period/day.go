// Package period computes settlement instants and classifies timestamps
// into trading-day P&L periods. The trading day is bounded by the daily
// settlement time (14:00 exchange-local civil time), not by midnight.
package period

import (
	"encoding/json"
	"fmt"
	"time"
)

const readDayFormat = "2006-1-2" // Permissive read format (allows single-digit month/day).

// DayFormat is the format used to represent days as strings in ISO-8601 format.
const DayFormat = "2006-01-02" // write format

// Day represents a civil date with day-level granularity.
type Day struct {
	y int        // year
	m time.Month // month
	d int        // day
}

// NewDay returns a normalized Day for the given year, month, and day.
func NewDay(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.midnight(time.UTC).Date()
	return d
}

// DayOf returns the civil date of t in the given location.
func DayOf(t time.Time, loc *time.Location) Day {
	return NewDay(t.In(loc).Date())
}

// midnight returns the time.Time at 00:00 of that day in the given location.
func (d Day) midnight(loc *time.Location) time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc)
}

// Year returns the year of the day.
func (d Day) Year() int { return d.y }

// Month returns the month of the day.
func (d Day) Month() time.Month { return d.m }

// Day returns the day of the month.
func (d Day) Day() int { return d.d }

// IsZero returns true if the day is the zero value.
func (d Day) IsZero() bool { return d.y == 0 && d.m == 0 && d.d == 0 }

// Before reports whether the day d is before x.
func (d Day) Before(x Day) bool { return d.midnight(time.UTC).Before(x.midnight(time.UTC)) }

// After reports whether the day d is after x.
func (d Day) After(x Day) bool { return d.midnight(time.UTC).After(x.midnight(time.UTC)) }

// Add returns a new Day with the given number of days added.
func (d Day) Add(i int) Day { return NewDay(d.y, d.m, d.d+i) }

// String formats the day in its standard ISO-8601 format.
func (d Day) String() string { return d.midnight(time.UTC).Format(DayFormat) }

// ParseDay parses a Day from a string. It is lenient and accepts formats like "2025-7-1".
func ParseDay(str string) (Day, error) {
	on, err := time.Parse(readDayFormat, str)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q want format %q: %w", str, readDayFormat, err)
	}
	return NewDay(on.Date()), nil
}

// MustParseDay is like ParseDay but panics on error.
func MustParseDay(str string) Day {
	d, err := ParseDay(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

// UnmarshalJSON implements the json specific way to unmarshall a day from a json string.
func (d *Day) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	day, err := ParseDay(str)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

func (d Day) MarshalJSON() ([]byte, error) {
	str := d.String()
	return json.Marshal(&str)
}

// check that a Day pointer is a valid json marshall/unmarshaller type.
var _ json.Marshaler = (*Day)(nil)
var _ json.Unmarshaler = (*Day)(nil)
