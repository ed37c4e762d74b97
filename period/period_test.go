package period

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

func TestSettlementInstant(t *testing.T) {
	testCases := []struct {
		name       string
		day        Day
		wantOffset string // the UTC offset the instant must carry
	}{
		// US DST starts 2025-03-09 and ends 2025-11-02; Chicago is CST
		// (-0600) in winter, CDT (-0500) in summer.
		{"winter", NewDay(2025, time.January, 15), "-06:00"},
		{"day before spring forward", NewDay(2025, time.March, 8), "-06:00"},
		{"spring forward day", NewDay(2025, time.March, 9), "-05:00"},
		{"summer", NewDay(2025, time.July, 1), "-05:00"},
		{"fall back day", NewDay(2025, time.November, 2), "-06:00"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SettlementInstant(tc.day, chicago)
			if got.Hour() != SettlementHour || got.Minute() != 0 {
				t.Errorf("SettlementInstant() = %v, want 14:00 local", got)
			}
			if off := got.Format("-07:00"); off != tc.wantOffset {
				t.Errorf("offset = %s, want %s (each day uses its own DST offset)", off, tc.wantOffset)
			}
			if DayOf(got, chicago) != tc.day {
				t.Errorf("instant fell on %s, want %s", DayOf(got, chicago), tc.day)
			}
		})
	}
}

func TestInstantsBetween(t *testing.T) {
	local := func(day string, hour int) time.Time {
		d := MustParseDay(day)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, chicago)
	}

	testCases := []struct {
		name       string
		start, end time.Time
		want       []string // settlement keys of the expected instants
	}{
		{
			name:  "same day before settlement",
			start: local("2025-03-03", 9),
			end:   local("2025-03-03", 11),
			want:  nil,
		},
		{
			name:  "one settlement crossed",
			start: local("2025-03-03", 9),
			end:   local("2025-03-03", 15),
			want:  []string{"20250303_1400"},
		},
		{
			name:  "two days",
			start: local("2025-03-03", 10),
			end:   local("2025-03-04", 15),
			want:  []string{"20250303_1400", "20250304_1400"},
		},
		{
			name:  "start exactly at settlement is excluded",
			start: local("2025-03-03", 14),
			end:   local("2025-03-04", 15),
			want:  []string{"20250304_1400"},
		},
		{
			name:  "end exactly at settlement is included",
			start: local("2025-03-03", 10),
			end:   local("2025-03-04", 14),
			want:  []string{"20250303_1400", "20250304_1400"},
		},
		{
			name:  "across spring forward",
			start: local("2025-03-07", 10),
			end:   local("2025-03-10", 10),
			want:  []string{"20250307_1400", "20250308_1400", "20250309_1400"},
		},
		{
			name:  "empty interval",
			start: local("2025-03-03", 15),
			end:   local("2025-03-03", 15),
			want:  nil,
		},
		{
			name:  "inverted interval",
			start: local("2025-03-04", 10),
			end:   local("2025-03-03", 10),
			want:  nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := InstantsBetween(tc.start, tc.end, chicago)
			if len(got) != len(tc.want) {
				t.Fatalf("InstantsBetween() = %v, want %d instants %v", got, len(tc.want), tc.want)
			}
			for i, instant := range got {
				if key := Key(instant); key != tc.want[i] {
					t.Errorf("instant %d = %s, want %s", i, key, tc.want[i])
				}
				if i > 0 && !got[i-1].Before(instant) {
					t.Errorf("instants out of order at %d", i)
				}
			}
		})
	}
}

func TestPnLDay(t *testing.T) {
	local := func(day string, hour, min int) time.Time {
		d := MustParseDay(day)
		return time.Date(d.Year(), d.Month(), d.Day(), hour, min, 0, 0, chicago)
	}

	testCases := []struct {
		name string
		t    time.Time
		want Day
	}{
		{"morning belongs to the same day", local("2025-03-03", 9, 0), MustParseDay("2025-03-03")},
		{"just before settlement", local("2025-03-03", 13, 59), MustParseDay("2025-03-03")},
		{"exactly at settlement rolls to next day", local("2025-03-03", 14, 0), MustParseDay("2025-03-04")},
		{"evening belongs to the next day", local("2025-03-03", 20, 0), MustParseDay("2025-03-04")},
		{"just after midnight still before settlement", local("2025-03-04", 0, 30), MustParseDay("2025-03-04")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PnLDay(tc.t, chicago); got != tc.want {
				t.Errorf("PnLDay(%v) = %s, want %s", tc.t, got, tc.want)
			}
		})
	}
}

func TestBoundaries(t *testing.T) {
	start, end := Boundaries(MustParseDay("2025-03-04"), chicago)
	if got, want := Key(start), "20250303_1400"; got != want {
		t.Errorf("start = %s, want %s", got, want)
	}
	if got, want := Key(end), "20250304_1400"; got != want {
		t.Errorf("end = %s, want %s", got, want)
	}

	// Spring forward: the period around the transition is an hour short in
	// absolute terms, but both boundaries sit at 14:00 local.
	start, end = Boundaries(MustParseDay("2025-03-09"), chicago)
	if got, want := end.Sub(start), 23*time.Hour; got != want {
		t.Errorf("spring-forward period length = %v, want %v", got, want)
	}
}

func TestKeyFormat(t *testing.T) {
	d := NewDay(2025, time.March, 3)
	key := SettlementKey(d)
	if key != "20250303_1400" {
		t.Errorf("SettlementKey() = %q, want %q", key, "20250303_1400")
	}
	if len(key) != 13 {
		t.Errorf("len(key) = %d, want 13", len(key))
	}
	if key != Key(SettlementInstant(d, chicago)) {
		t.Errorf("SettlementKey and Key disagree for a true settlement")
	}

	// Zero padding for single-digit month and day.
	if got, want := SettlementKey(NewDay(2025, time.July, 4)), "20250704_1400"; got != want {
		t.Errorf("SettlementKey() = %q, want %q", got, want)
	}
}

func TestParseKey(t *testing.T) {
	instant, err := ParseKey("20250303_1030", chicago)
	if err != nil {
		t.Fatalf("ParseKey() failed: %v", err)
	}
	if got := Key(instant); got != "20250303_1030" {
		t.Errorf("round trip = %q, want %q", got, "20250303_1030")
	}

	if _, err := ParseKey("2025-03-03", chicago); err == nil {
		t.Error("ParseKey() accepted a malformed key")
	}
}
