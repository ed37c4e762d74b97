package pnl

import "testing"

func TestParse32nds(t *testing.T) {
	testCases := []struct {
		in      string
		want    Price
		wantErr bool
	}{
		{"110-16", P(110.5), false},
		{"110-00", P(110), false},
		{"110-01", P(110.03125), false},
		{"0-31", P(0.96875), false},
		{"-110-16", P(-110.5), false},
		{"110-32", Price{}, true},
		{"110.5", Price{}, true},
		{"110-", Price{}, true},
		{"", Price{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse32nds(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse32nds(%q) = %s, want error", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse32nds(%q) failed: %v", tc.in, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("Parse32nds(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormat32nds_RoundTrip(t *testing.T) {
	// Any price that is an integer multiple of 1/32 must round-trip exactly.
	for ticks := int64(-64); ticks <= 64; ticks++ {
		p := P(float64(ticks) / 32)
		s, err := p.Format32nds()
		if err != nil {
			t.Fatalf("Format32nds(%s) failed: %v", p, err)
		}
		back, err := Parse32nds(s)
		if err != nil {
			t.Fatalf("Parse32nds(%q) failed: %v", s, err)
		}
		if !back.Equal(p) {
			t.Errorf("round trip %s -> %q -> %s", p, s, back)
		}
	}
}

func TestFormat32nds_RejectsOffGrid(t *testing.T) {
	if s, err := P(110.51).Format32nds(); err == nil {
		t.Errorf("Format32nds(110.51) = %q, want error", s)
	}
}

func TestMoneySignedString(t *testing.T) {
	testCases := []struct {
		in   Money
		want string
	}{
		{M(0, "USD"), "-"},
		{M(15, "USD"), "+$15.00"},
		{M(-15, "USD"), "-$15.00"},
	}
	for _, tc := range testCases {
		if got := tc.in.SignedString(); got != tc.want {
			t.Errorf("SignedString(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
