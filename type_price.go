package pnl

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Price is a decimal market price. Prices are always plain decimals inside
// the calculation core; vendor notations like 32nds are converted at the
// boundary (see Parse32nds).
type Price struct {
	value decimal.Decimal
}

func P[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value)}
}

func (p Price) Equal(q Price) bool       { return p.value.Equal(q.value) }
func (p Price) LessThan(q Price) bool    { return p.value.LessThan(q.value) }
func (p Price) GreaterThan(q Price) bool { return p.value.GreaterThan(q.value) }
func (p Price) IsZero() bool             { return p.value.IsZero() }
func (p Price) String() string           { return p.value.String() }

// Sub returns the price difference p - q.
func (p Price) Sub(q Price) Price { return Price{value: p.value.Sub(q.value)} }

// Add returns the price p + q.
func (p Price) Add(q Price) Price { return Price{value: p.value.Add(q.value)} }

// Mul scales the price by a quantity, yielding a plain decimal amount.
func (p Price) Mul(q Quantity) decimal.Decimal { return p.value.Mul(q.value) }

// MarshalJSON implements the json.Marshaler interface.
func (p Price) MarshalJSON() ([]byte, error) { return p.value.MarshalJSON() }
func (p *Price) UnmarshalJSON(b []byte) error {
	return p.value.UnmarshalJSON(b)
}

// ParsePrice parses a plain decimal string into a Price.
func ParsePrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{value: d}, nil
}

var thirtySecondsRE = regexp.MustCompile(`^(-?)(\d+)-(\d{1,2})$`)

var thirtyTwo = decimal.NewFromInt(32)

// Parse32nds parses a bond-market "points and 32nds" quote into a decimal
// price: "110-16" is 110 + 16/32 = 110.5. The conversion is exact for any
// price that is an integer multiple of 1/32 and round-trips with
// Format32nds.
func Parse32nds(s string) (Price, error) {
	m := thirtySecondsRE.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Price{}, fmt.Errorf("invalid 32nds price %q want e.g. %q", s, "110-16")
	}
	points, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Price{}, fmt.Errorf("invalid points in %q: %w", s, err)
	}
	ticks, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return Price{}, fmt.Errorf("invalid 32nds in %q: %w", s, err)
	}
	if ticks >= 32 {
		return Price{}, fmt.Errorf("invalid 32nds price %q: fraction %d out of range", s, ticks)
	}
	v := decimal.NewFromInt(points).Add(decimal.NewFromInt(ticks).Div(thirtyTwo))
	if m[1] == "-" {
		v = v.Neg()
	}
	return Price{value: v}, nil
}

// Format32nds renders a price in "points and 32nds" notation. It returns an
// error if the price is not an integer multiple of 1/32.
func (p Price) Format32nds() (string, error) {
	v := p.value
	sign := ""
	if v.IsNegative() {
		sign = "-"
		v = v.Neg()
	}
	scaled := v.Mul(thirtyTwo)
	if !scaled.Equal(scaled.Truncate(0)) {
		return "", fmt.Errorf("price %s is not a multiple of 1/32", p)
	}
	total := scaled.IntPart()
	return fmt.Sprintf("%s%d-%02d", sign, total/32, total%32), nil
}
