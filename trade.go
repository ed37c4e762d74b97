package pnl

import (
	"fmt"
	"strings"
	"time"
)

// Side is the direction of a trade execution.
type Side int

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "unknown"
	}
}

// sign returns +1 for a buy and -1 for a sell.
func (s Side) sign() int {
	if s == Buy {
		return 1
	}
	return -1
}

// ParseSide parses a trade side, accepting any casing.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "B":
		return Buy, nil
	case "SELL", "S":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown side: %q", s)
	}
}

// Kind is the instrument kind of a traded contract.
type Kind int

const (
	Future Kind = iota
	Call
	Put
)

func (k Kind) String() string {
	switch k {
	case Future:
		return "FUTURE"
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	default:
		return "unknown"
	}
}

// IsOption reports whether the kind is an option.
func (k Kind) IsOption() bool { return k == Call || k == Put }

// ParseKind parses an instrument kind, accepting any casing.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "FUTURE", "FUT", "F":
		return Future, nil
	case "CALL", "C":
		return Call, nil
	case "PUT", "P":
		return Put, nil
	default:
		return 0, fmt.Errorf("unknown instrument kind: %q", s)
	}
}

// Trade is a single immutable buy or sell execution. Quantity is always
// positive; direction is carried by Side. Symbols are canonical: vendor
// symbol translation happens before a trade enters the matcher.
type Trade struct {
	ID       string
	Symbol   string
	Time     time.Time
	Side     Side
	Quantity Quantity // positive
	Price    Price
	Kind     Kind
	Strike   Price // options only
}

// Validate checks the trade for well-formedness. A failed check is an
// InputError: the trade is skipped, the batch continues.
func (t Trade) Validate() error {
	if t.Side != Buy && t.Side != Sell {
		return inputErrorf("trade %q: unknown side %d", t.ID, t.Side)
	}
	if !t.Quantity.IsPositive() {
		return inputErrorf("trade %q: non-positive quantity %s", t.ID, t.Quantity)
	}
	if t.Time.IsZero() {
		return inputErrorf("trade %q: missing timestamp", t.ID)
	}
	return nil
}
