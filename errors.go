package pnl

import (
	"errors"
	"fmt"

	"github.com/etnz/pnl/period"
)

// InputError marks a malformed input item: non-positive quantity, unknown
// side, entry after exit. It is fatal for that item only; batch processing
// reports it and continues with the remaining items.
type InputError struct {
	msg string
}

func (e *InputError) Error() string { return e.msg }

func inputErrorf(format string, args ...any) error {
	return &InputError{msg: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err is (or wraps) an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}

// PriceGap reports a missing settlement or market price. A gap is never
// defaulted to zero or to a neighboring price: "zero P&L" must stay
// distinguishable from "unknown P&L".
type PriceGap struct {
	Symbol string
	Day    period.Day
}

func (e PriceGap) Error() string {
	return fmt.Sprintf("no price for %q on %s", e.Symbol, e.Day)
}

// ItemError attaches reconciliation context to a per-item failure inside a
// batch: which symbol, which trade or lot, and why.
type ItemError struct {
	Symbol string
	ID     string // trade or lot id, may be empty
	Err    error
}

func (e ItemError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s: %v", e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Symbol, e.ID, e.Err)
}

func (e ItemError) Unwrap() error { return e.Err }
