package carteira

import (
	"errors"
	"fmt"

	"github.com/etnz/carteira/ratemath"
)

var (
	// ErrInvalidArgument is returned for out of contract values, like an unknown indexer type.
	ErrInvalidArgument = ratemath.ErrInvalidArgument
	// ErrDivisionByZero is returned when a rate is derived from a zero base.
	ErrDivisionByZero = ratemath.ErrDivisionByZero
	// ErrSequenceViolation is returned when a ledger event cannot follow the
	// previous ones: selling what was not bought, or going back in time.
	ErrSequenceViolation = errors.New("sequence violation")
)

// Fallback policies used where a division has no meaningful divisor.
const (
	// RentabilityFallbackDivisor replaces a zero "buy value + fees" when
	// computing the rentability of a closed position. This is an approximation.
	RentabilityFallbackDivisor = 0.01
	// EmptyMarketPercentage is the allocation reported when a market group has
	// no value at all.
	EmptyMarketPercentage = 0.0
)

// TickerError reports a failure isolated to a single ticker in an aggregate
// computation.
type TickerError struct {
	Ticker string
	Err    error
}

func (e *TickerError) Error() string { return fmt.Sprintf("%s: %v", e.Ticker, e.Err) }

func (e *TickerError) Unwrap() error { return e.Err }
