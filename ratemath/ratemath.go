// Package ratemath implements the compounding and discounting primitives used
// to value fixed-income assets.
//
// Rates are fractions (0.0062 for 0.62%) unless the caller passes Percentage
// as the Mode, in which case every rate read is divided by 100 and every rate
// returned is multiplied by 100. The mode is always explicit.
package ratemath

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrInvalidArgument is returned when an argument is outside of the function contract.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDivisionByZero is returned when a rate is derived from a zero base value.
	ErrDivisionByZero = errors.New("division by zero")
)

// Mode tells how rates are expressed.
type Mode int

const (
	// Fraction rates: 0.01 is one percent.
	Fraction Mode = iota
	// Percentage rates: 1 is one percent.
	Percentage
)

func (m Mode) String() string {
	switch m {
	case Fraction:
		return "fraction"
	case Percentage:
		return "percentage"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// in converts a rate expressed in mode m into a fraction.
func (m Mode) in(rate float64) float64 {
	if m == Percentage {
		return rate / 100
	}
	return rate
}

// out converts a fraction into a rate expressed in mode m.
func (m Mode) out(rate float64) float64 {
	if m == Percentage {
		return rate * 100
	}
	return rate
}

// factors returns 1+rate for each rate, NaN rates count as zero.
func factors(rates []float64, mode Mode) []float64 {
	f := make([]float64, len(rates))
	for i, r := range rates {
		if math.IsNaN(r) {
			r = 0
		}
		f[i] = 1 + mode.in(r)
	}
	return f
}

// Compound returns the value of initial after being compounded by each period
// rate in order.
//
// An empty rate list is an ErrInvalidArgument.
func Compound(rates []float64, initial float64, mode Mode) (float64, error) {
	if len(rates) == 0 {
		return 0, fmt.Errorf("compound: empty rate list: %w", ErrInvalidArgument)
	}
	return initial * floats.Prod(factors(rates, mode)), nil
}

// InterestValue returns the interest earned by compounding initial over rates,
// that is Compound minus initial.
func InterestValue(rates []float64, initial float64, mode Mode) (float64, error) {
	final, err := Compound(rates, initial, mode)
	if err != nil {
		return 0, err
	}
	return final - initial, nil
}

// RateFromValues returns the rate that turns initial into final.
func RateFromValues(initial, final float64, mode Mode) (float64, error) {
	if initial == 0 {
		return 0, fmt.Errorf("rate from values %v -> %v: %w", initial, final, ErrDivisionByZero)
	}
	return mode.out((final - initial) / initial), nil
}

// CumulativeValues applies each rate to the running total and returns the
// interest earned at each step (not the running total).
func CumulativeValues(rates []float64, initial float64, mode Mode) []float64 {
	f := factors(rates, mode)
	// running totals after each step.
	totals := floats.CumProd(make([]float64, len(f)), f)
	floats.Scale(initial, totals)

	increments := make([]float64, len(totals))
	prev := initial
	for i, total := range totals {
		increments[i] = total - prev
		prev = total
	}
	return increments
}

// CumulativeRates is the inverse of CumulativeValues: it derives the rate
// implied by each increment given the running base that starts at initial.
func CumulativeRates(increments []float64, initial float64, mode Mode) ([]float64, error) {
	// bases[i] is the running total before increment i.
	bases := make([]float64, len(increments))
	if len(increments) > 0 {
		floats.CumSum(bases[1:], increments[:len(increments)-1])
	}
	floats.AddConst(initial, bases)

	rates := make([]float64, len(increments))
	for i, inc := range increments {
		if bases[i] == 0 {
			return nil, fmt.Errorf("cumulative rates: zero base at step %d: %w", i, ErrDivisionByZero)
		}
		rates[i] = mode.out(inc / bases[i])
	}
	return rates, nil
}

// MeanRatePerPeriod returns the rate that, compounded periods times, is
// equivalent to rate. It converts an annual rate into a monthly one with
// periods = 12.
func MeanRatePerPeriod(rate float64, periods int, mode Mode) (float64, error) {
	if periods <= 0 {
		return 0, fmt.Errorf("mean rate over %d periods: %w", periods, ErrInvalidArgument)
	}
	return mode.out(math.Pow(1+mode.in(rate), 1/float64(periods)) - 1), nil
}

// FlatRateSeries returns a series made of count times the same rate.
func FlatRateSeries(rate float64, count int) []float64 {
	if count <= 0 {
		return []float64{}
	}
	return slices.Repeat([]float64{rate}, count)
}
