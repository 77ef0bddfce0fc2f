// Package indexer holds the monthly rate series of the economic indexers
// (IPCA, SELIC, CDI, ...) used to adjust fixed-income yields.
package indexer

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"slices"
	"time"

	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/ratemath"
)

// Period identifies a calendar month.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf returns the month containing d.
func PeriodOf(d date.Date) Period { return Period{Year: d.Year(), Month: d.Month()} }

// Before reports whether p is before q.
func (p Period) Before(q Period) bool { return p.index() < q.index() }

func (p Period) index() int { return p.Year*12 + int(p.Month) - 1 }

func (p Period) String() string { return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month)) }

// Point is a single monthly rate, as a fraction.
type Point struct {
	Period
	Rate float64
}

// Series stores the chronological monthly rates of one indexer.
// Periods are unique and always sorted.
type Series struct {
	Name   string
	points []Point
}

// NewSeries returns an empty series.
func NewSeries(name string) *Series { return &Series{Name: name} }

// MonthlyRow is one year of an indexer table, as published: twelve monthly
// values in percentage points. NaN marks a month with no value.
type MonthlyRow struct {
	Year  int
	Cells [12]float64
}

// FromMonthlyTable builds a series from a 12-column-per-year table.
//
// Each cell becomes one point, missing cells are dropped, and values are
// converted from percentage points to fractions.
func FromMonthlyTable(name string, rows []MonthlyRow) (*Series, error) {
	s := NewSeries(name)
	for _, row := range rows {
		if row.Year <= 0 {
			return nil, fmt.Errorf("indexer %s: invalid year %d: %w", name, row.Year, ratemath.ErrInvalidArgument)
		}
		for i, cell := range row.Cells {
			if math.IsNaN(cell) {
				continue
			}
			s.Append(row.Year, time.Month(i+1), cell/100)
		}
	}
	return s, nil
}

func (s *Series) search(p Period) (int, bool) {
	return slices.BinarySearchFunc(s.points, p, func(e Point, t Period) int {
		return e.index() - t.index()
	})
}

// Append adds a point to the series.
//
// An existing value for that month is overwritten.
func (s *Series) Append(year int, month time.Month, rate float64) *Series {
	p := Period{Year: year, Month: month}
	i, found := s.search(p)
	if found {
		// last value wins, it gives priority to revised publications.
		s.points[i].Rate = rate
		return s
	}
	s.points = slices.Insert(s.points, i, Point{Period: p, Rate: rate})
	return s
}

// Len returns the number of months in the series.
func (s *Series) Len() int { return len(s.points) }

// Get returns the rate of a given month.
func (s *Series) Get(p Period) (float64, bool) {
	i, found := s.search(p)
	if !found {
		return 0, false
	}
	return s.points[i].Rate, true
}

// FirstPeriod returns the oldest month in the series.
func (s *Series) FirstPeriod() (Period, bool) {
	if len(s.points) == 0 {
		return Period{}, false
	}
	return s.points[0].Period, true
}

// LastPeriod returns the most recent month in the series.
func (s *Series) LastPeriod() (Period, bool) {
	if len(s.points) == 0 {
		return Period{}, false
	}
	return s.points[len(s.points)-1].Period, true
}

// Values returns an iterator over all months and rates, in chronological order.
func (s *Series) Values() iter.Seq2[Period, float64] {
	return func(yield func(Period, float64) bool) {
		for _, p := range s.points {
			if !yield(p.Period, p.Rate) {
				return
			}
		}
	}
}

// RatesInRange returns the rates of every month from from's month to to's
// month, both included, in chronological order.
//
// Months without data are simply absent: a period with no coverage returns an
// empty slice.
func (s *Series) RatesInRange(from, to date.Date) []float64 {
	first, last := PeriodOf(from), PeriodOf(to)
	start, _ := s.search(first)
	rates := []float64{}
	for _, p := range s.points[start:] {
		if last.Before(p.Period) {
			break
		}
		rates = append(rates, p.Rate)
	}
	return rates
}

// ErrNoData is returned when a series has no value for the requested period.
var ErrNoData = errors.New("no indexer data")

// AnnualRate returns the rate accumulated over the twelve months ending with
// on's month. Months without data are skipped.
func (s *Series) AnnualRate(on date.Date) (float64, error) {
	rates := s.RatesInRange(on.StartOfMonth().AddMonth(-11), on)
	if len(rates) == 0 {
		return 0, fmt.Errorf("indexer %s: annual rate to %s: %w", s.Name, PeriodOf(on), ErrNoData)
	}
	final, err := ratemath.Compound(rates, 1, ratemath.Fraction)
	if err != nil {
		return 0, err
	}
	return ratemath.RateFromValues(1, final, ratemath.Fraction)
}
