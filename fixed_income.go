package carteira

import (
	"errors"
	"fmt"

	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/indexer"
	"github.com/etnz/carteira/ratemath"
)

// FixedIncomeLot is a fixed-income purchase to be valued.
type FixedIncomeLot struct {
	Quantity float64
	BuyPrice float64 // total price paid for the lot
	Initial  date.Date
	Indexer  IndexerType
	// Rate is the annual contracted rate for Prefixed and IPCA, and the
	// multiplier of the indexer for CDI and SELIC (1.30 is 130% of CDI).
	Rate float64
}

// Valuer projects the value of fixed-income lots using the indexer series.
type Valuer struct {
	Indexers indexer.Book
}

// NewValuer returns a Valuer reading indexer series from book.
func NewValuer(book indexer.Book) *Valuer { return &Valuer{Indexers: book} }

// Value returns the value on final of a lot bought on lot.Initial.
//
// Interest is compounded monthly over every month touched by the holding
// period, then prorated by the ratio between the days actually held and the
// days of those whole months. This over or under counts a little for very
// short holdings.
//
// A lot with no quantity or no price, or valued on its purchase day, is worth
// its buy price. Months without indexer data contribute no interest.
func (v *Valuer) Value(lot FixedIncomeLot, final date.Date) (float64, error) {
	switch lot.Indexer {
	case Prefixed, IPCA, CDI, SELIC:
	default:
		return 0, fmt.Errorf("cannot value a %s indexed lot: %w", lot.Indexer, ErrInvalidArgument)
	}
	if final.Before(lot.Initial) {
		return 0, fmt.Errorf("cannot value on %s a lot bought on %s: %w", final, lot.Initial, ErrInvalidArgument)
	}
	if lot.Quantity == 0 || lot.BuyPrice == 0 || final == lot.Initial {
		return lot.BuyPrice, nil
	}

	months := lot.Initial.MonthsSpan(final)
	held := date.NewRange(lot.Initial, final)
	proportion := float64(held.Days()) / float64(held.Months().Days())

	var interest float64
	switch lot.Indexer {
	case Prefixed:
		i, err := prefixedInterest(lot.Rate, months, lot.BuyPrice)
		if err != nil {
			return 0, err
		}
		interest = i
	case IPCA:
		pre, err := prefixedInterest(lot.Rate, months, lot.BuyPrice)
		if err != nil {
			return 0, err
		}
		inflation, err := v.seriesInterest(lot.Indexer, held, lot.BuyPrice)
		if err != nil {
			return 0, err
		}
		interest = pre + inflation
	case CDI, SELIC:
		full, err := v.seriesInterest(lot.Indexer, held, lot.BuyPrice)
		if err != nil {
			return 0, err
		}
		// the multiplier applies to the value earned, not to each monthly rate.
		rate, err := ratemath.RateFromValues(lot.BuyPrice, lot.BuyPrice+full*lot.Rate, ratemath.Fraction)
		if err != nil {
			return 0, err
		}
		interest = lot.BuyPrice * rate
	}
	return lot.BuyPrice + interest*proportion, nil
}

// prefixedInterest compounds the monthly equivalent of an annual rate over months.
func prefixedInterest(annual float64, months int, buyPrice float64) (float64, error) {
	monthly, err := ratemath.MeanRatePerPeriod(annual, 12, ratemath.Fraction)
	if err != nil {
		return 0, err
	}
	return ratemath.InterestValue(ratemath.FlatRateSeries(monthly, months), buyPrice, ratemath.Fraction)
}

// seriesInterest compounds the monthly rates of t's series over the range.
func (v *Valuer) seriesInterest(t IndexerType, r date.Range, buyPrice float64) (float64, error) {
	name, _ := t.Series()
	s, ok := v.Indexers.Get(name)
	if !ok {
		return 0, fmt.Errorf("%s series is not loaded: %w", name, indexer.ErrNoData)
	}
	rates := s.RatesInRange(r.From, r.To)
	if len(rates) == 0 {
		return 0, nil
	}
	return ratemath.InterestValue(rates, buyPrice, ratemath.Fraction)
}

// PositionValue is the valuation of a fixed-income open position.
type PositionValue struct {
	Ticker string
	Lot    FixedIncomeLot
	On     date.Date // valuation date, never after the due date
	Value  float64
}

// Lot returns the fixed-income lot held by an open position, at its average
// price.
func (p OpenPosition) Lot() FixedIncomeLot {
	return FixedIncomeLot{
		Quantity: p.Quantity(),
		BuyPrice: p.Quantity() * p.AveragePrice(),
		Initial:  p.OpenDate,
		Indexer:  p.Indexer,
		Rate:     p.ContractedRate,
	}
}

// ValuePositions values every indexed open position on a date.
//
// Lots past their due date are valued on the due date. Positions that cannot
// be valued are left out and reported as failures.
func (v *Valuer) ValuePositions(opens []OpenPosition, on date.Date) ([]PositionValue, []*TickerError) {
	var values []PositionValue
	var failures []*TickerError
	for _, p := range opens {
		if p.Indexer == NoIndexer || p.Quantity() <= 0 {
			continue
		}
		at := on
		if !p.DueDate.IsZero() && at.After(p.DueDate) {
			// no interest accrues past maturity.
			at = p.DueDate
		}
		lot := p.Lot()
		value, err := v.Value(lot, at)
		if err != nil {
			failures = append(failures, &TickerError{Ticker: p.Ticker, Err: err})
			continue
		}
		values = append(values, PositionValue{Ticker: p.Ticker, Lot: lot, On: at, Value: value})
	}
	return values, failures
}

// Quotes values every indexed open position on a date and returns the value
// of one unit per ticker, ready to be used as the wallet current quote.
//
// Positions that cannot be valued are left out and reported in the returned
// error, joined as TickerError.
func (v *Valuer) Quotes(opens []OpenPosition, on date.Date) (map[string]float64, error) {
	values, failures := v.ValuePositions(opens, on)
	quotes := make(map[string]float64, len(values))
	for _, pv := range values {
		quotes[pv.Ticker] = pv.Value / pv.Lot.Quantity
	}
	var errs error
	for _, f := range failures {
		errs = errors.Join(errs, f)
	}
	return quotes, errs
}
