package carteira

import (
	"errors"
	"maps"
	"slices"
	"sort"
)

// MarketSummary holds the running totals of a market, independent of the per
// ticker detail.
type MarketSummary struct {
	Market    Market
	Fees      float64
	IncomeTax float64
	Dividends float64
	JCP       float64

	Closed      int     // number of closed positions
	GrossResult float64 // sum of the closed positions gross results
	NetResult   float64 // sum of the closed positions net results
}

// add accounts for a single ledger event.
func (s *MarketSummary) add(tx Transaction) {
	s.Fees += tx.Fees
	s.IncomeTax += tx.IncomeTax
	s.Dividends += tx.Dividends
	s.JCP += tx.JCP
}

// addClosed accounts for a closed position.
func (s *MarketSummary) addClosed(c ClosedPosition) {
	s.Closed++
	s.GrossResult += c.GrossResult
	s.NetResult += c.NetResult
}

// merge adds the totals of o into s.
func (s *MarketSummary) merge(o *MarketSummary) {
	s.Fees += o.Fees
	s.IncomeTax += o.IncomeTax
	s.Dividends += o.Dividends
	s.JCP += o.JCP
	s.Closed += o.Closed
	s.GrossResult += o.GrossResult
	s.NetResult += o.NetResult
}

// ReconcileOptions tunes Reconcile.
type ReconcileOptions struct {
	// Tolerance is passed to every Matcher, zero means exact quantity match.
	Tolerance float64
}

// Reconciliation is the result of matching a whole ledger.
type Reconciliation struct {
	Open     []OpenPosition   // sorted by ticker
	Closed   []ClosedPosition // sorted by close date
	Markets  map[Market]*MarketSummary
	Failures []*TickerError
}

// Reconcile matches every ticker of the ledger independently and gathers open
// positions, closed positions and market summaries.
//
// A ticker whose events cannot be matched is reported in Failures and left out
// of every result; the other tickers are not affected.
func Reconcile(l *Ledger, opts ReconcileOptions) *Reconciliation {
	r := &Reconciliation{Markets: make(map[Market]*MarketSummary)}
	grouped := l.ByTicker()
	for _, ticker := range l.Tickers() {
		part, err := reconcileTicker(ticker, grouped[ticker], opts)
		if err != nil {
			r.Failures = append(r.Failures, &TickerError{Ticker: ticker, Err: err})
			continue
		}
		if part.open != nil {
			r.Open = append(r.Open, *part.open)
		}
		r.Closed = append(r.Closed, part.closed...)
		for m, s := range part.markets {
			r.market(m).merge(s)
		}
	}
	sort.SliceStable(r.Closed, func(i, j int) bool {
		return r.Closed[i].CloseDate.Before(r.Closed[j].CloseDate)
	})
	return r
}

// tickerResult is the contribution of a single ticker to a Reconciliation.
type tickerResult struct {
	open    *OpenPosition
	closed  []ClosedPosition
	markets map[Market]*MarketSummary
}

func reconcileTicker(ticker string, txs []Transaction, opts ReconcileOptions) (tickerResult, error) {
	res := tickerResult{markets: make(map[Market]*MarketSummary)}
	summary := func(m Market) *MarketSummary {
		s, ok := res.markets[m]
		if !ok {
			s = &MarketSummary{Market: m}
			res.markets[m] = s
		}
		return s
	}

	m := NewMatcher(ticker, opts.Tolerance)
	for _, tx := range txs {
		closed, err := m.Apply(tx)
		if err != nil {
			return tickerResult{}, err
		}
		summary(tx.Market).add(tx)
		if closed != nil {
			res.closed = append(res.closed, *closed)
			summary(closed.Market).addClosed(*closed)
		}
	}
	if open, ok := m.Open(); ok {
		res.open = &open
	}
	return res, nil
}

func (r *Reconciliation) market(m Market) *MarketSummary {
	s, ok := r.Markets[m]
	if !ok {
		s = &MarketSummary{Market: m}
		r.Markets[m] = s
	}
	return s
}

// Summaries returns the market summaries in market order.
func (r *Reconciliation) Summaries() []MarketSummary {
	keys := slices.Sorted(maps.Keys(r.Markets))
	res := make([]MarketSummary, 0, len(keys))
	for _, m := range keys {
		res = append(res, *r.Markets[m])
	}
	return res
}

// Total returns the whole ledger summary, all markets merged. Its Market
// field is meaningless.
func (r *Reconciliation) Total() MarketSummary {
	var total MarketSummary
	for _, s := range r.Markets {
		total.merge(s)
	}
	return total
}

// OpenPosition returns the open position of a ticker.
func (r *Reconciliation) OpenPosition(ticker string) (OpenPosition, bool) {
	for _, p := range r.Open {
		if p.Ticker == ticker {
			return p, true
		}
	}
	return OpenPosition{}, false
}

// Err returns all ticker failures joined, or nil.
func (r *Reconciliation) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
