package carteira

import (
	"fmt"

	"github.com/etnz/carteira/date"
)

// State is the state of a Matcher.
type State int

const (
	// Idle: nothing is held.
	Idle State = iota
	// Accumulating: a position is open and waiting for its matching trades.
	Accumulating
)

func (s State) String() string {
	if s == Accumulating {
		return "accumulating"
	}
	return "idle"
}

// Matcher turns the chronological events of a single ticker into closed
// positions and one open position.
//
// A position is closed the instant the quantity sold equals the quantity
// bought. Cost basis is the weighted average of all buys since the position
// opened; no lot selection is performed.
type Matcher struct {
	ticker    string
	tolerance float64

	state State
	seq   int       // number of closed positions so far
	last  date.Date // date of the last applied event
	open  OpenPosition
}

// NewMatcher returns an Idle matcher for ticker.
//
// tolerance is the largest difference between bought and sold quantities
// still considered a match. Zero requires exact equality.
func NewMatcher(ticker string, tolerance float64) *Matcher {
	return &Matcher{ticker: ticker, tolerance: tolerance}
}

// Ticker returns the matched ticker.
func (m *Matcher) Ticker() string { return m.ticker }

// State returns the current state.
func (m *Matcher) State() State { return m.state }

// Open returns the current open position, if any.
func (m *Matcher) Open() (OpenPosition, bool) {
	if m.state != Accumulating {
		return OpenPosition{}, false
	}
	return m.open, true
}

// Apply feeds the next event to the matcher.
//
// It returns the closed position when the event round-trips the open
// position. Events must come in chronological order and a sell must never
// exceed what is held, otherwise ErrSequenceViolation is returned and the
// matcher is left unchanged.
func (m *Matcher) Apply(tx Transaction) (*ClosedPosition, error) {
	if tx.Ticker != m.ticker {
		return nil, fmt.Errorf("matcher for %q cannot apply a %s of %q: %w", m.ticker, tx.Operation, tx.Ticker, ErrInvalidArgument)
	}
	if err := tx.Validate(); err != nil {
		return nil, err
	}
	if tx.Date.Before(m.last) {
		return nil, fmt.Errorf("%s %s on %s is before the previous event on %s: %w", tx.Operation, tx.Ticker, tx.Date, m.last, ErrSequenceViolation)
	}

	if !tx.Operation.IsTrade() {
		m.last = tx.Date
		if m.state == Accumulating {
			m.attach(tx)
		}
		return nil, nil
	}

	next := m.open
	if m.state == Idle {
		if tx.Operation == Sell {
			return nil, fmt.Errorf("sell %v %s on %s with nothing held: %w", tx.Quantity, tx.Ticker, tx.Date, ErrSequenceViolation)
		}
		next = OpenPosition{
			Ticker:   tx.Ticker,
			Market:   tx.Market,
			OpenDate: tx.Date,
		}
	}

	switch tx.Operation {
	case Buy:
		next.Bought += tx.Quantity
		next.BuyValue += tx.Value()
		next.BuyFees += tx.Fees
		if tx.Indexer != NoIndexer {
			next.Indexer = tx.Indexer
			next.ContractedRate = tx.ContractedRate
		}
		if !tx.DueDate.IsZero() {
			next.DueDate = tx.DueDate
		}
	case Sell:
		next.Sold += tx.Quantity
		next.SellValue += tx.Value()
		next.SellFees += tx.Fees
		if next.Sold > next.Bought && !next.isClosed(m.tolerance) {
			return nil, fmt.Errorf("sell %v %s on %s exceeds the %v held: %w", tx.Quantity, tx.Ticker, tx.Date, m.open.Quantity(), ErrSequenceViolation)
		}
	}
	next.IncomeTax += tx.IncomeTax

	m.last = tx.Date
	if !next.isClosed(m.tolerance) {
		m.open, m.state = next, Accumulating
		return nil, nil
	}

	m.seq++
	closed := next.close(m.seq, tx.Date)
	m.open, m.state = OpenPosition{}, Idle
	return &closed, nil
}

// attach adds the amounts of a non trade event to the open position.
func (m *Matcher) attach(tx Transaction) {
	m.open.Dividends += tx.Dividends
	m.open.JCP += tx.JCP
	m.open.IncomeTax += tx.IncomeTax
	if tx.Operation == Charge {
		m.open.Charges += tx.Fees
	}
}
