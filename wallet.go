package carteira

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/etnz/carteira/date"
)

// WalletInput holds the market data the wallet needs, fetched by the caller.
type WalletInput struct {
	Quotes map[string]float64 // current quote of one unit, per ticker
	Yields map[string]float64 // current yield of equities, per ticker
	// Benchmarks holds the current annual rate of each indexer, used to
	// translate contracted rates.
	Benchmarks map[IndexerType]float64
}

// WalletRow is the valuation of an open position.
type WalletRow struct {
	Ticker         string
	Market         Market
	Group          MarketGroup
	Indexer        IndexerType
	ContractedRate float64
	AdjustedRate   float64 // contracted rate translated through the indexer, NaN when unknown
	Yield          float64
	OpenDate       date.Date

	Quantity             float64
	AveragePrice         float64
	AveragePriceWithFees float64
	PaidPrice            float64 // Quantity * AveragePriceWithFees
	CurrentQuote         float64
	MarketValue          float64 // Quantity * CurrentQuote
	DeltaVsPaid          float64 // MarketValue - PaidPrice
	DeltaVsPaidPct       float64

	Dividends       float64 // dividends and JCP received
	AdditionalCosts float64 // income tax and charges
	NetResult       float64 // MarketValue + Dividends - AdditionalCosts - PaidPrice
	NetResultPct    float64

	PercentageOfMarket    float64 // share of the row's group market value
	PercentageOfPortfolio float64 // share of the whole wallet market value
}

// Wallet is the valuation of all open positions, grouped by market group.
type Wallet struct {
	Rows     []WalletRow // sorted by group then ticker
	Failures []*TickerError
}

// BuildWallet values the open positions with the current quotes.
//
// A position whose quote is missing is reported in Failures and left out of
// the rows. Positions outside of any market group (custody) are ignored.
func BuildWallet(opens []OpenPosition, in WalletInput) *Wallet {
	w := &Wallet{}
	for _, p := range opens {
		group, ok := GroupOf(p.Market)
		if !ok {
			continue
		}
		quote, ok := in.Quotes[p.Ticker]
		if !ok {
			w.Failures = append(w.Failures, &TickerError{
				Ticker: p.Ticker,
				Err:    fmt.Errorf("no current quote for %s: %w", p.Market, ErrInvalidArgument),
			})
			continue
		}
		w.Rows = append(w.Rows, newWalletRow(p, group, quote, in))
	}
	slices.SortStableFunc(w.Rows, func(a, b WalletRow) int {
		if a.Group != b.Group {
			return int(a.Group) - int(b.Group)
		}
		return strings.Compare(a.Ticker, b.Ticker)
	})

	groupValue := make(map[MarketGroup]float64)
	var total float64
	for _, r := range w.Rows {
		groupValue[r.Group] += r.MarketValue
		total += r.MarketValue
	}
	for i := range w.Rows {
		r := &w.Rows[i]
		r.PercentageOfMarket = share(r.MarketValue, groupValue[r.Group])
		r.PercentageOfPortfolio = share(r.MarketValue, total)
	}
	return w
}

func newWalletRow(p OpenPosition, group MarketGroup, quote float64, in WalletInput) WalletRow {
	r := WalletRow{
		Ticker:               p.Ticker,
		Market:               p.Market,
		Group:                group,
		Indexer:              p.Indexer,
		ContractedRate:       p.ContractedRate,
		Yield:                in.Yields[p.Ticker],
		OpenDate:             p.OpenDate,
		Quantity:             p.Quantity(),
		AveragePrice:         p.AveragePrice(),
		AveragePriceWithFees: p.AveragePriceWithFees(),
		CurrentQuote:         quote,
		Dividends:            p.Dividends + p.JCP,
		AdditionalCosts:      p.IncomeTax + p.Charges,
	}
	r.AdjustedRate = adjustedRate(p.Indexer, p.ContractedRate, r.Yield, in.Benchmarks)
	r.PaidPrice = r.Quantity * r.AveragePriceWithFees
	r.MarketValue = r.Quantity * r.CurrentQuote
	r.DeltaVsPaid = r.MarketValue - r.PaidPrice
	r.DeltaVsPaidPct = share(r.DeltaVsPaid, r.PaidPrice)
	r.NetResult = r.MarketValue + r.Dividends - r.AdditionalCosts - r.PaidPrice
	r.NetResultPct = share(r.NetResult, r.PaidPrice)
	return r
}

// adjustedRate translates a contracted rate through its indexer benchmark.
func adjustedRate(t IndexerType, rate, yield float64, benchmarks map[IndexerType]float64) float64 {
	switch t {
	case Prefixed:
		return rate
	case IPCA, CDI, SELIC:
		b, ok := benchmarks[t]
		if !ok {
			return math.NaN()
		}
		if t == IPCA {
			return rate + b
		}
		return rate * b
	default:
		return yield
	}
}

// share returns part/whole, or EmptyMarketPercentage when whole is zero.
func share(part, whole float64) float64 {
	if whole == 0 {
		return EmptyMarketPercentage
	}
	return part / whole
}

// Groups returns the market groups present in the wallet, in order.
func (w *Wallet) Groups() []MarketGroup {
	var groups []MarketGroup
	for _, r := range w.Rows {
		if !slices.Contains(groups, r.Group) {
			groups = append(groups, r.Group)
		}
	}
	return groups
}

// Group returns the rows of a market group.
func (w *Wallet) Group(g MarketGroup) []WalletRow {
	var rows []WalletRow
	for _, r := range w.Rows {
		if r.Group == g {
			rows = append(rows, r)
		}
	}
	return rows
}

// SumRows returns the sum of the rows of a group: money amounts are summed and
// percentages recomputed from the sums.
func SumRows(rows []WalletRow) WalletRow {
	var t WalletRow
	for _, r := range rows {
		t.PaidPrice += r.PaidPrice
		t.MarketValue += r.MarketValue
		t.DeltaVsPaid += r.DeltaVsPaid
		t.Dividends += r.Dividends
		t.AdditionalCosts += r.AdditionalCosts
		t.NetResult += r.NetResult
		t.PercentageOfMarket += r.PercentageOfMarket
		t.PercentageOfPortfolio += r.PercentageOfPortfolio
	}
	t.DeltaVsPaidPct = share(t.DeltaVsPaid, t.PaidPrice)
	t.NetResultPct = share(t.NetResult, t.PaidPrice)
	return t
}

// Err returns all ticker failures joined, or nil.
func (w *Wallet) Err() error {
	errs := make([]error, len(w.Failures))
	for i, f := range w.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}
