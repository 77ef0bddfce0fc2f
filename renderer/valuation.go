package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/ratemath"
)

// ValuationMarkdown renders the value of fixed-income lots on a date.
func ValuationMarkdown(values []carteira.PositionValue, failures []*carteira.TickerError, on date.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Fixed Income on %s\n\n", on)
	fmt.Fprintln(&b, "| Ticker | Indexer | Rate | Bought | Valued | Buy Price | Value | Interest | Return |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|:---|---:|---:|---:|---:|")

	var buy, value float64
	for _, v := range values {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			v.Ticker,
			v.Lot.Indexer,
			contractedRate(v.Lot),
			v.Lot.Initial,
			v.On,
			Money(v.Lot.BuyPrice),
			Money(v.Value),
			SignedMoney(v.Value-v.Lot.BuyPrice),
			rateOfReturn(v.Lot.BuyPrice, v.Value),
		)
		buy += v.Lot.BuyPrice
		value += v.Value
	}
	fmt.Fprintf(&b, "| **Total** | | | | | **%s** | **%s** | **%s** | **%s** |\n",
		Money(buy), Money(value), SignedMoney(value-buy), rateOfReturn(buy, value))

	failuresMarkdown(&b, failures)
	return b.String()
}

// contractedRate prints a CDI or SELIC multiplier as a percentage of the
// indexer, and any other rate as a yearly percentage.
func contractedRate(lot carteira.FixedIncomeLot) string {
	switch lot.Indexer {
	case carteira.CDI, carteira.SELIC:
		return Percent(lot.Rate) + " " + strings.ToUpper(lot.Indexer.String())
	default:
		return Percent(lot.Rate) + " a.a."
	}
}

func rateOfReturn(initial, final float64) string {
	r, err := ratemath.RateFromValues(initial, final, ratemath.Fraction)
	if err != nil {
		return notAvailable
	}
	return Percent(r)
}
