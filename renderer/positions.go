package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/etnz/carteira"
)

// OpenPositionsMarkdown renders the open positions at their cost basis.
func OpenPositionsMarkdown(r *carteira.Reconciliation) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Open Positions\n\n")
	fmt.Fprintln(&b, "| Ticker | Market | Since | Quantity | Average Price | Average Price with Fees | Paid | Income |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|")
	for _, p := range r.Open {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			p.Ticker,
			p.Market,
			p.OpenDate,
			Quantity(p.Quantity()),
			Price(p.AveragePrice()),
			Price(p.AveragePriceWithFees()),
			Money(p.Quantity()*p.AveragePriceWithFees()),
			Money(p.Dividends+p.JCP),
		)
	}
	failuresMarkdown(&b, r.Failures)
	return b.String()
}

// ClosedPositionsMarkdown renders the round trips, in closing order.
func ClosedPositionsMarkdown(r *carteira.Reconciliation) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Closed Positions\n\n")
	fmt.Fprintln(&b, "| Ticker | # | Opened | Closed | Quantity | Mean Buy | Mean Sell | Fees | Tax | Gross Result | Net Result | Rentability |")
	fmt.Fprintln(&b, "|:---|---:|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|")

	var gross, net float64
	approximated := false
	for _, c := range r.Closed {
		rentability := Percent(c.Rentability)
		if c.FallbackApplied {
			rentability += "*"
			approximated = true
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			c.Ticker,
			c.Seq,
			c.OpenDate,
			c.CloseDate,
			Quantity(c.Sold),
			Price(c.MeanBuyPrice),
			Price(c.MeanSellPrice),
			Money(c.Fees),
			Money(c.IncomeTax),
			SignedMoney(c.GrossResult),
			SignedMoney(c.NetResult),
			rentability,
		)
		gross += c.GrossResult
		net += c.NetResult
	}
	fmt.Fprintf(&b, "| **Total** | | | | | | | | | **%s** | **%s** | |\n", SignedMoney(gross), SignedMoney(net))

	if approximated {
		fmt.Fprintf(&b, "\n\\* bought for free: rentability is computed over %s.\n", Money(carteira.RentabilityFallbackDivisor))
	}
	failuresMarkdown(&b, r.Failures)
	return b.String()
}

// SummaryMarkdown renders the totals of every market.
func SummaryMarkdown(r *carteira.Reconciliation) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Summary\n\n")
	fmt.Fprintln(&b, "| Market | Closed | Gross Result | Net Result | Fees | Income Tax | Dividends | JCP |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|")
	for _, s := range r.Summaries() {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s | %s |\n",
			s.Market,
			s.Closed,
			SignedMoney(s.GrossResult),
			SignedMoney(s.NetResult),
			Money(s.Fees),
			Money(s.IncomeTax),
			Money(s.Dividends),
			Money(s.JCP),
		)
	}
	t := r.Total()
	fmt.Fprintf(&b, "| **Total** | **%d** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** |\n",
		t.Closed,
		SignedMoney(t.GrossResult),
		SignedMoney(t.NetResult),
		Money(t.Fees),
		Money(t.IncomeTax),
		Money(t.Dividends),
		Money(t.JCP),
	)
	failuresMarkdown(&b, r.Failures)
	return b.String()
}

// failuresMarkdown lists the tickers left out of a report, if any.
func failuresMarkdown(w io.Writer, failures []*carteira.TickerError) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprint(w, "\n## Errors\n\n")
		for _, f := range failures {
			fmt.Fprintf(w, "- %s: %v\n", f.Ticker, f.Err)
		}
		return len(failures) > 0
	})
}
