package renderer

import (
	"fmt"
	"math"
	"strings"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
)

// WalletMarkdown renders the wallet, one table per market group.
func WalletMarkdown(w *carteira.Wallet, on date.Date) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallet on %s\n", on)

	for _, g := range w.Groups() {
		rows := w.Group(g)
		fmt.Fprintf(&b, "\n## %s\n\n", titleCase(g.String()))
		fmt.Fprintln(&b, "| Ticker | Quantity | Paid | Quote | Market Value | Delta | Delta % | Income | Costs | Net Result | Net % | Rate | Allocation |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|---:|")
		for _, r := range rows {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
				r.Ticker,
				Quantity(r.Quantity),
				Money(r.PaidPrice),
				Price(r.CurrentQuote),
				Money(r.MarketValue),
				SignedMoney(r.DeltaVsPaid),
				Percent(r.DeltaVsPaidPct),
				Money(r.Dividends),
				Money(r.AdditionalCosts),
				SignedMoney(r.NetResult),
				Percent(r.NetResultPct),
				rate(r),
				Percent(r.PercentageOfMarket),
			)
		}
		t := carteira.SumRows(rows)
		fmt.Fprintf(&b, "| **Total** | | **%s** | | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | **%s** | | **%s** |\n",
			Money(t.PaidPrice),
			Money(t.MarketValue),
			SignedMoney(t.DeltaVsPaid),
			Percent(t.DeltaVsPaidPct),
			Money(t.Dividends),
			Money(t.AdditionalCosts),
			SignedMoney(t.NetResult),
			Percent(t.NetResultPct),
			Percent(t.PercentageOfMarket),
		)
	}

	if len(w.Rows) > 0 {
		fmt.Fprint(&b, "\n## Allocation\n\n")
		fmt.Fprintln(&b, "| Group | Market Value | Portfolio % |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, g := range w.Groups() {
			t := carteira.SumRows(w.Group(g))
			fmt.Fprintf(&b, "| %s | %s | %s |\n", titleCase(g.String()), Money(t.MarketValue), Percent(t.PercentageOfPortfolio))
		}
	}
	failuresMarkdown(&b, w.Failures)
	return b.String()
}

// rate prints the adjusted rate next to the contracted one, or the yield of
// equities.
func rate(r carteira.WalletRow) string {
	switch r.Indexer {
	case carteira.NoIndexer:
		if r.Yield == 0 {
			return "-"
		}
		return Percent(r.Yield)
	case carteira.Prefixed:
		return Percent(r.ContractedRate)
	case carteira.IPCA:
		return fmt.Sprintf("IPCA+%s (%s)", Percent(r.ContractedRate), adjusted(r.AdjustedRate))
	default:
		return fmt.Sprintf("%s %s (%s)", Percent(r.ContractedRate), strings.ToUpper(r.Indexer.String()), adjusted(r.AdjustedRate))
	}
}

func adjusted(v float64) string {
	if math.IsNaN(v) {
		return "?"
	}
	return Percent(v)
}

// titleCase upper cases the first letter of s.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
