package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira/indexer"
	"github.com/etnz/carteira/ratemath"
)

// IndexerMarkdown renders the monthly rates of a series and the value of one
// real invested at the start of the first month.
func IndexerMarkdown(s *indexer.Series) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Name)

	var periods []indexer.Period
	var rates []float64
	for p, r := range s.Values() {
		periods = append(periods, p)
		rates = append(rates, r)
	}
	if len(rates) == 0 {
		fmt.Fprintln(&b, "No data.")
		return b.String()
	}

	increments := ratemath.CumulativeValues(rates, 1, ratemath.Fraction)
	fmt.Fprintln(&b, "| Month | Rate | Interest | Accumulated | Value of R$1,00 |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	total := 1.0
	for i, p := range periods {
		total += increments[i]
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			p,
			Percent(rates[i]),
			Price(increments[i]),
			Percent(total-1),
			Price(total),
		)
	}
	return b.String()
}
