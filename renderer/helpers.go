package renderer

import (
	"bytes"
	"io"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// notAvailable is printed for values that could not be computed.
const notAvailable = "n/a"

// Money formats an amount in reais, rounded to the cent.
func Money(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.BRL).Display()
}

// SignedMoney formats an amount with an explicit sign. Zero is printed as "-".
func SignedMoney(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	switch {
	case cents == 0:
		return "-"
	case cents > 0:
		return "+" + money.New(cents, money.BRL).Display()
	default:
		return money.New(cents, money.BRL).Display()
	}
}

// Percent formats a fraction as a percentage with two decimals.
func Percent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).Shift(2).StringFixed(2) + "%"
}

// Quantity formats a quantity, without trailing zeros.
func Quantity(v float64) string {
	if math.IsNaN(v) {
		return notAvailable
	}
	return decimal.NewFromFloat(v).Round(6).String()
}

// Price formats a unit price. Unit prices of fractional assets need more than
// two decimals.
func Price(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return notAvailable
	}
	return priceFormatter.Format(decimal.NewFromFloat(v).Shift(4).Round(0).IntPart())
}

// priceFormatter is the BRL formatter with four decimals.
var priceFormatter = func() *money.Formatter {
	f := *money.GetCurrency(money.BRL).Formatter()
	f.Fraction = 4
	return &f
}()
