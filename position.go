package carteira

import (
	"github.com/etnz/carteira/date"
)

// OpenPosition is the still unmatched holding of a ticker: everything bought
// and sold since the ticker last went back to zero.
type OpenPosition struct {
	Ticker         string
	Market         Market
	Indexer        IndexerType
	ContractedRate float64
	DueDate        date.Date
	OpenDate       date.Date // date of the first unmatched trade

	Bought    float64 // quantity
	Sold      float64 // quantity
	BuyValue  float64
	SellValue float64
	BuyFees   float64
	SellFees  float64

	// Amounts attached to the position by non trade events.
	Charges   float64
	IncomeTax float64
	Dividends float64
	JCP       float64
}

// Quantity returns the net quantity held.
func (p OpenPosition) Quantity() float64 { return p.Bought - p.Sold }

// Fees returns all fees paid while the position was open.
func (p OpenPosition) Fees() float64 { return p.BuyFees + p.SellFees + p.Charges }

// AveragePrice returns the weighted average buy price, without fees.
func (p OpenPosition) AveragePrice() float64 {
	if p.Bought == 0 {
		return 0
	}
	return p.BuyValue / p.Bought
}

// AveragePriceWithFees returns the weighted average buy price with the buy
// fees folded in: the cost basis of a unit.
func (p OpenPosition) AveragePriceWithFees() float64 {
	if p.Bought == 0 {
		return 0
	}
	return (p.BuyValue + p.BuyFees) / p.Bought
}

// MeanSellPrice returns the weighted average sell price.
func (p OpenPosition) MeanSellPrice() float64 {
	if p.Sold == 0 {
		return 0
	}
	return p.SellValue / p.Sold
}

// isClosed reports whether bought and sold quantities match. A zero tolerance
// requires exact equality.
func (p OpenPosition) isClosed(tolerance float64) bool {
	if tolerance == 0 {
		return p.Bought == p.Sold
	}
	d := p.Bought - p.Sold
	if d < 0 {
		d = -d
	}
	return d <= tolerance
}

// ClosedPosition is a fully round-tripped holding: the quantity sold matched
// the quantity bought.
type ClosedPosition struct {
	Market    Market
	Ticker    string
	Seq       int // 1 for the first round trip of the ticker, then 2, ...
	OpenDate  date.Date
	CloseDate date.Date

	Bought        float64
	MeanBuyPrice  float64
	BuyValue      float64
	Sold          float64
	MeanSellPrice float64
	SellValue     float64

	Fees        float64
	IncomeTax   float64
	Dividends   float64
	JCP         float64
	GrossResult float64 // SellValue - BuyValue
	NetResult   float64 // GrossResult - Fees - IncomeTax
	Rentability float64 // NetResult / (BuyValue + Fees)

	// FallbackApplied is true when BuyValue + Fees was zero and Rentability
	// was computed with RentabilityFallbackDivisor instead.
	FallbackApplied bool
}

// close computes the closed position of an open position whose quantities
// match.
func (p OpenPosition) close(seq int, on date.Date) ClosedPosition {
	c := ClosedPosition{
		Market:        p.Market,
		Ticker:        p.Ticker,
		Seq:           seq,
		OpenDate:      p.OpenDate,
		CloseDate:     on,
		Bought:        p.Bought,
		MeanBuyPrice:  p.AveragePrice(),
		BuyValue:      p.BuyValue,
		Sold:          p.Sold,
		MeanSellPrice: p.MeanSellPrice(),
		SellValue:     p.SellValue,
		Fees:          p.Fees(),
		IncomeTax:     p.IncomeTax,
		Dividends:     p.Dividends,
		JCP:           p.JCP,
	}
	c.GrossResult = c.SellValue - c.BuyValue
	c.NetResult = c.GrossResult - c.Fees - c.IncomeTax

	divisor := c.BuyValue + c.Fees
	if divisor == 0 {
		divisor = RentabilityFallbackDivisor
		c.FallbackApplied = true
	}
	c.Rentability = c.NetResult / divisor
	return c
}
