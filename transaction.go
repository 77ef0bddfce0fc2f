package carteira

import (
	"fmt"
	"strings"

	"github.com/etnz/carteira/date"
)

// Transaction is a single immutable ledger record, as reported by the broker.
//
// Amounts are in the account currency. A zero ContractedRate or DueDate means
// the field does not apply.
type Transaction struct {
	Ticker    string
	Market    Market
	Operation Operation
	Date      date.Date

	Quantity   float64
	UnitPrice  float64
	TotalPrice float64
	Fees       float64
	IncomeTax  float64
	Dividends  float64
	JCP        float64 // interest on equity

	ContractedRate float64 // annual fraction, or CDI multiplier (1.30 = 130% of CDI)
	Indexer        IndexerType
	DueDate        date.Date
	Notes          string
}

// NormalizeTicker returns the canonical form of a ticker: trimmed and upper case.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NewBuy creates a buy of quantity units at unitPrice.
func NewBuy(on date.Date, ticker string, market Market, quantity, unitPrice, fees float64) Transaction {
	return Transaction{
		Ticker:     ticker,
		Market:     market,
		Operation:  Buy,
		Date:       on,
		Quantity:   quantity,
		UnitPrice:  unitPrice,
		TotalPrice: quantity * unitPrice,
		Fees:       fees,
	}
}

// NewSell creates a sell of quantity units at unitPrice.
func NewSell(on date.Date, ticker string, market Market, quantity, unitPrice, fees float64) Transaction {
	tx := NewBuy(on, ticker, market, quantity, unitPrice, fees)
	tx.Operation = Sell
	return tx
}

// NewIncome creates an income event paying dividends and interest on equity.
func NewIncome(on date.Date, ticker string, market Market, dividends, jcp float64) Transaction {
	return Transaction{
		Ticker:    ticker,
		Market:    market,
		Operation: Income,
		Date:      on,
		Dividends: dividends,
		JCP:       jcp,
	}
}

// NewCharge creates a standalone fee, like a custody fee.
func NewCharge(on date.Date, ticker string, market Market, fees, incomeTax float64) Transaction {
	return Transaction{
		Ticker:    ticker,
		Market:    market,
		Operation: Charge,
		Date:      on,
		Fees:      fees,
		IncomeTax: incomeTax,
	}
}

// NewFixedIncomeBuy creates the purchase of a fixed-income asset.
func NewFixedIncomeBuy(on date.Date, ticker string, market Market, quantity, unitPrice float64, indexer IndexerType, rate float64, due date.Date) Transaction {
	tx := NewBuy(on, ticker, market, quantity, unitPrice, 0)
	tx.Indexer = indexer
	tx.ContractedRate = rate
	tx.DueDate = due
	return tx
}

// Value returns the total price of the transaction, falling back to
// quantity times unit price when the broker did not report it.
func (tx Transaction) Value() float64 {
	if tx.TotalPrice != 0 {
		return tx.TotalPrice
	}
	return tx.Quantity * tx.UnitPrice
}

// Validate checks the record fields that the matcher relies upon.
func (tx Transaction) Validate() error {
	if tx.Ticker == "" && tx.Market != Custody {
		return fmt.Errorf("%s on %s: missing ticker: %w", tx.Operation, tx.Date, ErrInvalidArgument)
	}
	if tx.Date.IsZero() {
		return fmt.Errorf("%s %s: missing date: %w", tx.Operation, tx.Ticker, ErrInvalidArgument)
	}
	if tx.Quantity < 0 {
		return fmt.Errorf("%s %s on %s: negative quantity %v: %w", tx.Operation, tx.Ticker, tx.Date, tx.Quantity, ErrInvalidArgument)
	}
	if tx.Operation.IsTrade() && tx.Quantity == 0 {
		return fmt.Errorf("%s %s on %s: zero quantity: %w", tx.Operation, tx.Ticker, tx.Date, ErrInvalidArgument)
	}
	return nil
}
