package carteira

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/etnz/carteira/date"
	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// decimalOf converts an amount to its shortest exact decimal representation.
func decimalOf(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// transactionRecord is the JSON representation of a Transaction in the ledger
// file. Amounts are read as decimals so that "10.15" and 10.15 are both
// accepted.
type transactionRecord struct {
	Ticker         string          `json:"ticker"`
	Market         Market          `json:"market"`
	Operation      Operation       `json:"operation"`
	Date           date.Date       `json:"date"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	Fees           decimal.Decimal `json:"fees"`
	IncomeTax      decimal.Decimal `json:"incomeTax"`
	Dividends      decimal.Decimal `json:"dividends"`
	JCP            decimal.Decimal `json:"jcp"`
	ContractedRate decimal.Decimal `json:"contractedRate"`
	Indexer        IndexerType     `json:"indexer"`
	DueDate        date.Date       `json:"dueDate"`
	Notes          string          `json:"notes"`
}

func (r transactionRecord) Transaction() Transaction {
	return Transaction{
		Ticker:         NormalizeTicker(r.Ticker),
		Market:         r.Market,
		Operation:      r.Operation,
		Date:           r.Date,
		Quantity:       r.Quantity.InexactFloat64(),
		UnitPrice:      r.UnitPrice.InexactFloat64(),
		TotalPrice:     r.TotalPrice.InexactFloat64(),
		Fees:           r.Fees.InexactFloat64(),
		IncomeTax:      r.IncomeTax.InexactFloat64(),
		Dividends:      r.Dividends.InexactFloat64(),
		JCP:            r.JCP.InexactFloat64(),
		ContractedRate: r.ContractedRate.InexactFloat64(),
		Indexer:        r.Indexer,
		DueDate:        r.DueDate,
		Notes:          r.Notes,
	}
}

// DecodeLedger decodes transactions from a stream of JSONL data, one
// transaction per line, and returns a sorted Ledger.
//
// Every transaction is validated. The first invalid line aborts decoding.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue
		}

		var rec transactionRecord
		if err := json.Unmarshal(lineBytes, &rec); err != nil {
			return nil, fmt.Errorf("line %d: could not decode transaction %q: %w", line, string(lineBytes), err)
		}
		tx := rec.Transaction()
		if err := tx.Validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ledger.transactions = append(ledger.transactions, tx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	ledger.stableSort()
	return ledger, nil
}

// MarshalJSON writes the transaction with a stable key order, omitting the
// fields that do not apply.
func (tx Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("date", tx.Date)
	w.Append("operation", tx.Operation)
	w.Append("market", tx.Market)
	w.Optional("ticker", tx.Ticker)
	w.Amount("quantity", tx.Quantity, tx.Operation.IsTrade())
	w.Amount("unitPrice", tx.UnitPrice, false)
	w.Amount("totalPrice", tx.TotalPrice, false)
	w.Amount("fees", tx.Fees, false)
	w.Amount("incomeTax", tx.IncomeTax, false)
	w.Amount("dividends", tx.Dividends, false)
	w.Amount("jcp", tx.JCP, false)
	if tx.Indexer != NoIndexer {
		w.Append("indexer", tx.Indexer)
	}
	w.Amount("contractedRate", tx.ContractedRate, false)
	w.Optional("dueDate", tx.DueDate)
	w.Optional("notes", tx.Notes)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a transaction in the ledger format.
func (tx *Transaction) UnmarshalJSON(data []byte) error {
	var rec transactionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*tx = rec.Transaction()
	return nil
}

// EncodeTransaction marshals a single transaction to JSON and writes it to the
// writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLedger persists the ledger in JSONL format, in chronological order.
// Transactions on the same day keep their relative order.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()
	for _, tx := range ledger.transactions {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}
