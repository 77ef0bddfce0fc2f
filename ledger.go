package carteira

import (
	"iter"
	"slices"
	"sort"
)

// Ledger represents a list of transactions.
//
// In a Ledger transactions are always in chronological order. Transactions on
// the same day keep their insertion order.
type Ledger struct {
	transactions []Transaction
}

// NewLedger creates a ledger holding txs.
func NewLedger(txs ...Transaction) *Ledger {
	l := &Ledger{transactions: make([]Transaction, 0, len(txs))}
	l.Append(txs...)
	return l
}

// Append adds transactions and keeps the ledger sorted.
func (l *Ledger) Append(txs ...Transaction) {
	l.transactions = append(l.transactions, txs...)
	l.stableSort()
}

// stableSort sorts the transactions by date, keeping same-day order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.transactions, func(i, j int) bool {
		return l.transactions[i].Date.Before(l.transactions[j].Date)
	})
}

// Len returns the number of transactions.
func (l *Ledger) Len() int { return len(l.transactions) }

// Transactions returns an iterator over all transactions in chronological order.
func (l *Ledger) Transactions() iter.Seq2[int, Transaction] {
	return slices.All(l.transactions)
}

// Tickers returns the tickers found in the ledger, sorted.
func (l *Ledger) Tickers() []string {
	seen := make(map[string]struct{})
	var tickers []string
	for _, tx := range l.transactions {
		if _, ok := seen[tx.Ticker]; ok {
			continue
		}
		seen[tx.Ticker] = struct{}{}
		tickers = append(tickers, tx.Ticker)
	}
	slices.Sort(tickers)
	return tickers
}

// ByTicker partitions the ledger per ticker. Each partition is still in
// chronological order.
func (l *Ledger) ByTicker() map[string][]Transaction {
	grouped := make(map[string][]Transaction)
	for _, tx := range l.transactions {
		grouped[tx.Ticker] = append(grouped[tx.Ticker], tx)
	}
	return grouped
}
