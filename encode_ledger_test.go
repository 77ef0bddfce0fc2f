package carteira

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/etnz/carteira/date"
)

func TestDecodeLedger(t *testing.T) {
	jsonlStream := `
{"date":"2024-03-04","operation":"buy","market":"stock","ticker":"PETR4","quantity":100,"unitPrice":"36.50","fees":4.9}
{"date":"2024-01-10","operation":"buy","market":"fixed-income","ticker":"CDB-XP-2027","quantity":1,"unitPrice":1000,"indexer":"cdi","contractedRate":1.1,"dueDate":"2027-01-10"}

{"date":"2024-03-04","operation":"income","market":"stock","ticker":"PETR4","dividends":12.3,"jcp":4}
{"date":"2024-06-30","operation":"charge","market":"custody","fees":10}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if ledger.Len() != 4 {
		t.Fatalf("DecodeLedger() decoded wrong number of transactions. Got: %d, want: %d", ledger.Len(), 4)
	}

	want := []Transaction{
		{Ticker: "CDB-XP-2027", Market: FixedIncome, Operation: Buy, Date: date.New(2024, time.January, 10), Quantity: 1, UnitPrice: 1000, Indexer: CDI, ContractedRate: 1.1, DueDate: date.New(2027, time.January, 10)},
		{Ticker: "PETR4", Market: Stock, Operation: Buy, Date: date.New(2024, time.March, 4), Quantity: 100, UnitPrice: 36.5, Fees: 4.9},
		{Ticker: "PETR4", Market: Stock, Operation: Income, Date: date.New(2024, time.March, 4), Dividends: 12.3, JCP: 4},
		{Market: Custody, Operation: Charge, Date: date.New(2024, time.June, 30), Fees: 10},
	}
	for i, tx := range ledger.Transactions() {
		if tx != want[i] {
			t.Errorf("Transaction %d is incorrect.\nGot:  %+v\nWant: %+v", i, tx, want[i])
		}
	}
}

func TestDecodeLedger_NormalizesTicker(t *testing.T) {
	jsonlStream := `{"date":"2024-03-04","operation":"buy","market":"stock","ticker":" petr4 ","quantity":100,"unitPrice":36.5}
{"date":"2024-03-05","operation":"sell","market":"stock","ticker":"PETR4","quantity":100,"unitPrice":37}
`
	ledger, err := DecodeLedger(strings.NewReader(jsonlStream))
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	if got, want := ledger.Tickers(), []string{"PETR4"}; len(got) != 1 || got[0] != want[0] {
		t.Errorf("Tickers() = %v, want %v", got, want)
	}
}

func TestNormalizeTicker(t *testing.T) {
	testCases := []struct{ in, want string }{
		{"PETR4", "PETR4"},
		{"petr4", "PETR4"},
		{"  Vale3\t", "VALE3"},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := NormalizeTicker(tc.in); got != tc.want {
			t.Errorf("NormalizeTicker(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeLedger_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		invalid bool
	}{
		{name: "malformed json", input: `{"date":"2024-01-01",`},
		{name: "unknown operation", input: `{"date":"2024-01-01","operation":"swap","ticker":"A","quantity":1}`, invalid: true},
		{name: "unknown market", input: `{"date":"2024-01-01","operation":"buy","market":"crypto","ticker":"A","quantity":1}`, invalid: true},
		{name: "missing ticker", input: `{"date":"2024-01-01","operation":"buy","quantity":1}`, invalid: true},
		{name: "missing date", input: `{"operation":"buy","ticker":"A","quantity":1}`, invalid: true},
		{name: "zero quantity trade", input: `{"date":"2024-01-01","operation":"sell","ticker":"A"}`, invalid: true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeLedger(strings.NewReader(tc.input))
			if err == nil {
				t.Fatal("DecodeLedger() expected an error, got nil")
			}
			if tc.invalid && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("DecodeLedger() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestEncodeLedger(t *testing.T) {
	// tx2 and tx3 have the same date, their relative order must be preserved.
	tx1 := NewBuy(date.New(2025, time.August, 3), "VALE3", Stock, 10, 60, 0)
	tx2 := NewCharge(date.New(2025, time.August, 1), "", Custody, 10, 0)
	tx3 := NewSell(date.New(2025, time.August, 1), "ITUB4", Stock, 5, 30.25, 1.5)

	ledger := &Ledger{transactions: []Transaction{tx1, tx2, tx3}}

	var buffer bytes.Buffer
	if err := EncodeLedger(&buffer, ledger); err != nil {
		t.Fatalf("EncodeLedger() returned an unexpected error: %v", err)
	}

	want := `{"date":"2025-08-01","operation":"charge","market":"custody","fees":10}
{"date":"2025-08-01","operation":"sell","market":"stock","ticker":"ITUB4","quantity":5,"unitPrice":30.25,"totalPrice":151.25,"fees":1.5}
{"date":"2025-08-03","operation":"buy","market":"stock","ticker":"VALE3","quantity":10,"unitPrice":60,"totalPrice":600}
`
	if got := buffer.String(); got != want {
		t.Errorf("EncodeLedger() produced incorrect output.\nGot:\n%s\nWant:\n%s", got, want)
	}
}

func TestEncodeDecodeLedger_FixedIncome(t *testing.T) {
	tx := NewFixedIncomeBuy(date.New(2024, time.January, 2), "LCA-BB", FixedIncome, 2, 500, IPCA, 0.065, date.New(2026, time.January, 2))
	tx.Notes = "LCA isenta"

	var buffer bytes.Buffer
	if err := EncodeLedger(&buffer, NewLedger(tx)); err != nil {
		t.Fatalf("EncodeLedger() returned an unexpected error: %v", err)
	}
	ledger, err := DecodeLedger(&buffer)
	if err != nil {
		t.Fatalf("DecodeLedger() returned an unexpected error: %v", err)
	}
	for _, got := range ledger.Transactions() {
		if got != tx {
			t.Errorf("got %+v, want %+v", got, tx)
		}
	}
}
