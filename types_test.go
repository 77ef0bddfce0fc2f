package carteira

import (
	"errors"
	"testing"
)

func TestParseEnums(t *testing.T) {
	testCases := []struct {
		input   string
		parse   func(string) (string, error)
		want    string
		wantErr bool
	}{
		{input: "Stock", parse: parseMarketName, want: "stock"},
		{input: " fixed-income ", parse: parseMarketName, want: "fixed-income"},
		{input: "crypto", parse: parseMarketName, wantErr: true},
		{input: "SELL", parse: parseOperationName, want: "sell"},
		{input: "redeem", parse: parseOperationName, want: "redeem"},
		{input: "swap", parse: parseOperationName, wantErr: true},
		{input: "", parse: parseIndexerName, want: "none"},
		{input: "CDI", parse: parseIndexerName, want: "cdi"},
		{input: "igpm", parse: parseIndexerName, wantErr: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := tc.parse(tc.input)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("parse(%q) error = %v, want ErrInvalidArgument", tc.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse(%q) unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("parse(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func parseMarketName(s string) (string, error) {
	m, err := ParseMarket(s)
	return m.String(), err
}

func parseOperationName(s string) (string, error) {
	o, err := ParseOperation(s)
	return o.String(), err
}

func parseIndexerName(s string) (string, error) {
	i, err := ParseIndexerType(s)
	return i.String(), err
}

func TestIndexerType_Series(t *testing.T) {
	testCases := []struct {
		indexer IndexerType
		want    string
		wantOK  bool
	}{
		{NoIndexer, "", false},
		{Prefixed, "", false},
		{IPCA, "IPCA", true},
		{SELIC, "SELIC", true},
		{CDI, "CDI", true},
	}
	for _, tc := range testCases {
		got, ok := tc.indexer.Series()
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("%s.Series() = %q, %v, want %q, %v", tc.indexer, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestGroupOf(t *testing.T) {
	testCases := []struct {
		market Market
		want   MarketGroup
		wantOK bool
	}{
		{Stock, Equities, true},
		{ETF, Equities, true},
		{FII, Equities, true},
		{BDR, Equities, true},
		{FixedIncome, FixedIncomeGroup, true},
		{Treasury, TreasuryGroup, true},
		{Custody, 0, false},
	}
	for _, tc := range testCases {
		got, ok := GroupOf(tc.market)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("GroupOf(%s) = %v, %v, want %v, %v", tc.market, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestTransaction_Value(t *testing.T) {
	tx := Transaction{Quantity: 3, UnitPrice: 10}
	if got := tx.Value(); got != 30 {
		t.Errorf("Value() = %v, want 30", got)
	}
	tx.TotalPrice = 29.5 // broker rounding wins
	if got := tx.Value(); got != 29.5 {
		t.Errorf("Value() = %v, want 29.5", got)
	}
}

func TestTransaction_Validate(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr bool
	}{
		{name: "buy", tx: NewBuy(D("2024-01-02"), "PETR4", Stock, 1, 30, 0)},
		{name: "custody fee without ticker", tx: NewCharge(D("2024-01-02"), "", Custody, 10, 0)},
		{name: "stock without ticker", tx: NewBuy(D("2024-01-02"), "", Stock, 1, 30, 0), wantErr: true},
		{name: "no date", tx: Transaction{Ticker: "PETR4", Operation: Income, Dividends: 1}, wantErr: true},
		{name: "negative quantity", tx: NewBuy(D("2024-01-02"), "PETR4", Stock, -1, 30, 0), wantErr: true},
		{name: "zero quantity sell", tx: NewSell(D("2024-01-02"), "PETR4", Stock, 0, 30, 0), wantErr: true},
		{name: "zero quantity income", tx: NewIncome(D("2024-01-02"), "PETR4", Stock, 10, 0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.tx.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("Validate() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}
