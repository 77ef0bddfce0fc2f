package renderer

import (
	"math"
	"strings"
	"testing"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/indexer"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// parseTables returns every table of a markdown document as rows of cells,
// the header row first.
func parseTables(t *testing.T, md string) [][][]string {
	t.Helper()
	source := []byte(md)
	root := goldmark.New(goldmark.WithExtensions(extension.Table)).Parser().Parse(text.NewReader(source))

	var tables [][][]string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case east.KindTable:
			tables = append(tables, nil)
		case east.KindTableHeader, east.KindTableRow:
			var row []string
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				row = append(row, inlineText(c, source))
			}
			tables[len(tables)-1] = append(tables[len(tables)-1], row)
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return tables
}

// inlineText concatenates the text of all inline descendants of n.
func inlineText(n ast.Node, source []byte) string {
	var b strings.Builder
	ast.Walk(n, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := n.(type) {
		case *ast.Text:
			b.Write(t.Value(source))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func TestFormatters(t *testing.T) {
	testCases := []struct {
		name string
		got  string
		want string
	}{
		{"money", Money(1234.565), "R$1.234,57"},
		{"money zero", Money(0), "R$0,00"},
		{"money negative", Money(-12.3), "-R$12,30"},
		{"money nan", Money(math.NaN()), "n/a"},
		{"signed positive", SignedMoney(10), "+R$10,00"},
		{"signed negative", SignedMoney(-0.5), "-R$0,50"},
		{"signed zero", SignedMoney(0.001), "-"},
		{"percent", Percent(0.12345), "12.35%"},
		{"percent negative", Percent(-0.05), "-5.00%"},
		{"percent nan", Percent(math.NaN()), "n/a"},
		{"quantity", Quantity(100), "100"},
		{"quantity fraction", Quantity(0.3000000000000001), "0.3"},
		{"price", Price(36.5), "R$36,5000"},
		{"price small", Price(0.00012), "R$0,0001"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %q, want %q", tc.got, tc.want)
			}
		})
	}
}

func testReconciliation() *carteira.Reconciliation {
	d := date.MustParse
	ledger := carteira.NewLedger(
		carteira.NewBuy(d("2024-01-10"), "PETR4", carteira.Stock, 100, 30, 5),
		carteira.NewSell(d("2024-03-01"), "PETR4", carteira.Stock, 100, 32, 5),
		carteira.NewBuy(d("2024-01-15"), "HGLG11", carteira.FII, 10, 160, 0),
		carteira.NewIncome(d("2024-02-15"), "HGLG11", carteira.FII, 11, 0),
		carteira.NewSell(d("2024-01-06"), "WEGE3", carteira.Stock, 20, 41, 0),
	)
	return carteira.Reconcile(ledger, carteira.ReconcileOptions{})
}

func TestOpenPositionsMarkdown(t *testing.T) {
	md := OpenPositionsMarkdown(testReconciliation())

	tables := parseTables(t, md)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), md)
	}
	rows := tables[0]
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want header and HGLG11:\n%s", len(rows), md)
	}
	want := []string{"HGLG11", "fii", "2024-01-15", "10", "R$160,0000", "R$160,0000", "R$1.600,00", "R$11,00"}
	for i, cell := range want {
		if rows[1][i] != cell {
			t.Errorf("cell %d (%s) = %q, want %q", i, rows[0][i], rows[1][i], cell)
		}
	}
	if !strings.Contains(md, "## Errors") || !strings.Contains(md, "WEGE3") {
		t.Errorf("failures not reported:\n%s", md)
	}
}

func TestClosedPositionsMarkdown(t *testing.T) {
	md := ClosedPositionsMarkdown(testReconciliation())

	tables := parseTables(t, md)
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("want one table with header, PETR4 and total:\n%s", md)
	}
	petr := tables[0][1]
	if petr[0] != "PETR4" || petr[9] != "+R$200,00" || petr[10] != "+R$190,00" {
		t.Errorf("PETR4 row = %v", petr)
	}
	total := tables[0][2]
	if total[0] != "Total" || total[10] != "+R$190,00" {
		t.Errorf("total row = %v", total)
	}
	if strings.Contains(md, "bought for free") {
		t.Errorf("unexpected fallback note:\n%s", md)
	}
}

func TestClosedPositionsMarkdown_Fallback(t *testing.T) {
	d := date.MustParse
	ledger := carteira.NewLedger(
		carteira.NewBuy(d("2024-01-10"), "BONUS", carteira.Stock, 10, 0, 0),
		carteira.NewSell(d("2024-02-10"), "BONUS", carteira.Stock, 10, 5, 0),
	)
	md := ClosedPositionsMarkdown(carteira.Reconcile(ledger, carteira.ReconcileOptions{}))
	if !strings.Contains(md, "bought for free") {
		t.Errorf("missing fallback note:\n%s", md)
	}
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(testReconciliation())

	tables := parseTables(t, md)
	if len(tables) != 1 {
		t.Fatalf("got %d tables, want 1:\n%s", len(tables), md)
	}
	rows := tables[0]
	// header, stock, fii, total
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4:\n%s", len(rows), md)
	}
	if rows[1][0] != "stock" || rows[2][0] != "fii" || rows[3][0] != "Total" {
		t.Errorf("markets = %s, %s, %s", rows[1][0], rows[2][0], rows[3][0])
	}
	if rows[3][4] != "R$10,00" || rows[3][6] != "R$11,00" {
		t.Errorf("total row = %v", rows[3])
	}
}

func TestWalletMarkdown(t *testing.T) {
	opens := []carteira.OpenPosition{
		{Ticker: "VALE3", Market: carteira.Stock, Bought: 10, BuyValue: 500},
		{Ticker: "BOVA11", Market: carteira.ETF, Bought: 4, BuyValue: 400},
		{Ticker: "CDB-CDI", Market: carteira.FixedIncome, Indexer: carteira.CDI, ContractedRate: 1.1, Bought: 1, BuyValue: 1000},
		{Ticker: "OIBR3", Market: carteira.Stock, Bought: 1, BuyValue: 1},
	}
	w := carteira.BuildWallet(opens, carteira.WalletInput{
		Quotes:     map[string]float64{"VALE3": 60, "BOVA11": 100, "CDB-CDI": 1000},
		Benchmarks: map[carteira.IndexerType]float64{carteira.CDI: 0.1},
	})

	md := WalletMarkdown(w, date.MustParse("2024-06-28"))

	tables := parseTables(t, md)
	// equities, fixed income, allocation
	if len(tables) != 3 {
		t.Fatalf("got %d tables, want 3:\n%s", len(tables), md)
	}
	equities := tables[0]
	if len(equities) != 4 {
		t.Fatalf("equities has %d rows, want 4:\n%s", len(equities), md)
	}
	if equities[1][0] != "BOVA11" || equities[1][12] != "40.00%" || equities[2][12] != "60.00%" {
		t.Errorf("equities rows = %v", equities[1:3])
	}
	if total := equities[3]; total[4] != "R$1.000,00" || total[12] != "100.00%" {
		t.Errorf("equities total = %v", total)
	}
	if got := tables[1][1][11]; got != "110.00% CDI (11.00%)" {
		t.Errorf("fixed income rate = %q", got)
	}
	allocation := tables[2]
	if allocation[1][0] != "Equities" || allocation[1][2] != "50.00%" {
		t.Errorf("allocation = %v", allocation)
	}
	if !strings.Contains(md, "OIBR3") {
		t.Errorf("missing quote not reported:\n%s", md)
	}
}

func TestValuationMarkdown(t *testing.T) {
	d := date.MustParse
	values := []carteira.PositionValue{
		{
			Ticker: "CDB-PRE",
			Lot:    carteira.FixedIncomeLot{Quantity: 1, BuyPrice: 1000, Initial: d("2000-01-01"), Indexer: carteira.Prefixed, Rate: 0.12},
			On:     d("2000-12-31"),
			Value:  1120,
		},
	}
	md := ValuationMarkdown(values, nil, d("2000-12-31"))

	tables := parseTables(t, md)
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("want one table with header, a lot and total:\n%s", md)
	}
	row := tables[0][1]
	want := []string{"CDB-PRE", "prefixed", "12.00% a.a.", "2000-01-01", "2000-12-31", "R$1.000,00", "R$1.120,00", "+R$120,00", "12.00%"}
	for i, cell := range want {
		if row[i] != cell {
			t.Errorf("cell %d (%s) = %q, want %q", i, tables[0][0][i], row[i], cell)
		}
	}
	if strings.Contains(md, "## Errors") {
		t.Errorf("unexpected errors section:\n%s", md)
	}
}

func TestIndexerMarkdown(t *testing.T) {
	s := indexer.NewSeries("CDI").Append(2024, 1, 0.01).Append(2024, 2, 0.01)
	md := IndexerMarkdown(s)

	tables := parseTables(t, md)
	if len(tables) != 1 || len(tables[0]) != 3 {
		t.Fatalf("want one table with two months:\n%s", md)
	}
	if got := tables[0][2]; got[0] != "2024-02" || got[3] != "2.01%" || got[4] != "R$1,0201" {
		t.Errorf("february row = %v", got)
	}

	if md := IndexerMarkdown(indexer.NewSeries("IPCA")); !strings.Contains(md, "No data.") {
		t.Errorf("empty series:\n%s", md)
	}
}
