package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/google/subcommands"
)

// appendTransaction validates tx and appends it to the ledger file.
func appendTransaction(tx carteira.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	if err := carteira.EncodeTransaction(f, tx); err != nil {
		return fmt.Errorf("could not write transaction: %w", err)
	}
	logger().Info().Str("ticker", tx.Ticker).Stringer("operation", tx.Operation).Msg("transaction recorded")
	return nil
}

// txFlags are the flags shared by every transaction command.
type txFlags struct {
	date   string
	ticker string
	market string
	notes  string
}

func (p *txFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Transaction date (default to today)")
	f.StringVar(&p.ticker, "s", "", "Ticker")
	f.StringVar(&p.market, "m", "stock", "Market: stock, etf, fii, bdr, fixed-income, treasury or custody")
	f.StringVar(&p.notes, "notes", "", "Free text")
}

func (p *txFlags) parse() (date.Date, carteira.Market, error) {
	on := date.Today()
	if p.date != "" {
		var err error
		if on, err = date.Parse(p.date); err != nil {
			return date.Date{}, 0, err
		}
	}
	m, err := carteira.ParseMarket(p.market)
	if err != nil {
		return date.Date{}, 0, err
	}
	return on, m, nil
}

type buyCmd struct {
	txFlags
	quantity float64
	price    float64
	fees     float64
	indexer  string
	rate     float64
	due      string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record the purchase of an asset" }
func (*buyCmd) Usage() string {
	return `cart buy -d <date> -s <ticker> -q <quantity> -p <price> [-fees <fees>] [-m <market>]
cart buy -m fixed-income -s <ticker> -q <quantity> -p <price> -indexer <indexer> -rate <rate> [-due <date>]

  Appends a buy to the ledger.
`
}

func (p *buyCmd) SetFlags(f *flag.FlagSet) {
	p.txFlags.set(f)
	f.Float64Var(&p.quantity, "q", 0, "Quantity")
	f.Float64Var(&p.price, "p", 0, "Unit price")
	f.Float64Var(&p.fees, "fees", 0, "Brokerage fees")
	f.StringVar(&p.indexer, "indexer", "", "Fixed income indexer: prefixed, ipca, cdi or selic")
	f.Float64Var(&p.rate, "rate", 0, "Contracted rate, as a fraction (1.1 for 110% of CDI)")
	f.StringVar(&p.due, "due", "", "Due date")
}

func (p *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, market, err := p.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := carteira.NewBuy(on, carteira.NormalizeTicker(p.ticker), market, p.quantity, p.price, p.fees)
	if tx.Indexer, err = carteira.ParseIndexerType(p.indexer); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx.ContractedRate = p.rate
	if p.due != "" {
		if tx.DueDate, err = date.Parse(p.due); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing due date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	tx.Notes = p.notes

	if err := appendTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type sellCmd struct {
	txFlags
	quantity float64
	price    float64
	fees     float64
	tax      float64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record the sale of an asset" }
func (*sellCmd) Usage() string {
	return `cart sell -d <date> -s <ticker> -q <quantity> -p <price> [-fees <fees>] [-tax <tax>]

  Appends a sell to the ledger. The ledger is not checked: use 'cart open' to
  see whether it still reconciles.
`
}

func (p *sellCmd) SetFlags(f *flag.FlagSet) {
	p.txFlags.set(f)
	f.Float64Var(&p.quantity, "q", 0, "Quantity")
	f.Float64Var(&p.price, "p", 0, "Unit price")
	f.Float64Var(&p.fees, "fees", 0, "Brokerage fees")
	f.Float64Var(&p.tax, "tax", 0, "Income tax withheld")
}

func (p *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, market, err := p.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := carteira.NewSell(on, carteira.NormalizeTicker(p.ticker), market, p.quantity, p.price, p.fees)
	tx.IncomeTax = p.tax
	tx.Notes = p.notes

	if err := appendTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type incomeCmd struct {
	txFlags
	dividends float64
	jcp       float64
}

func (*incomeCmd) Name() string     { return "income" }
func (*incomeCmd) Synopsis() string { return "record dividends or interest on equity" }
func (*incomeCmd) Usage() string {
	return `cart income -d <date> -s <ticker> [-div <amount>] [-jcp <amount>]
`
}

func (p *incomeCmd) SetFlags(f *flag.FlagSet) {
	p.txFlags.set(f)
	f.Float64Var(&p.dividends, "div", 0, "Dividends received")
	f.Float64Var(&p.jcp, "jcp", 0, "Interest on equity received")
}

func (p *incomeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, market, err := p.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := carteira.NewIncome(on, carteira.NormalizeTicker(p.ticker), market, p.dividends, p.jcp)
	tx.Notes = p.notes
	if err := appendTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type chargeCmd struct {
	txFlags
	fees float64
	tax  float64
}

func (*chargeCmd) Name() string     { return "charge" }
func (*chargeCmd) Synopsis() string { return "record a fee or tax not attached to a trade" }
func (*chargeCmd) Usage() string {
	return `cart charge -d <date> [-s <ticker>] [-m custody] [-fees <amount>] [-tax <amount>]
`
}

func (p *chargeCmd) SetFlags(f *flag.FlagSet) {
	p.txFlags.set(f)
	f.Float64Var(&p.fees, "fees", 0, "Fees charged")
	f.Float64Var(&p.tax, "tax", 0, "Income tax charged")
}

func (p *chargeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, market, err := p.parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	tx := carteira.NewCharge(on, carteira.NormalizeTicker(p.ticker), market, p.fees, p.tax)
	tx.Notes = p.notes
	if err := appendTransaction(tx); err != nil {
		fmt.Fprintf(os.Stderr, "Error adding transaction: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cart fmt

  Validates and formats the ledger file. This command reads all transactions,
  validates them, sorts them by date, and writes them back in a canonical JSONL
  format.
`
}
func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := EncodeLedger(ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting ledger %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	logger().Info().Str("file", *ledgerFile).Int("transactions", ledger.Len()).Msg("ledger formatted")
	return subcommands.ExitSuccess
}
