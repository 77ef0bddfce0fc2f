package cmd

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"

	"github.com/etnz/carteira"
	"github.com/etnz/carteira/date"
	"github.com/etnz/carteira/indexer"
	"github.com/etnz/carteira/renderer"
	"github.com/google/subcommands"
)

type openCmd struct{}

func (*openCmd) Name() string     { return "open" }
func (*openCmd) Synopsis() string { return "list the open positions" }
func (*openCmd) Usage() string {
	return `cart open

  Matches the ledger and prints every position still open, with its average prices.
`
}
func (c *openCmd) SetFlags(f *flag.FlagSet) {}

func (c *openCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.OpenPositionsMarkdown(r))
	return subcommands.ExitSuccess
}

type closedCmd struct{}

func (*closedCmd) Name() string     { return "closed" }
func (*closedCmd) Synopsis() string { return "list the closed positions and their results" }
func (*closedCmd) Usage() string {
	return `cart closed

  Matches the ledger and prints every closed position, in closing order.
`
}
func (c *closedCmd) SetFlags(f *flag.FlagSet) {}

func (c *closedCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ClosedPositionsMarkdown(r))
	return subcommands.ExitSuccess
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "per market totals of fees, taxes, income and results" }
func (*summaryCmd) Usage() string {
	return `cart summary
`
}
func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.SummaryMarkdown(r))
	return subcommands.ExitSuccess
}

type walletCmd struct {
	on string
}

func (*walletCmd) Name() string     { return "wallet" }
func (*walletCmd) Synopsis() string { return "value the open positions with current quotes" }
func (*walletCmd) Usage() string {
	return `cart wallet [-d <date>]

  Values every open position. Equities use the market data snapshot, fixed
  income is projected with the indexer tables.
`
}
func (c *walletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "d", "", "valuation date (default to the snapshot date, or today)")
}

func (c *walletCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	snapshot, err := LoadQuotes()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading market data: %v\n", err)
		return subcommands.ExitFailure
	}
	book, err := LoadIndexers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading indexers: %v\n", err)
		return subcommands.ExitFailure
	}

	on := snapshot.Date
	if c.on != "" {
		if on, err = date.Parse(c.on); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if on.IsZero() {
		on = date.Today()
	}

	in := walletInput(r, snapshot.Quotes, snapshot.Yields, book, on)
	w := carteira.BuildWallet(r.Open, in)
	printMarkdown(renderer.WalletMarkdown(w, on))
	return subcommands.ExitSuccess
}

// walletInput merges the snapshot quotes with the fixed income projections, and
// computes the benchmark of each indexer.
func walletInput(r *carteira.Reconciliation, quotes, yields map[string]float64, book indexer.Book, on date.Date) carteira.WalletInput {
	in := carteira.WalletInput{
		Quotes:     make(map[string]float64),
		Yields:     yields,
		Benchmarks: make(map[carteira.IndexerType]float64),
	}
	maps.Copy(in.Quotes, quotes)

	projected, err := carteira.NewValuer(book).Quotes(r.Open, on)
	if err != nil {
		logger().Warn().Err(err).Msg("fixed income left out")
	}
	maps.Copy(in.Quotes, projected)

	for _, t := range []carteira.IndexerType{carteira.IPCA, carteira.CDI, carteira.SELIC} {
		name, _ := t.Series()
		s, ok := book.Get(name)
		if !ok {
			continue
		}
		rate, err := s.AnnualRate(on)
		if err != nil {
			logger().Debug().Err(err).Msg("no benchmark")
			continue
		}
		in.Benchmarks[t] = rate
	}
	return in
}

type valueCmd struct {
	on       string
	ticker   string
	bought   string
	quantity float64
	price    float64
	indexer  string
	rate     float64
}

func (*valueCmd) Name() string { return "value" }
func (*valueCmd) Synopsis() string {
	return "project the value of fixed income positions"
}
func (*valueCmd) Usage() string {
	return `cart value [-d <date>] [-ticker <ticker>]
cart value -bought <date> -q <quantity> -p <price> -indexer <indexer> -rate <rate> [-d <date>]

  Projects the value of the open fixed income positions, or of a single lot
  described by the flags.
`
}
func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "d", "", "valuation date (default to today)")
	f.StringVar(&c.ticker, "ticker", "", "only value that position")
	f.StringVar(&c.bought, "bought", "", "purchase date of an ad hoc lot")
	f.Float64Var(&c.quantity, "q", 1, "quantity of the ad hoc lot")
	f.Float64Var(&c.price, "p", 0, "unit price of the ad hoc lot")
	f.StringVar(&c.indexer, "indexer", "prefixed", "indexer of the ad hoc lot: prefixed, ipca, cdi or selic")
	f.Float64Var(&c.rate, "rate", 0, "contracted rate of the ad hoc lot, as a fraction")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on := date.Today()
	if c.on != "" {
		var err error
		if on, err = date.Parse(c.on); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	book, err := LoadIndexers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading indexers: %v\n", err)
		return subcommands.ExitFailure
	}
	valuer := carteira.NewValuer(book)

	if c.bought != "" {
		return c.valueLot(valuer, on)
	}

	r, err := Reconcile()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	opens := r.Open
	if c.ticker != "" {
		p, ok := r.OpenPosition(c.ticker)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: no open position for %q\n", c.ticker)
			return subcommands.ExitFailure
		}
		opens = []carteira.OpenPosition{p}
	}
	values, failures := valuer.ValuePositions(opens, on)
	printMarkdown(renderer.ValuationMarkdown(values, failures, on))
	return subcommands.ExitSuccess
}

func (c *valueCmd) valueLot(valuer *carteira.Valuer, on date.Date) subcommands.ExitStatus {
	initial, err := date.Parse(c.bought)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing purchase date: %v\n", err)
		return subcommands.ExitUsageError
	}
	t, err := carteira.ParseIndexerType(c.indexer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	lot := carteira.FixedIncomeLot{
		Quantity: c.quantity,
		BuyPrice: c.quantity * c.price,
		Initial:  initial,
		Indexer:  t,
		Rate:     c.rate,
	}
	value, err := valuer.Value(lot, on)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error valuing lot: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ValuationMarkdown([]carteira.PositionValue{{Ticker: "lot", Lot: lot, On: on, Value: value}}, nil, on))
	return subcommands.ExitSuccess
}

type indexerCmd struct{}

func (*indexerCmd) Name() string     { return "indexer" }
func (*indexerCmd) Synopsis() string { return "print an indexer table and its accumulated rate" }
func (*indexerCmd) Usage() string {
	return `cart indexer <name>

  Prints the monthly rates of an indexer (IPCA, SELIC, CDI, ...) read from the
  indexers folder. Without a name, lists the available indexers.
`
}
func (c *indexerCmd) SetFlags(f *flag.FlagSet) {}

func (c *indexerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	book, err := LoadIndexers()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading indexers: %v\n", err)
		return subcommands.ExitFailure
	}
	if f.NArg() == 0 {
		for _, name := range book.Names() {
			fmt.Fprintln(output, name)
		}
		return subcommands.ExitSuccess
	}
	if f.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: expects a single indexer name")
		return subcommands.ExitUsageError
	}
	s, ok := book.Get(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown indexer %q in %q\n", f.Arg(0), *indexersDir)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.IndexerMarkdown(s))
	return subcommands.ExitSuccess
}
