// Package cmd implements the CLI application to reconcile and value a
// brokerage ledger.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/carteira"
	"github.com/etnz/carteira/indexer"
	"github.com/etnz/carteira/quotes"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// commands lists the subcommands, by group.
var commands = map[string][]subcommands.Command{
	"reports":      {&openCmd{}, &closedCmd{}, &summaryCmd{}, &walletCmd{}, &valueCmd{}, &indexerCmd{}},
	"transactions": {&buyCmd{}, &sellCmd{}, &incomeCmd{}, &chargeCmd{}, &fmtCmd{}},
	"help":         {&topicCmd{}},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, group := range []string{"reports", "transactions", "help"} {
		for _, cmd := range commands[group] {
			c.Register(cmd, group)
		}
	}
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var config = LoadConfig()

var ledgerFile = flag.String("ledger-file", config.LedgerFile, "Path to the ledger file containing transactions (JSONL format)")
var indexersDir = flag.String("indexers", config.IndexersDir, "Path to the folder of indexer tables (<NAME>.csv)")
var quotesFile = flag.String("quotes-file", config.QuotesFile, "Path to the market data snapshot (JSON)")
var logLevel = flag.String("log-level", config.LogLevel, "Log level: debug, info, warn or error")
var tolerance = flag.Float64("tolerance", config.Tolerance, "Largest quantity difference still considered a closed position")
var raw = flag.Bool("raw", false, "Print raw markdown instead of rendering it for the terminal")

// output is where reports are printed.
var output io.Writer = os.Stdout

// logger returns the application logger, configured from the flags.
var logger = sync.OnceValue(func() *zerolog.Logger {
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	l := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return &l
})

// DecodeLedger decodes the ledger from the app ledger file.
func DecodeLedger() (*carteira.Ledger, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger().Warn().Str("file", *ledgerFile).Msg("ledger does not exist, using an empty ledger instead")
		return carteira.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ledger, err := carteira.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("ledger %q: %w", *ledgerFile, err)
	}
	logger().Debug().Str("file", *ledgerFile).Int("transactions", ledger.Len()).Msg("ledger loaded")
	return ledger, nil
}

// EncodeLedger writes the ledger back to the app ledger file.
func EncodeLedger(ledger *carteira.Ledger) error {
	f, err := os.OpenFile(*ledgerFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", *ledgerFile, err)
	}
	defer f.Close()

	return carteira.EncodeLedger(f, ledger)
}

// Reconcile decodes the ledger and matches it. Per ticker failures are logged.
func Reconcile() (*carteira.Reconciliation, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, err
	}
	r := carteira.Reconcile(ledger, carteira.ReconcileOptions{Tolerance: *tolerance})
	for _, f := range r.Failures {
		logger().Warn().Str("ticker", f.Ticker).Err(f.Err).Msg("ticker left out")
	}
	return r, nil
}

// LoadIndexers loads the indexer tables. A missing folder is an empty book,
// and tables that cannot be read are logged and left out.
func LoadIndexers() (indexer.Book, error) {
	book, err := indexer.LoadBook(*indexersDir)
	if book == nil {
		return nil, err
	}
	if err != nil {
		logger().Warn().Err(err).Str("dir", *indexersDir).Msg("indexer tables left out")
	}
	if len(book) == 0 {
		logger().Warn().Str("dir", *indexersDir).Msg("no indexer table found")
	}
	return book, nil
}

// LoadQuotes loads the market data snapshot. A missing file is an empty snapshot.
func LoadQuotes() (*quotes.Snapshot, error) {
	s, err := quotes.ReadFile(*quotesFile)
	if errors.Is(err, fs.ErrNotExist) {
		logger().Warn().Str("file", *quotesFile).Msg("no market data snapshot")
		return &quotes.Snapshot{Quotes: map[string]float64{}, Yields: map[string]float64{}}, nil
	}
	if s != nil && err != nil {
		// partial snapshot: keep what could be read.
		logger().Warn().Err(err).Msg("incomplete market data snapshot")
		return s, nil
	}
	return s, err
}

// printMarkdown prints a markdown report, rendered for the terminal unless -raw is set.
func printMarkdown(md string) {
	if *raw {
		fmt.Fprint(output, md)
		return
	}
	out, err := glamour.Render(md, "auto")
	if err != nil {
		logger().Debug().Err(err).Msg("cannot render markdown")
		fmt.Fprint(output, md)
		return
	}
	fmt.Fprint(output, out)
}
