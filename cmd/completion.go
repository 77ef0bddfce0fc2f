package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/carteira/docs"
	"github.com/etnz/carteira/indexer"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete handles shell completion requests for the named binary, and
// returns if the process was not started by the shell completion.
//
// Install the completion with `COMP_INSTALL=1 cart`.
func Complete(name string) {
	completionCommand().Complete(name)
}

func completionCommand() *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: make(map[string]complete.Predictor),
	}
	flag.CommandLine.VisitAll(func(f *flag.Flag) {
		root.Flags[f.Name] = predictor(f.Name)
	})
	for _, group := range commands {
		for _, c := range group {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			sub := &complete.Command{Flags: make(map[string]complete.Predictor)}
			fs.VisitAll(func(f *flag.Flag) {
				sub.Flags[f.Name] = predictor(f.Name)
			})
			switch c.Name() {
			case "indexer":
				sub.Args = complete.PredictFunc(predictIndexers)
			case "topic":
				names, _ := docs.Names()
				sub.Args = predict.Set(names)
			}
			root.Sub[c.Name()] = sub
		}
	}
	return root
}

// predictor returns the completion of a flag, by name.
func predictor(name string) complete.Predictor {
	switch name {
	case "ledger-file":
		return predict.Files("*.jsonl")
	case "quotes-file":
		return predict.Files("*.json")
	case "indexers":
		return predict.Dirs("*")
	case "log-level":
		return predict.Set{"debug", "info", "warn", "error"}
	case "m":
		return predict.Set{"stock", "etf", "fii", "bdr", "fixed-income", "treasury", "custody"}
	case "indexer":
		return predict.Set{"prefixed", "ipca", "cdi", "selic"}
	case "s", "ticker":
		return complete.PredictFunc(predictTickers)
	case "raw":
		return predict.Nothing
	default:
		return predict.Something
	}
}

// predictTickers completes with the tickers of the ledger.
func predictTickers(prefix string) []string {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil
	}
	var res []string
	for _, t := range ledger.Tickers() {
		if t != "" && strings.HasPrefix(t, strings.ToUpper(prefix)) {
			res = append(res, t)
		}
	}
	return res
}

func predictIndexers(prefix string) []string {
	book, err := indexer.LoadBook(*indexersDir)
	if err != nil {
		return nil
	}
	return book.Names()
}
