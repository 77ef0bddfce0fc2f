// Package quotes reads market data snapshots: the current quote and yield of
// each ticker, as saved from a market data provider.
//
// A snapshot is any JSON document. A Layout tells, with jsonpath expressions,
// where the entries are and how to read the ticker, quote and yield of each
// entry. The default layout reads the format of brapi.dev quote responses.
package quotes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/carteira/date"
)

// Layout locates values in a snapshot document.
type Layout struct {
	Entries string // path to the list of entries, from the document root
	Ticker  string // path to the ticker, from an entry
	Quote   string // path to the quote, from an entry
	Yield   string // path to the yield, from an entry; empty when not provided
	Date    string // path to the snapshot date, from the document root; optional

	// YieldInPercent is true when the yield is in percentage points (8.5 for 8.5%).
	YieldInPercent bool
}

// DefaultLayout reads brapi.dev style documents:
//
//	{"requestedAt":"2024-06-28T20:00:00Z","results":[{"symbol":"PETR4","regularMarketPrice":37.5,"dividendYield":12.1}]}
var DefaultLayout = Layout{
	Entries:        "$.results",
	Ticker:         "$.symbol",
	Quote:          "$.regularMarketPrice",
	Yield:          "$.dividendYield",
	Date:           "$.requestedAt",
	YieldInPercent: true,
}

// Snapshot is the market data of a given day.
type Snapshot struct {
	Date   date.Date // zero when the document has no date
	Quotes map[string]float64
	Yields map[string]float64
}

// ErrMissing is returned when a path does not resolve to a value.
var ErrMissing = errors.New("missing value")

// Decode reads a snapshot document.
//
// Entries without a ticker are an error. Entries without a quote are skipped
// and reported in the returned error, the other entries are still returned.
func Decode(r io.Reader, l Layout) (*Snapshot, error) {
	var doc any
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("cannot decode snapshot: %w", err)
	}

	s := &Snapshot{Quotes: make(map[string]float64), Yields: make(map[string]float64)}
	if l.Date != "" {
		if v, err := get(l.Date, doc); err == nil {
			d, err := parseDate(v)
			if err != nil {
				return nil, fmt.Errorf("snapshot date %q: %w", l.Date, err)
			}
			s.Date = d
		}
	}

	jentries, err := jsonpath.Get(l.Entries, doc)
	if err != nil {
		return nil, fmt.Errorf("error parsing entries %q: %w", l.Entries, err)
	}
	entries, ok := jentries.([]any)
	if !ok {
		return nil, fmt.Errorf("entries %q is not a list: %T", l.Entries, jentries)
	}

	var errs error
	for i, entry := range entries {
		v, err := get(l.Ticker, entry)
		if err != nil {
			return nil, fmt.Errorf("entry %d: ticker %q: %w", i, l.Ticker, err)
		}
		ticker, ok := v.(string)
		if !ok || ticker == "" {
			return nil, fmt.Errorf("entry %d: ticker %q is not a string: %v", i, l.Ticker, v)
		}
		ticker = strings.ToUpper(strings.TrimSpace(ticker))

		quote, err := number(l.Quote, entry)
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("%s: quote: %w", ticker, err))
			continue
		}
		s.Quotes[ticker] = quote

		if l.Yield == "" {
			continue
		}
		yield, err := number(l.Yield, entry)
		if err != nil {
			// yields are optional
			continue
		}
		if l.YieldInPercent {
			yield /= 100
		}
		s.Yields[ticker] = yield
	}
	return s, errs
}

// ReadFile decodes the snapshot stored in file with the default layout.
func ReadFile(file string) (*Snapshot, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, DefaultLayout)
}

// get evaluates path on obj, and returns its single value.
func get(path string, obj any) (any, error) {
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, ErrMissing)
	}
	// jsonpath returns a list for filters and wildcards, keep the first answer.
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil, fmt.Errorf("%q: %w", path, ErrMissing)
		}
		v = list[0]
	}
	if v == nil {
		return nil, fmt.Errorf("%q: %w", path, ErrMissing)
	}
	return v, nil
}

// number evaluates path on obj as a number. Providers sometimes send numbers
// as strings, with a decimal comma.
func number(path string, obj any) (float64, error) {
	v, err := get(path, obj)
	if err != nil {
		return 0, err
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		s := strings.ReplaceAll(x, " ", "")
		s = strings.TrimSuffix(s, "%")
		if strings.Contains(s, ",") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, fmt.Errorf("%q is an invalid number %q: %w", path, x, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%q is neither a number nor a string: %v", path, v)
	}
}

// parseDate reads a snapshot date, either a plain date or an RFC 3339 timestamp.
func parseDate(v any) (date.Date, error) {
	s, ok := v.(string)
	if !ok {
		return date.Date{}, fmt.Errorf("not a string: %v", v)
	}
	if len(s) > len("2006-01-02") && s[10] == 'T' {
		s = s[:10]
	}
	return date.Parse(s)
}
