package indexer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Book gathers the series of several indexers, by upper case name.
type Book map[string]*Series

// Well known indexer names.
const (
	IPCA  = "IPCA"
	SELIC = "SELIC"
	CDI   = "CDI"
	// Poupanca is the savings account yield.
	Poupanca = "POUPANCA"
)

// Add registers a series under its name.
func (b Book) Add(s *Series) { b[strings.ToUpper(s.Name)] = s }

// Get returns the series of an indexer.
func (b Book) Get(name string) (*Series, bool) {
	s, ok := b[strings.ToUpper(name)]
	return s, ok
}

// Names returns the indexer names in alphabetical order.
func (b Book) Names() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LoadBook reads every "<NAME>.csv" file in dir as the monthly table of the
// indexer NAME.
func LoadBook(dir string) (Book, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, err
	}
	book := make(Book)
	var errs error
	for _, file := range files {
		name := strings.ToUpper(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		s, err := loadSeries(name, file)
		if err != nil {
			errs = errors.Join(errs, err)
			continue
		}
		book.Add(s)
	}
	return book, errs
}

func loadSeries(name, file string) (*Series, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open indexer table %q: %w", file, err)
	}
	defer f.Close()

	rows, err := ReadMonthlyTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexer table %q: %w", file, err)
	}
	return FromMonthlyTable(name, rows)
}
