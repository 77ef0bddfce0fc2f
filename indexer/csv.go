package indexer

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ReadMonthlyTable reads a monthly indexer table from CSV.
//
// The format is the one published by the brazilian central bank and IBGE
// exports: a header line, then one line per year with the year followed by
// twelve monthly values in percentage points, separated by ';'. Decimal
// commas are accepted and blank cells mean no value.
func ReadMonthlyTable(r io.Reader) ([]MonthlyRow, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(records) < 1 {
		return nil, fmt.Errorf("not enough records in csv to parse a monthly table")
	}

	rows := make([]MonthlyRow, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) == 0 || strings.TrimSpace(record[0]) == "" {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[0]))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q on line %d: %w", record[0], i+2, err)
		}
		row := MonthlyRow{Year: year}
		for m := range row.Cells {
			row.Cells[m] = math.NaN()
			if m+1 >= len(record) {
				continue
			}
			cell := strings.TrimSpace(record[m+1])
			if cell == "" || cell == "-" {
				continue
			}
			cell = strings.ReplaceAll(cell, ",", ".")
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("failed to parse value %q for %d-%02d: %w", record[m+1], year, m+1, err)
			}
			row.Cells[m] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}
