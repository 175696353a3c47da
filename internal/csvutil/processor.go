package csvutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/lepinkainen/ankideck/internal/errors"
)

// Row maps a declared column name to its raw cell value.
type Row map[string]string

// Values returns the row's cells in the given column order. Columns the row
// doesn't carry come back empty.
func (r Row) Values(columns []string) []string {
	values := make([]string, len(columns))
	for i, col := range columns {
		values[i] = r[col]
	}
	return values
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	c := make(Row, len(r))
	for k, v := range r {
		c[k] = v
	}
	return c
}

// ProcessorOptions configures CSV processing behavior.
type ProcessorOptions struct {
	// Columns lists the columns every row must carry. Each one has to be
	// present in the header; other header columns are ignored.
	Columns []string
}

// ProcessCSV reads a CSV file with a header row and parses each record into type T.
// The parser receives the record keyed by the declared columns.
// The first parser error aborts processing.
func ProcessCSV[T any](filename string, parser func(Row) (T, error), opts ProcessorOptions) ([]T, error) {
	csvFile, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer func() { _ = csvFile.Close() }()

	// File existence check
	if fi, err := csvFile.Stat(); err != nil || fi.Size() == 0 {
		return nil, fmt.Errorf("CSV file %s is empty or cannot be read", filename)
	}

	return process(csvFile, filename, parser, opts)
}

func process[T any](r io.Reader, name string, parser func(Row) (T, error), opts ProcessorOptions) ([]T, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		if _, seen := index[col]; !seen {
			index[col] = i
		}
	}
	for _, col := range opts.Columns {
		if _, ok := index[col]; !ok {
			return nil, errors.NewMissingColumnError(col, name)
		}
	}

	var items []T
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		row := make(Row, len(opts.Columns))
		for _, col := range opts.Columns {
			row[col] = record[index[col]]
		}

		item, err := parser(row)
		if err != nil {
			return nil, fmt.Errorf("invalid record on line %d: %w", line, err)
		}

		items = append(items, item)
	}

	return items, nil
}

// LoadRows reads every record of a CSV file as a Row keyed by columns.
func LoadRows(filename string, columns []string) ([]Row, error) {
	return ProcessCSV(filename, func(r Row) (Row, error) { return r, nil }, ProcessorOptions{Columns: columns})
}

// Encode renders records as CSV without a header row.
func Encode(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode CSV: %w", err)
	}
	return buf.Bytes(), nil
}
