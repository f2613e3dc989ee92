// Package csvtable is a small header-indexed CSV table used by the
// annotation passes, which must carry every upstream column through
// unchanged while appending their own.
package csvtable

import (
	"encoding/csv"
	"fmt"
	"os"
)

type Table struct {
	Header  []string
	Records [][]string

	index map[string]int
}

// Read loads an entire CSV file into memory.
func Read(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read csv %s: empty file", path)
	}
	t := &Table{Header: rows[0], Records: rows[1:]}
	t.reindex()
	return t, nil
}

// Write replaces the file at path with the table contents.
func (t *Table) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	for _, rec := range t.Records {
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write csv %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

// HasColumn reports whether the header names col.
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Get returns the value of col in record i, or "" when the column is absent
// or the record is short.
func (t *Table) Get(i int, col string) string {
	j, ok := t.index[col]
	if !ok || i < 0 || i >= len(t.Records) || j >= len(t.Records[i]) {
		return ""
	}
	return t.Records[i][j]
}

// Set overwrites the value of col in record i, padding short records.
func (t *Table) Set(i int, col, value string) {
	j, ok := t.index[col]
	if !ok {
		t.AddColumn(col)
		j = t.index[col]
	}
	for len(t.Records[i]) <= j {
		t.Records[i] = append(t.Records[i], "")
	}
	t.Records[i][j] = value
}

// AddColumn appends an empty column unless it already exists.
func (t *Table) AddColumn(col string) {
	if t.HasColumn(col) {
		return
	}
	t.Header = append(t.Header, col)
	t.reindex()
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		t.index[h] = i
	}
}
