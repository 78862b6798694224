package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Store is a CSV-backed progress store for the batch driver. It loads a
// catalog export (first row is headers), exposes cell access by column
// name, and writes the updated export back out. The driver saves
// periodically so an interrupted run loses at most a few rows of work.
type Store struct {
	headers []string
	rows    [][]string
	columns map[string]int
}

// Load reads a CSV export from disk. A UTF-8 BOM is tolerated, quoting
// is lenient, and short rows are padded to the header width.
func Load(path string) (*Store, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export: %w", err)
	}

	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))

	r := csv.NewReader(bytes.NewReader(content))
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("export is empty: %s", path)
		}
		return nil, fmt.Errorf("read headers: %w", err)
	}

	columns := make(map[string]int, len(headers))
	for i, h := range headers {
		columns[h] = i
	}

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(rows)+2, err)
		}
		for len(record) < len(headers) {
			record = append(record, "")
		}
		rows = append(rows, record)
	}

	return &Store{headers: headers, rows: rows, columns: columns}, nil
}

// Len returns the number of data rows (excluding the header).
func (s *Store) Len() int {
	return len(s.rows)
}

// HasColumn reports whether the export contains the named column.
func (s *Store) HasColumn(name string) bool {
	_, ok := s.columns[name]
	return ok
}

// EnsureColumn adds an empty column when it does not exist yet.
func (s *Store) EnsureColumn(name string) {
	if s.HasColumn(name) {
		return
	}
	s.columns[name] = len(s.headers)
	s.headers = append(s.headers, name)
	for i := range s.rows {
		s.rows[i] = append(s.rows[i], "")
	}
}

// Get returns the cell value at (row, column), or "" when the column
// does not exist.
func (s *Store) Get(row int, column string) string {
	idx, ok := s.columns[column]
	if !ok || row < 0 || row >= len(s.rows) {
		return ""
	}
	return s.rows[row][idx]
}

// Set writes a cell value at (row, column).
func (s *Store) Set(row int, column, value string) error {
	idx, ok := s.columns[column]
	if !ok {
		return fmt.Errorf("unknown column: %q", column)
	}
	if row < 0 || row >= len(s.rows) {
		return fmt.Errorf("row %d out of range (have %d rows)", row, len(s.rows))
	}
	s.rows[row][idx] = value
	return nil
}

// Save writes the export, headers first, to the given path.
func (s *Store) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(s.headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range s.rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}
