package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"real-estate-hungary/models"
)

// CSVWriter writes a collected table to a CSV file. The header is the union
// of the table's columns, so the whole table is written at once.
// It is safe for concurrent use.
type CSVWriter struct {
	mu      sync.Mutex
	file    *os.File
	writer  *csv.Writer
	written bool
}

// NewCSVWriter creates (or truncates) the CSV file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}
	return &CSVWriter{file: f, writer: csv.NewWriter(f)}, nil
}

// Write stores the header and every row of table. Cells of columns a row
// does not set are left empty. A writer accepts a single table.
func (c *CSVWriter) Write(table *models.Table) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.written {
		return errors.New("csv: table already written")
	}
	c.written = true

	cols := table.Columns()
	if len(cols) == 0 {
		return nil
	}
	if err := c.writer.Write(cols); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, rec := range table.Rows() {
		row := make([]string, len(cols))
		for i, col := range cols {
			row[i] = rec.Text(col)
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
