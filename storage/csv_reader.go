package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"real-estate-hungary/models"
)

// ReadCSV loads a table previously written by CSVWriter. A missing file is
// an empty table. Empty cells are treated as absent fields and every value
// is read back as text.
func ReadCSV(path string) (*models.Table, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return models.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err == io.EOF {
		return models.NewTable(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	table := models.NewTable()
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row: %w", err)
		}
		rec := models.NewRecord()
		for i, col := range header {
			if i < len(row) && row[i] != "" {
				rec.Set(col, row[i])
			}
		}
		table.Append(rec)
	}
	return table, nil
}
