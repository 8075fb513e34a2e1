package models

// Table is a dense, ordered collection of records. A nil or empty Table is
// the "no prior data" value for deduplication.
type Table struct {
	rows []*Record
}

// NewTable creates a Table holding the given records.
func NewTable(rows ...*Record) *Table {
	t := &Table{}
	t.Append(rows...)
	return t
}

// Append adds records to the end of the table. Nil records are skipped.
func (t *Table) Append(rows ...*Record) {
	for _, r := range rows {
		if r != nil {
			t.rows = append(t.rows, r)
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Rows returns the records in order.
func (t *Table) Rows() []*Record {
	if t == nil {
		return nil
	}
	return t.rows
}

// Columns returns the union of all record keys in first-seen order. Columns
// that no row sets never appear.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var cols []string
	for _, r := range t.rows {
		for _, k := range r.keys {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	return cols
}

// Column returns the formatted values of one column, skipping rows that do
// not set it.
func (t *Table) Column(name string) []string {
	if t == nil {
		return nil
	}
	var out []string
	for _, r := range t.rows {
		if v, ok := r.values[name]; ok {
			out = append(out, FormatValue(v))
		}
	}
	return out
}
