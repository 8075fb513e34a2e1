package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field is a single named value of a Record.
type Field struct {
	Key   string
	Value any
}

// Record is one row of scraped listing data. Fields keep the order in which
// they were first set, and absent values (nil or nil pointers) are never stored,
// so two records from different locales rarely share the same column set.
type Record struct {
	keys   []string
	values map[string]any
}

// NewRecord creates a Record from the given fields, dropping absent values.
func NewRecord(fields ...Field) *Record {
	r := &Record{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		r.Set(f.Key, f.Value)
	}
	return r
}

// Set stores value under key. Re-setting a key keeps its original position.
// Absent values are ignored.
func (r *Record) Set(key string, value any) {
	v, ok := present(value)
	if !ok {
		return
	}
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if _, exists := r.values[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = v
}

// Merge sets every field of other on r, in other's order.
func (r *Record) Merge(other *Record) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		r.Set(k, other.values[k])
	}
}

// Get returns the value stored under key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[key]
	return v, ok
}

// Text returns the value under key formatted for tabular output, or "" when
// the field is absent.
func (r *Record) Text(key string) string {
	v, ok := r.Get(key)
	if !ok {
		return ""
	}
	return FormatValue(v)
}

// Keys returns the field names in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.keys...)
}

// Fields returns the record as an ordered slice.
func (r *Record) Fields() []Field {
	if r == nil {
		return nil
	}
	fields := make([]Field, 0, len(r.keys))
	for _, k := range r.keys {
		fields = append(fields, Field{Key: k, Value: r.values[k]})
	}
	return fields
}

// Len returns the number of stored fields.
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.keys)
}

// MarshalJSON encodes the record as a JSON object in field order.
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("record: marshal %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping the key order of the input.
// Integral numbers decode to int, other numbers to float64.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("record: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	r.keys = nil
	r.values = make(map[string]any)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("record: decode %q: %w", key, err)
		}
		if n, ok := v.(json.Number); ok {
			v = fromNumber(n)
		}
		r.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// FormatValue renders a record value the way the CSV output stores it.
func FormatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case nil:
		return ""
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}

func present(v any) (any, bool) {
	switch x := v.(type) {
	case nil:
		return nil, false
	case *string:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *float64:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *int:
		if x == nil {
			return nil, false
		}
		return *x, true
	case *bool:
		if x == nil {
			return nil, false
		}
		return *x, true
	}
	return v, true
}

func fromNumber(n json.Number) any {
	if i, err := strconv.Atoi(n.String()); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
