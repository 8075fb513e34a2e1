package models

import (
	"reflect"
	"testing"
)

func TestTableColumnsUnion(t *testing.T) {
	tbl := NewTable(
		NewRecord(Field{"property_url", "a"}, Field{"price_in_huf", "10 M Ft"}),
		NewRecord(Field{"property_url", "b"}, Field{"price_in_eur", "25 000 EUR"}, Field{"price_in_huf", "9 M Ft"}),
		nil,
	)

	if tbl.Len() != 2 {
		t.Errorf("Len() = %d; want 2", tbl.Len())
	}
	want := []string{"property_url", "price_in_huf", "price_in_eur"}
	if got := tbl.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v; want %v", got, want)
	}
	if got := tbl.Column("price_in_eur"); !reflect.DeepEqual(got, []string{"25 000 EUR"}) {
		t.Errorf("Column(price_in_eur) = %v", got)
	}
}

func TestNilTableIsEmpty(t *testing.T) {
	var tbl *Table
	if !tbl.Empty() {
		t.Error("nil table should be empty")
	}
	if tbl.Column(FieldPropertyURL) != nil {
		t.Error("nil table should have no column values")
	}
}
