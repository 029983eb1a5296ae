package filters

import (
	"reflect"
	"testing"

	"hxltab/pkg/hxl"
)

func TestRowFilterKeep(t *testing.T) {
	f := &RowFilter{
		Source:  dataset(t, sample),
		Queries: []*hxl.Query{hxl.MustQuery("#sector=WASH")},
	}
	want := [][]string{
		{"UNICEF", "WASH", "100"},
		{"UNHCR", "WASH", "300"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestRowFilterInvert(t *testing.T) {
	f := &RowFilter{
		Source:  dataset(t, sample),
		Queries: []*hxl.Query{hxl.MustQuery("#sector=WASH")},
		Invert:  true,
	}
	want := [][]string{{"OXFAM", "Health", "25"}}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestRowFilterRenumbers(t *testing.T) {
	f := &RowFilter{
		Source:  dataset(t, sample),
		Queries: []*hxl.Query{hxl.MustQuery("#sector=WASH")},
	}
	rows, err := hxl.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	for i, row := range rows {
		if row.RowNumber != i {
			t.Fatalf("row %d has RowNumber %d", i, row.RowNumber)
		}
	}
	if rows[1].SourceRowNumber != 4 {
		t.Fatalf("source row number: got %d want 4", rows[1].SourceRowNumber)
	}
}

func TestRowFilterNoMatches(t *testing.T) {
	f := &RowFilter{
		Source:  dataset(t, sample),
		Queries: []*hxl.Query{hxl.MustQuery("#sector=Education")},
	}
	if got := values(t, f); len(got) != 0 {
		t.Fatalf("got %#v want no rows", got)
	}
}

func TestRowFilterMask(t *testing.T) {
	// Only WASH rows are subject to the filter; the Health row passes
	// through even though it fails the query.
	f := &RowFilter{
		Source:  dataset(t, sample),
		Queries: []*hxl.Query{hxl.MustQuery("#affected>200")},
		Mask:    []*hxl.Query{hxl.MustQuery("#sector=WASH")},
	}
	want := [][]string{
		{"OXFAM", "Health", "25"},
		{"UNHCR", "WASH", "300"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}
