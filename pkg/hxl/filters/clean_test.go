package filters

import (
	"reflect"
	"testing"

	"hxltab/pkg/hxl"
)

func TestCleanWhitespaceAndCase(t *testing.T) {
	cells := [][]string{
		{"#org", "#sector"},
		{"  unicef   kenya ", "wash"},
	}
	f := &Clean{
		Source:     dataset(t, cells),
		Whitespace: hxl.MustPatterns("#org"),
		Upper:      hxl.MustPatterns("#sector"),
	}
	want := [][]string{{"unicef kenya", "WASH"}}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestCleanDatesAndNumbers(t *testing.T) {
	cells := [][]string{
		{"#date", "#affected"},
		{"1 Mar 2024", "1,200"},
		{"not a date", "n/a"},
	}
	f := &Clean{
		Source:  dataset(t, cells),
		Dates:   hxl.MustPatterns("#date"),
		Numbers: hxl.MustPatterns("#affected"),
	}
	want := [][]string{
		{"2024-03-01", "1200"},
		// Unparseable values are left unchanged, never faulted.
		{"not a date", "n/a"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestCleanScopedToQueries(t *testing.T) {
	f := &Clean{
		Source:  dataset(t, sample),
		Lower:   hxl.MustPatterns("#sector"),
		Queries: []*hxl.Query{hxl.MustQuery("#org=UNICEF")},
	}
	got := values(t, f)
	if got[0][1] != "wash" {
		t.Fatalf("row 0 should be cleaned: %#v", got[0])
	}
	if got[2][1] != "WASH" {
		t.Fatalf("row 2 should be untouched: %#v", got[2])
	}
}
