package filters

import (
	"reflect"
	"testing"

	"hxltab/pkg/hxl"
)

func TestColumnFilterInclude(t *testing.T) {
	f := &ColumnFilter{
		Source:   dataset(t, sample),
		Patterns: hxl.MustPatterns("#sector"),
	}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#sector"}) {
		t.Fatalf("tags: got %#v", got)
	}
	want := [][]string{{"WASH"}, {"Health"}, {"WASH"}}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestColumnFilterExclude(t *testing.T) {
	f := &ColumnFilter{
		Source:   dataset(t, sample),
		Patterns: hxl.MustPatterns("#affected"),
		Invert:   true,
	}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#org", "#sector"}) {
		t.Fatalf("tags: got %#v", got)
	}
	want := [][]string{
		{"UNICEF", "WASH"},
		{"OXFAM", "Health"},
		{"UNHCR", "WASH"},
	}
	if got := values(t, f); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestColumnFilterAllPatternsRoundTrip(t *testing.T) {
	f := &ColumnFilter{
		Source:   dataset(t, sample),
		Patterns: hxl.MustPatterns("#org,#sector,#affected"),
	}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#org", "#sector", "#affected"}) {
		t.Fatalf("tags: got %#v", got)
	}
	if got := values(t, f); !reflect.DeepEqual(got, sample[2:]) {
		t.Fatalf("got %#v want %#v", got, sample[2:])
	}
}

func TestColumnFilterReindexes(t *testing.T) {
	f := &ColumnFilter{
		Source:   dataset(t, sample),
		Patterns: hxl.MustPatterns("#sector,#affected"),
	}
	columns, err := f.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	for i, c := range columns {
		if c.Index != i {
			t.Fatalf("column %d has Index %d", i, c.Index)
		}
	}
}

func TestColumnFilterKeepsHeaders(t *testing.T) {
	f := &ColumnFilter{
		Source:   dataset(t, sample),
		Patterns: hxl.MustPatterns("#org"),
	}
	columns, err := f.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if columns[0].Header != "Org" {
		t.Fatalf("header: got %q", columns[0].Header)
	}
}
