package filters

import (
	"reflect"
	"testing"

	"hxltab/pkg/hxl"
)

// dataset builds a single-pass dataset from raw cells, first row being the
// hashtag header row.
func dataset(t *testing.T, cells [][]string) hxl.Dataset {
	t.Helper()
	d, err := hxl.FromRaw(cells)
	if err != nil {
		t.Fatalf("FromRaw: %v", err)
	}
	return d
}

// values drains a dataset into its row value grid.
func values(t *testing.T, d hxl.Dataset) [][]string {
	t.Helper()
	rows, err := hxl.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = row.Values
	}
	return out
}

func tags(t *testing.T, d hxl.Dataset) []string {
	t.Helper()
	columns, err := d.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	return columns.DisplayTags()
}

var sample = [][]string{
	{"Org", "Sector", "Affected"},
	{"#org", "#sector", "#affected"},
	{"UNICEF", "WASH", "100"},
	{"OXFAM", "Health", "25"},
	{"UNHCR", "WASH", "300"},
}

func TestPipelineChaining(t *testing.T) {
	out := From(dataset(t, sample)).
		WithRows([]*hxl.Query{hxl.MustQuery("#sector=WASH")}).
		WithColumns(hxl.MustPatterns("#org,#affected")).
		Dataset()

	if got := tags(t, out); !reflect.DeepEqual(got, []string{"#org", "#affected"}) {
		t.Fatalf("tags: got %#v", got)
	}
	want := [][]string{
		{"UNICEF", "100"},
		{"UNHCR", "300"},
	}
	if got := values(t, out); !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v want %#v", got, want)
	}
}

func TestPipelineKeepThenDropSameQueries(t *testing.T) {
	queries := []*hxl.Query{hxl.MustQuery("#sector=WASH")}
	out := From(dataset(t, sample)).
		WithRows(queries).
		WithoutRows(queries).
		Dataset()
	if got := values(t, out); len(got) != 0 {
		t.Fatalf("got %#v want no rows", got)
	}
}

func TestPipelineCacheAllowsTwoPasses(t *testing.T) {
	p := From(dataset(t, sample)).Cache()
	first := values(t, p.Dataset())
	second := values(t, p.Dataset())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("passes differ: %#v vs %#v", first, second)
	}
}
