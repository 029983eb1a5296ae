package filters

import (
	"reflect"
	"testing"

	"hxltab/pkg/hxl"
)

func TestParseRenameSpec(t *testing.T) {
	spec, err := ParseRenameSpec("#sector:Cluster#cluster+name")
	if err != nil {
		t.Fatalf("ParseRenameSpec: %v", err)
	}
	if spec.Pattern.String() != "#sector" || spec.Header != "Cluster" || spec.TagSpec != "#cluster+name" {
		t.Fatalf("got %#v", spec)
	}

	for _, bad := range []string{"#sector Cluster", "#sector:no hashtag", "notapattern:#x"} {
		if _, err := ParseRenameSpec(bad); err == nil {
			t.Fatalf("ParseRenameSpec(%q): expected error", bad)
		}
	}
}

func TestRenameColumns(t *testing.T) {
	f := &RenameColumns{
		Source: dataset(t, sample),
		Renames: []RenameSpec{
			{Pattern: hxl.MustPattern("#sector"), TagSpec: "#cluster", Header: "Cluster"},
		},
	}
	if got := tags(t, f); !reflect.DeepEqual(got, []string{"#org", "#cluster", "#affected"}) {
		t.Fatalf("tags: got %#v", got)
	}
	columns, _ := f.Columns()
	if columns[1].Header != "Cluster" {
		t.Fatalf("header: got %q", columns[1].Header)
	}
	// Values are untouched; only the spec changes.
	if got := values(t, f); !reflect.DeepEqual(got[0], []string{"UNICEF", "WASH", "100"}) {
		t.Fatalf("row 0: got %#v", got[0])
	}
}

func TestRenameColumnsKeepsHeaderWhenEmpty(t *testing.T) {
	f := &RenameColumns{
		Source: dataset(t, sample),
		Renames: []RenameSpec{
			{Pattern: hxl.MustPattern("#sector"), TagSpec: "#cluster"},
		},
	}
	columns, err := f.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if columns[1].Header != "Sector" {
		t.Fatalf("header: got %q want %q", columns[1].Header, "Sector")
	}
}

func TestRenameColumnsFirstSpecWins(t *testing.T) {
	f := &RenameColumns{
		Source: dataset(t, sample),
		Renames: []RenameSpec{
			{Pattern: hxl.MustPattern("#sector"), TagSpec: "#cluster"},
			{Pattern: hxl.MustPattern("#sector"), TagSpec: "#theme"},
		},
	}
	if got := tags(t, f)[1]; got != "#cluster" {
		t.Fatalf("got %q want #cluster", got)
	}
}
