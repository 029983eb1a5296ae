package hxlio

import (
	"reflect"
	"strings"
	"testing"

	"hxltab/pkg/hxl"
)

func TestNewCSVDataset(t *testing.T) {
	in := "Org,Sector\n#org,#sector\nUNICEF,WASH\nOXFAM,Health\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	columns, err := d.Columns()
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if got := columns.DisplayTags(); !reflect.DeepEqual(got, []string{"#org", "#sector"}) {
		t.Fatalf("tags: got %#v", got)
	}
	if got := columns.Headers(); !reflect.DeepEqual(got, []string{"Org", "Sector"}) {
		t.Fatalf("headers: got %#v", got)
	}
	rows, err := hxl.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 2 || !reflect.DeepEqual(rows[0].Values, []string{"UNICEF", "WASH"}) {
		t.Fatalf("rows: got %#v", rows)
	}
}

func TestNewCSVDatasetStripsBOM(t *testing.T) {
	in := "\uFEFF#org,#sector\nUNICEF,WASH\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	columns, _ := d.Columns()
	if got := columns[0].DisplayTag(); got != "#org" {
		t.Fatalf("first tag: got %q", got)
	}
}

func TestNewCSVDatasetSkipsPreamble(t *testing.T) {
	in := "Quarterly report\n\nOrg,Sector\n#org,#sector\nUNICEF,WASH\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	columns, _ := d.Columns()
	if got := columns.Headers(); !reflect.DeepEqual(got, []string{"Org", "Sector"}) {
		t.Fatalf("headers: got %#v", got)
	}
	rows, err := hxl.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows want 1", len(rows))
	}
}

func TestNewCSVDatasetNoTagRow(t *testing.T) {
	in := "a,b\n1,2\n"
	_, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if _, ok := err.(*hxl.ParseError); !ok {
		t.Fatalf("got %v want *ParseError", err)
	}
}

func TestNewCSVDatasetSinglePass(t *testing.T) {
	in := "#org\nUNICEF\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	if _, err := hxl.ReadAll(d); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	_, err = d.Rows()
	if _, ok := err.(*hxl.StructuralFault); !ok {
		t.Fatalf("second pass: got %v want *StructuralFault", err)
	}
}

func TestNewCSVDatasetRaggedRows(t *testing.T) {
	in := "#org,#sector\nUNICEF\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	rows, err := hxl.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(rows[0].Values, []string{"UNICEF", ""}) {
		t.Fatalf("got %#v", rows[0].Values)
	}
}

func TestNewCSVDatasetLongRowFaults(t *testing.T) {
	in := "#org,#sector\nUNICEF,WASH,extra\n"
	d, err := NewCSVDataset(strings.NewReader(in), DefaultOptions())
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	_, err = hxl.ReadAll(d)
	if _, ok := err.(*hxl.StructuralFault); !ok {
		t.Fatalf("got %v want *StructuralFault", err)
	}
}

func TestNewCSVDatasetDelimiter(t *testing.T) {
	in := "#org;#sector\nUNICEF;WASH\n"
	opt := DefaultOptions()
	opt.Delimiter = ';'
	d, err := NewCSVDataset(strings.NewReader(in), opt)
	if err != nil {
		t.Fatalf("NewCSVDataset: %v", err)
	}
	rows, err := hxl.ReadAll(d)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !reflect.DeepEqual(rows[0].Values, []string{"UNICEF", "WASH"}) {
		t.Fatalf("got %#v", rows[0].Values)
	}
}
