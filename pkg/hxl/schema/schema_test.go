package schema

import (
	"reflect"
	"testing"
)

func TestFromDataset(t *testing.T) {
	d := dataset(t, [][]string{
		{"#valid_tag", "#valid_required", "#valid_datatype", "#valid_value+min", "#valid_value+max", "#valid_value+list", "#valid_severity", "#description"},
		{"#affected", "yes", "number", "0", "1000000", "", "", "people affected"},
		{"#sector", "", "", "", "", "WASH|Health|Education", "warning", ""},
		{"", "", "", "", "", "", "", "skipped: no tag"},
	})
	s, err := FromDataset(d)
	if err != nil {
		t.Fatalf("FromDataset: %v", err)
	}
	if len(s.Rules) != 2 {
		t.Fatalf("got %d rules want 2", len(s.Rules))
	}

	r := s.Rules[0]
	if r.Pattern.String() != "#affected" || !r.Required || r.DataType != TypeNumber {
		t.Fatalf("rule 0: got %#v", r)
	}
	if r.MinValue == nil || *r.MinValue != 0 || r.MaxValue == nil || *r.MaxValue != 1000000 {
		t.Fatalf("rule 0 bounds: got %#v", r)
	}
	if r.Description != "people affected" {
		t.Fatalf("rule 0 description: got %q", r.Description)
	}

	r = s.Rules[1]
	if !reflect.DeepEqual(r.Enum, []string{"WASH", "Health", "Education"}) {
		t.Fatalf("rule 1 enum: got %#v", r.Enum)
	}
	if r.severity() != SeverityWarning {
		t.Fatalf("rule 1 severity: got %q", r.severity())
	}
}

func TestFromDatasetOccurrenceColumns(t *testing.T) {
	d := dataset(t, [][]string{
		{"#valid_tag", "#valid_required+min", "#valid_required+max", "#valid_required+rows"},
		{"#org", "1", "2", "10"},
	})
	s, err := FromDataset(d)
	if err != nil {
		t.Fatalf("FromDataset: %v", err)
	}
	r := s.Rules[0]
	if r.MinOccur == nil || *r.MinOccur != 1 || r.MaxOccur == nil || *r.MaxOccur != 2 {
		t.Fatalf("occurrence bounds: got %#v", r)
	}
	if r.MinRows == nil || *r.MinRows != 10 {
		t.Fatalf("min rows: got %#v", r.MinRows)
	}
	// The plain required column must not capture the attributed ones.
	if r.Required {
		t.Fatal("required should be false")
	}
}

func TestFromDatasetBadValues(t *testing.T) {
	cases := [][][]string{
		{{"#valid_tag", "#valid_datatype"}, {"#org", "frobnicate"}},
		{{"#valid_tag", "#valid_required+min"}, {"#org", "lots"}},
		{{"#valid_tag"}, {"not a pattern"}},
	}
	for _, cells := range cases {
		if _, err := FromDataset(dataset(t, cells)); err == nil {
			t.Fatalf("FromDataset(%v): expected error", cells)
		}
	}
}

func TestFromYAML(t *testing.T) {
	doc := []byte(`
require_tagged_columns: true
flag_empty_columns: true
rules:
  - tag: "#affected"
    required: true
    datatype: number
    min: 0
  - tag: "#sector"
    enum: [WASH, Health]
    case_insensitive: true
    severity: warning
  - tag: "#adm1+name"
    correlation: "#adm1+code"
    unique_key: "#adm1+code,#date"
`)
	s, err := FromYAML(doc)
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	if !s.RequireTaggedColumns || !s.FlagEmptyColumns {
		t.Fatalf("dataset flags: got %#v", s)
	}
	if len(s.Rules) != 3 {
		t.Fatalf("got %d rules want 3", len(s.Rules))
	}
	if s.Rules[0].DataType != TypeNumber || s.Rules[0].MinValue == nil {
		t.Fatalf("rule 0: got %#v", s.Rules[0])
	}
	if !s.Rules[1].Fold || s.Rules[1].Severity != SeverityWarning {
		t.Fatalf("rule 1: got %#v", s.Rules[1])
	}
	if len(s.Rules[2].CorrelationKey) != 1 || len(s.Rules[2].UniqueKey) != 2 {
		t.Fatalf("rule 2: got %#v", s.Rules[2])
	}
}

func TestFromYAMLErrors(t *testing.T) {
	for _, doc := range []string{
		"rules:\n  - tag: notapattern",
		"rules:\n  - tag: \"#org\"\n    datatype: frobnicate",
		"{{not yaml",
	} {
		if _, err := FromYAML([]byte(doc)); err == nil {
			t.Fatalf("FromYAML(%q): expected error", doc)
		}
	}
}

func TestNormalizeType(t *testing.T) {
	tests := map[string]string{
		"Number":  TypeNumber,
		"integer": TypeNumber,
		"string":  TypeText,
		"DATE":    TypeDate,
		"url":     TypeURL,
	}
	for in, want := range tests {
		got, err := normalizeType(in)
		if err != nil || got != want {
			t.Fatalf("normalizeType(%q): got (%q, %v) want %q", in, got, err, want)
		}
	}
}

func TestEndToEndTabularSchema(t *testing.T) {
	schemaData := dataset(t, [][]string{
		{"#valid_tag", "#valid_datatype"},
		{"#affected", "number"},
	})
	s, err := FromDataset(schemaData)
	if err != nil {
		t.Fatalf("FromDataset: %v", err)
	}
	data := dataset(t, [][]string{
		{"#org", "#affected"},
		{"UNICEF", "abc"},
	})
	report, err := Validate(data, s, nil)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.OK() || report.Errors() != 1 {
		t.Fatalf("got %#v", report.Issues)
	}
}
