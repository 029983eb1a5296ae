package hxl

import (
	"testing"
)

func testRow(t *testing.T, tagSpecs, values []string) *Row {
	t.Helper()
	spec := make(ColumnSpec, len(tagSpecs))
	for i, ts := range tagSpecs {
		spec[i] = col(t, "", ts, i)
	}
	return &Row{Columns: spec, Values: values, RowNumber: 0, SourceRowNumber: 0}
}

func TestParseQuery(t *testing.T) {
	q := MustQuery("#sector!=WASH")
	if q.Op != "!=" || q.Operand != "WASH" {
		t.Fatalf("got op=%q operand=%q", q.Op, q.Operand)
	}
	if got := q.Pattern.String(); got != "#sector" {
		t.Fatalf("pattern: got %q", got)
	}
}

func TestParseQueryErrors(t *testing.T) {
	for _, text := range []string{"#sector", "no pattern=x", "#sector~=([unclosed"} {
		if _, err := ParseQuery(text); err == nil {
			t.Fatalf("ParseQuery(%q): expected error", text)
		}
	}
}

func TestQueryMatch(t *testing.T) {
	row := testRow(t,
		[]string{"#sector", "#affected", "#date", "#org"},
		[]string{"WASH", "1200", "2024-03-01", "UNICEF"})

	tests := []struct {
		query string
		want  bool
	}{
		{"#sector=WASH", true},
		{"#sector=wash", false},
		{"#sector!=WASH", false},
		{"#sector!=Health", true},
		{"#affected>100", true},
		{"#affected>1200", false},
		{"#affected>=1200", true},
		{"#affected<1500", true},
		{"#affected<=1199", false},
		{"#org~=^UNI", true},
		{"#org!~^UNI", false},
		{"#date~=^2024", true},
		// No column matches the pattern: non-match, not a fault.
		{"#adm1=Coast", false},
		// Numeric comparison against a non-numeric value: non-match.
		{"#sector>100", false},
	}
	for _, tt := range tests {
		if got := MustQuery(tt.query).Match(row); got != tt.want {
			t.Fatalf("%s: got %v want %v", tt.query, got, tt.want)
		}
	}
}

func TestQueryFold(t *testing.T) {
	row := testRow(t, []string{"#sector"}, []string{"Wash"})
	q := MustQuery("#sector=WASH")
	if q.Match(row) {
		t.Fatal("case-sensitive compare matched different case")
	}
	q.Fold = true
	if !q.Match(row) {
		t.Fatal("folded compare missed")
	}
}

func TestQueryNumericEquality(t *testing.T) {
	row := testRow(t, []string{"#affected"}, []string{"0100"})
	if !MustQuery("#affected=100").Match(row) {
		t.Fatal("numeric equality should coerce both sides")
	}
}

func TestQueryMatchesAnyColumn(t *testing.T) {
	row := testRow(t,
		[]string{"#org+funder", "#org+impl"},
		[]string{"ECHO", "UNICEF"})
	if !MustQuery("#org=UNICEF").Match(row) {
		t.Fatal("query should OR across matching columns")
	}
}

func TestMatchAny(t *testing.T) {
	row := testRow(t, []string{"#sector"}, []string{"WASH"})
	if !MatchAny(nil, row) {
		t.Fatal("empty query list must match every row")
	}
	queries := []*Query{MustQuery("#sector=Health"), MustQuery("#sector=WASH")}
	if !MatchAny(queries, row) {
		t.Fatal("second query should match")
	}
}
