package schema

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"hxltab/pkg/hxl"
)

// Issue is one data-level validation finding. Issues are never errors in the
// Go sense: they are collected, optionally streamed to a sink, and never
// abort processing.
type Issue struct {
	Rule      *Rule       // nil for dataset-level findings outside any rule
	Column    *hxl.Column // nil when the finding is not column-specific
	RowNumber int         // -1 for dataset-level findings
	Severity  string
	Value     string
	Message   string
}

func (i Issue) String() string {
	loc := "dataset"
	if i.RowNumber >= 0 {
		loc = fmt.Sprintf("row %d", i.RowNumber)
	}
	if i.Column != nil {
		loc += " " + i.Column.DisplayTag()
	}
	return fmt.Sprintf("[%s] %s: %s", i.Severity, loc, i.Message)
}

// Sink receives issues synchronously during the validation pass.
type Sink interface {
	Receive(Issue)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Issue)

// Receive calls f.
func (f SinkFunc) Receive(i Issue) { f(i) }

// Report is the accumulated outcome of one validation pass. It is always
// populated, whether or not a sink was supplied.
type Report struct {
	Issues []Issue
}

// OK reports whether the pass raised no error-severity issue. Warnings never
// fail validation.
func (r *Report) OK() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			return false
		}
	}
	return true
}

// Errors counts error-severity issues.
func (r *Report) Errors() int { return r.count(SeverityError) }

// Warnings counts warning-severity issues.
func (r *Report) Warnings() int { return r.count(SeverityWarning) }

func (r *Report) count(severity string) int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == severity {
			n++
		}
	}
	return n
}

var (
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?[0-9() .\-]{5,}$`)
)

// ruleState carries the cross-row bookkeeping for one rule during a pass.
type ruleState struct {
	rule        *Rule
	indices     []int // matching column positions
	corrIndices []int
	rowsSeen    int // rows with at least one non-empty matching value
	dateLayout  string
	uniqueSeen  map[string]bool
	keySeen     map[string]bool
}

// Validate runs the schema over the dataset in a single pass. A nil schema
// uses the built-in default. Fatal faults (structural, upstream) surface as
// the error return; data findings land in the report and in the sink.
func Validate(d hxl.Dataset, s *Schema, sink Sink) (*Report, error) {
	if s == nil {
		s = Default()
	}
	columns, err := d.Columns()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	emit := func(i Issue) {
		if sink != nil {
			sink.Receive(i)
		}
		report.Issues = append(report.Issues, i)
	}

	if s.RequireTaggedColumns && !columns.HasTags() {
		emit(Issue{RowNumber: -1, Severity: SeverityError,
			Message: "no tagged columns found"})
	}

	states := make([]*ruleState, len(s.Rules))
	for i, rule := range s.Rules {
		st := &ruleState{
			rule:       rule,
			indices:    (hxl.PatternList{rule.Pattern}).Indices(columns),
			uniqueSeen: map[string]bool{},
			keySeen:    map[string]bool{},
		}
		if rule.CorrelationKey != nil {
			st.corrIndices = rule.CorrelationKey.Indices(columns)
		}
		if len(st.indices) == 0 && rule.Required {
			emit(Issue{Rule: rule, RowNumber: -1, Severity: rule.severity(),
				Message: fmt.Sprintf("required column %s is missing", rule.Pattern)})
		}
		states[i] = st
	}

	nonEmpty := make([]bool, len(columns))

	it, err := d.Rows()
	if err != nil {
		return nil, err
	}
	for {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return report, err
		}
		if err := row.Check(); err != nil {
			return report, err
		}
		for i, v := range row.Values {
			if strings.TrimSpace(v) != "" {
				nonEmpty[i] = true
			}
		}
		for _, st := range states {
			st.validateRow(row, columns, emit)
		}
	}

	// Dataset-wide checks after the pass.
	for _, st := range states {
		rule := st.rule
		if rule.MinRows != nil && st.rowsSeen < *rule.MinRows {
			emit(Issue{Rule: rule, RowNumber: -1, Severity: rule.severity(),
				Message: fmt.Sprintf("expected at least %d row(s) with %s but found %d",
					*rule.MinRows, rule.Pattern, st.rowsSeen)})
		}
	}
	if s.FlagEmptyColumns {
		for i, c := range columns {
			if c.Tagged() && !nonEmpty[i] {
				col := columns[i]
				emit(Issue{Column: &col, RowNumber: -1, Severity: SeverityWarning,
					Message: fmt.Sprintf("column %s is completely empty", c.DisplayTag())})
			}
		}
	}
	return report, nil
}

func (st *ruleState) validateRow(row *hxl.Row, columns hxl.ColumnSpec, emit func(Issue)) {
	rule := st.rule
	occurrences := 0
	var keyParts []string

	for _, i := range st.indices {
		v := strings.TrimSpace(row.Values[i])
		if v == "" {
			continue
		}
		occurrences++
		col := columns[i]
		st.validateValue(v, row.RowNumber, &col, emit)

		if rule.Unique {
			norm := strings.ToLower(v)
			if st.uniqueSeen[norm] {
				emit(Issue{Rule: rule, Column: &col, RowNumber: row.RowNumber,
					Severity: rule.severity(), Value: v,
					Message: fmt.Sprintf("duplicate value %q for %s", v, rule.Pattern)})
			}
			st.uniqueSeen[norm] = true
		}
	}

	if rule.UniqueKey != nil {
		for _, p := range rule.UniqueKey {
			v, _ := row.Get(p)
			keyParts = append(keyParts, strings.ToLower(strings.TrimSpace(v)))
		}
		key := strings.Join(keyParts, "\x1f")
		if st.keySeen[key] {
			emit(Issue{Rule: rule, RowNumber: row.RowNumber, Severity: rule.severity(),
				Message: fmt.Sprintf("duplicate key tuple (%s)", strings.ReplaceAll(key, "\x1f", ", "))})
		}
		st.keySeen[key] = true
	}

	if occurrences > 0 {
		st.rowsSeen++
	}
	if rule.Required && len(st.indices) > 0 && occurrences == 0 {
		emit(Issue{Rule: rule, RowNumber: row.RowNumber, Severity: rule.severity(),
			Message: fmt.Sprintf("required value for %s is missing", rule.Pattern)})
	}
	if rule.MinOccur != nil && occurrences < *rule.MinOccur {
		emit(Issue{Rule: rule, RowNumber: row.RowNumber, Severity: rule.severity(),
			Message: fmt.Sprintf("expected at least %d instance(s) of %s but found %d",
				*rule.MinOccur, rule.Pattern, occurrences)})
	}
	if rule.MaxOccur != nil && occurrences > *rule.MaxOccur {
		emit(Issue{Rule: rule, RowNumber: row.RowNumber, Severity: rule.severity(),
			Message: fmt.Sprintf("expected at most %d instance(s) of %s but found %d",
				*rule.MaxOccur, rule.Pattern, occurrences)})
	}

	if rule.CorrelationKey != nil && len(st.indices) > 0 && len(st.corrIndices) > 0 {
		corrPresent := false
		for _, i := range st.corrIndices {
			if strings.TrimSpace(row.Values[i]) != "" {
				corrPresent = true
				break
			}
		}
		if (occurrences > 0) != corrPresent {
			emit(Issue{Rule: rule, RowNumber: row.RowNumber, Severity: rule.severity(),
				Message: fmt.Sprintf("%s and %s must be present together",
					rule.Pattern, rule.CorrelationKey)})
		}
	}
}

func (st *ruleState) validateValue(v string, rowNumber int, col *hxl.Column, emit func(Issue)) {
	rule := st.rule

	switch rule.DataType {
	case TypeNumber:
		if !hxl.IsNumber(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not a number", v)})
			return
		}
	case TypeDate:
		if !hxl.IsDate(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not a recognized date", v)})
			return
		}
		if rule.ConsistentDates {
			layout := hxl.DateLayoutOf(v)
			if st.dateLayout == "" {
				st.dateLayout = layout
			} else if layout != st.dateLayout {
				emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
					Severity: SeverityWarning, Value: v,
					Message: fmt.Sprintf("%q uses a different date format than earlier values", v)})
			}
		}
	case TypeEmail:
		if !emailRe.MatchString(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not an email address", v)})
			return
		}
	case TypePhone:
		if !phoneRe.MatchString(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not a phone number", v)})
			return
		}
	case TypeURL:
		u, err := url.Parse(v)
		if err != nil || u.Scheme == "" || u.Host == "" {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not a URL", v)})
			return
		}
	}

	if rule.MinValue != nil || rule.MaxValue != nil {
		if n, err := hxl.ParseNumber(v); err == nil {
			if rule.MinValue != nil && n < *rule.MinValue {
				emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
					Severity: rule.severity(), Value: v,
					Message: fmt.Sprintf("%v is below the minimum %v", n, *rule.MinValue)})
			}
			if rule.MaxValue != nil && n > *rule.MaxValue {
				emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
					Severity: rule.severity(), Value: v,
					Message: fmt.Sprintf("%v is above the maximum %v", n, *rule.MaxValue)})
			}
		}
	}

	if len(rule.Enum) > 0 {
		found := false
		for _, e := range rule.Enum {
			if v == e || (rule.Fold && strings.EqualFold(v, e)) {
				found = true
				break
			}
		}
		if !found {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q is not an allowed value (%s)", v, strings.Join(rule.Enum, "|"))})
		}
	}

	switch rule.Case {
	case "upper":
		if v != strings.ToUpper(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q should be upper case", v)})
		}
	case "lower":
		if v != strings.ToLower(v) {
			emit(Issue{Rule: rule, Column: col, RowNumber: rowNumber,
				Severity: rule.severity(), Value: v,
				Message: fmt.Sprintf("%q should be lower case", v)})
		}
	}
}
