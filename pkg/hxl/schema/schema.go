// Package schema implements declarative rule sets for validating tagged
// tabular data, with structured error/warning reporting.
//
// A schema is an ordered list of rules, each bound to a tag pattern. Schemas
// load from Go values, from YAML documents, or from the same two-row-header
// tabular representation as the data they validate (columns tagged
// #valid_tag, #valid_required, #valid_datatype, and friends), so schemas and
// datasets share one on-the-wire shape.
package schema

import (
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"hxltab/pkg/hxl"
)

// Data types checked by rules. An empty DataType imposes no type constraint.
const (
	TypeText   = "text"
	TypeNumber = "number"
	TypeDate   = "date"
	TypeEmail  = "email"
	TypePhone  = "phone"
	TypeURL    = "url"
)

// Severities for validation issues. Warnings never fail validation.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Rule is one declarative constraint bound to a tag pattern.
type Rule struct {
	Pattern  hxl.TagPattern
	Required bool

	// Per-row occurrence bounds across the columns matching Pattern.
	MinOccur *int
	MaxOccur *int

	// MinRows is a dataset-wide floor on the number of rows carrying a
	// non-empty value for Pattern, checked once after the pass.
	MinRows *int

	DataType string
	MinValue *float64
	MaxValue *float64
	Enum     []string
	Fold     bool // case-insensitive Enum membership

	// Case flags values not conforming to a convention: "upper" or "lower".
	Case string

	// ConsistentDates warns when date values mix input formats.
	ConsistentDates bool

	// CorrelationKey requires the correlated columns to be present in a row
	// exactly when this rule's columns are.
	CorrelationKey hxl.PatternList

	// Unique flags repeated values; UniqueKey flags repeated value tuples
	// across the listed patterns. Both are cross-row checks.
	Unique    bool
	UniqueKey hxl.PatternList

	Severity    string // defaults to error
	Description string
}

func (r *Rule) severity() string {
	if r.Severity == "" {
		return SeverityError
	}
	return r.Severity
}

// Schema is an ordered rule list plus dataset-level checks.
type Schema struct {
	Rules []*Rule

	// RequireTaggedColumns fails validation when the dataset has no tagged
	// column at all.
	RequireTaggedColumns bool

	// FlagEmptyColumns warns about tagged columns with no non-empty value
	// anywhere in the dataset.
	FlagEmptyColumns bool
}

// Default returns the built-in minimal schema used when validation is
// requested without an explicit schema: at least one tagged column must be
// present, completely empty tagged columns draw a warning, and no type
// constraints are imposed.
func Default() *Schema {
	return &Schema{RequireTaggedColumns: true, FlagEmptyColumns: true}
}

// ---- tabular schema representation ----

// Column tags recognized in the tabular schema form.
var schemaPatterns = struct {
	tag, required, minOccur, maxOccur, minRows, datatype,
	minValue, maxValue, valueList, valueCase, unique,
	correlation, severity, description hxl.TagPattern
}{
	tag:         hxl.MustPattern("#valid_tag"),
	required:    hxl.MustPattern("#valid_required-min-max"),
	minOccur:    hxl.MustPattern("#valid_required+min"),
	maxOccur:    hxl.MustPattern("#valid_required+max"),
	minRows:     hxl.MustPattern("#valid_required+rows"),
	datatype:    hxl.MustPattern("#valid_datatype"),
	minValue:    hxl.MustPattern("#valid_value+min"),
	maxValue:    hxl.MustPattern("#valid_value+max"),
	valueList:   hxl.MustPattern("#valid_value+list"),
	valueCase:   hxl.MustPattern("#valid_value+case"),
	unique:      hxl.MustPattern("#valid_unique"),
	correlation: hxl.MustPattern("#valid_correlation"),
	severity:    hxl.MustPattern("#valid_severity"),
	description: hxl.MustPattern("#description"),
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes", "true", "1":
		return true
	}
	return false
}

// FromDataset reads a schema from its tabular representation: one rule per
// row, columns selected by the #valid_* tags.
func FromDataset(d hxl.Dataset) (*Schema, error) {
	rows, err := hxl.ReadAll(d)
	if err != nil {
		return nil, err
	}
	s := &Schema{}
	for _, row := range rows {
		tag, ok := row.Get(schemaPatterns.tag)
		if !ok || strings.TrimSpace(tag) == "" {
			continue
		}
		pattern, err := hxl.ParsePattern(tag)
		if err != nil {
			return nil, err
		}
		rule := &Rule{Pattern: pattern}
		if v, _ := row.Get(schemaPatterns.required); truthy(v) {
			rule.Required = true
		}
		if v, _ := row.Get(schemaPatterns.minOccur); strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, &hxl.ParseError{Message: "bad minimum occurrence", Input: v}
			}
			rule.MinOccur = &n
		}
		if v, _ := row.Get(schemaPatterns.maxOccur); strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, &hxl.ParseError{Message: "bad maximum occurrence", Input: v}
			}
			rule.MaxOccur = &n
		}
		if v, _ := row.Get(schemaPatterns.minRows); strings.TrimSpace(v) != "" {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return nil, &hxl.ParseError{Message: "bad minimum row count", Input: v}
			}
			rule.MinRows = &n
		}
		if v, _ := row.Get(schemaPatterns.datatype); strings.TrimSpace(v) != "" {
			dt, err := normalizeType(v)
			if err != nil {
				return nil, err
			}
			rule.DataType = dt
		}
		if v, _ := row.Get(schemaPatterns.minValue); strings.TrimSpace(v) != "" {
			n, err := hxl.ParseNumber(v)
			if err != nil {
				return nil, &hxl.ParseError{Message: "bad minimum value", Input: v}
			}
			rule.MinValue = &n
		}
		if v, _ := row.Get(schemaPatterns.maxValue); strings.TrimSpace(v) != "" {
			n, err := hxl.ParseNumber(v)
			if err != nil {
				return nil, &hxl.ParseError{Message: "bad maximum value", Input: v}
			}
			rule.MaxValue = &n
		}
		if v, _ := row.Get(schemaPatterns.valueList); strings.TrimSpace(v) != "" {
			for _, item := range strings.Split(v, "|") {
				rule.Enum = append(rule.Enum, strings.TrimSpace(item))
			}
		}
		if v, _ := row.Get(schemaPatterns.valueCase); strings.TrimSpace(v) != "" {
			rule.Case = strings.ToLower(strings.TrimSpace(v))
		}
		if v, _ := row.Get(schemaPatterns.unique); truthy(v) {
			rule.Unique = true
		}
		if v, _ := row.Get(schemaPatterns.correlation); strings.TrimSpace(v) != "" {
			key, err := hxl.ParsePatternList(v)
			if err != nil {
				return nil, err
			}
			rule.CorrelationKey = key
		}
		if v, _ := row.Get(schemaPatterns.severity); strings.TrimSpace(v) != "" {
			rule.Severity = strings.ToLower(strings.TrimSpace(v))
		}
		rule.Description, _ = row.Get(schemaPatterns.description)
		s.Rules = append(s.Rules, rule)
	}
	return s, nil
}

func normalizeType(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case TypeText, "string":
		return TypeText, nil
	case TypeNumber, "numeric", "float", "int", "integer":
		return TypeNumber, nil
	case TypeDate:
		return TypeDate, nil
	case TypeEmail:
		return TypeEmail, nil
	case TypePhone:
		return TypePhone, nil
	case TypeURL:
		return TypeURL, nil
	}
	return "", &hxl.ParseError{Message: "unknown data type", Input: s}
}

// ---- YAML schema representation ----

type yamlRule struct {
	Tag             string   `yaml:"tag"`
	Required        bool     `yaml:"required"`
	MinOccur        *int     `yaml:"min_occur"`
	MaxOccur        *int     `yaml:"max_occur"`
	MinRows         *int     `yaml:"min_rows"`
	DataType        string   `yaml:"datatype"`
	MinValue        *float64 `yaml:"min"`
	MaxValue        *float64 `yaml:"max"`
	Enum            []string `yaml:"enum"`
	Fold            bool     `yaml:"case_insensitive"`
	Case            string   `yaml:"case"`
	ConsistentDates bool     `yaml:"consistent_dates"`
	Correlation     string   `yaml:"correlation"`
	Unique          bool     `yaml:"unique"`
	UniqueKey       string   `yaml:"unique_key"`
	Severity        string   `yaml:"severity"`
	Description     string   `yaml:"description"`
}

type yamlSchema struct {
	RequireTaggedColumns bool       `yaml:"require_tagged_columns"`
	FlagEmptyColumns     bool       `yaml:"flag_empty_columns"`
	Rules                []yamlRule `yaml:"rules"`
}

// FromYAML parses a YAML schema document.
func FromYAML(data []byte) (*Schema, error) {
	var doc yamlSchema
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &hxl.ParseError{Message: "bad schema document: " + err.Error()}
	}
	s := &Schema{
		RequireTaggedColumns: doc.RequireTaggedColumns,
		FlagEmptyColumns:     doc.FlagEmptyColumns,
	}
	for _, yr := range doc.Rules {
		pattern, err := hxl.ParsePattern(yr.Tag)
		if err != nil {
			return nil, err
		}
		rule := &Rule{
			Pattern:         pattern,
			Required:        yr.Required,
			MinOccur:        yr.MinOccur,
			MaxOccur:        yr.MaxOccur,
			MinRows:         yr.MinRows,
			MinValue:        yr.MinValue,
			MaxValue:        yr.MaxValue,
			Enum:            yr.Enum,
			Fold:            yr.Fold,
			Case:            strings.ToLower(yr.Case),
			ConsistentDates: yr.ConsistentDates,
			Unique:          yr.Unique,
			Severity:        strings.ToLower(yr.Severity),
			Description:     yr.Description,
		}
		if yr.DataType != "" {
			dt, err := normalizeType(yr.DataType)
			if err != nil {
				return nil, err
			}
			rule.DataType = dt
		}
		if yr.Correlation != "" {
			key, err := hxl.ParsePatternList(yr.Correlation)
			if err != nil {
				return nil, err
			}
			rule.CorrelationKey = key
		}
		if yr.UniqueKey != "" {
			key, err := hxl.ParsePatternList(yr.UniqueKey)
			if err != nil {
				return nil, err
			}
			rule.UniqueKey = key
		}
		s.Rules = append(s.Rules, rule)
	}
	return s, nil
}
