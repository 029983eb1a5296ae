// Package hxl implements the core model for hashtag-tagged tabular data:
// columns carrying machine-readable hashtags with optional attributes, lazy
// row streams, a tag-pattern matching engine, and a row-query evaluator.
//
// A dataset is a two-part header (an optional text label row plus a mandatory
// hashtag row such as "#org+impl") followed by data rows. Every pipeline
// stage in pkg/hxl/filters consumes and produces the same Dataset contract,
// so stages compose by plain wrapping.
package hxl

import (
	"regexp"
	"strings"
)

// tokenRe matches a bare hashtag or attribute name (without the leading
// '#', '+', or '-').
var tokenRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Column describes one logical column: an optional human-readable header, a
// hashtag beginning with '#', and an ordered, deduplicated set of attributes.
// Columns are immutable once emitted by a pipeline stage.
type Column struct {
	Header     string
	Tag        string   // lower-cased, includes the leading '#'; "" when untagged
	Attributes []string // lower-cased, first-occurrence order, deduplicated
	Index      int      // position in the owning ColumnSpec
}

// NewColumn parses a tag spec such as "#org+impl+funder" into a Column.
// An empty tag spec yields an untagged column, which no pattern matches.
func NewColumn(header, tagSpec string, index int) (Column, error) {
	c := Column{Header: header, Index: index}
	if strings.TrimSpace(tagSpec) == "" {
		return c, nil
	}
	tag, attrs, err := parseTagSpec(tagSpec)
	if err != nil {
		return Column{}, err
	}
	c.Tag = tag
	c.Attributes = attrs
	return c, nil
}

// parseTagSpec parses "#tag+attr1+attr2" into a normalized tag and attribute
// list. The leading '#' is mandatory; attributes are introduced by '+'.
func parseTagSpec(s string) (string, []string, error) {
	orig := s
	s = strings.TrimSpace(strings.ToLower(s))
	if !strings.HasPrefix(s, "#") {
		return "", nil, parseErrorf(orig, "tag spec must begin with '#'")
	}
	parts := strings.Split(s[1:], "+")
	if !tokenRe.MatchString(parts[0]) {
		return "", nil, parseErrorf(orig, "malformed hashtag")
	}
	var attrs []string
	seen := map[string]bool{}
	for _, a := range parts[1:] {
		if !tokenRe.MatchString(a) {
			return "", nil, parseErrorf(orig, "malformed attribute %q", a)
		}
		if !seen[a] {
			seen[a] = true
			attrs = append(attrs, a)
		}
	}
	return "#" + parts[0], attrs, nil
}

// Tagged reports whether the column carries a hashtag.
func (c Column) Tagged() bool { return c.Tag != "" }

// HasAttribute reports whether the column carries the named attribute.
// Comparison is case-insensitive.
func (c Column) HasAttribute(name string) bool {
	name = strings.ToLower(name)
	for _, a := range c.Attributes {
		if a == name {
			return true
		}
	}
	return false
}

// DisplayTag renders the full tag spec, e.g. "#org+impl".
func (c Column) DisplayTag() string {
	if c.Tag == "" {
		return ""
	}
	if len(c.Attributes) == 0 {
		return c.Tag
	}
	return c.Tag + "+" + strings.Join(c.Attributes, "+")
}

// ColumnSpec is the ordered column sequence of one pipeline stage's output.
// Order is significant: it defines row value alignment.
type ColumnSpec []Column

// DisplayTags returns the tag specs of all columns, empty strings for
// untagged ones.
func (s ColumnSpec) DisplayTags() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.DisplayTag()
	}
	return out
}

// Headers returns the header text of all columns.
func (s ColumnSpec) Headers() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Header
	}
	return out
}

// HasTags reports whether at least one column carries a hashtag.
func (s ColumnSpec) HasTags() bool {
	for _, c := range s {
		if c.Tagged() {
			return true
		}
	}
	return false
}

// reindex returns a copy of the spec with Index fields renumbered to match
// slice positions. Stages that slice or reorder columns call this before
// publishing their spec.
func (s ColumnSpec) reindex() ColumnSpec {
	out := make(ColumnSpec, len(s))
	for i, c := range s {
		c.Index = i
		out[i] = c
	}
	return out
}

// Reindex is the exported form of reindex for use by pipeline stages outside
// this package.
func (s ColumnSpec) Reindex() ColumnSpec { return s.reindex() }
