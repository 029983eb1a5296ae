package hxl

import (
	"regexp"
	"strconv"
	"strings"
)

// opRe splits a query expression at its comparison operator. Two-character
// operators come first so "<=" is not read as "<" followed by "=".
var opRe = regexp.MustCompile(`<=|>=|!=|!~|~=|<|>|=`)

// Query tests row values: a tag pattern selecting columns, a comparison
// operator, and a literal operand. The textual form is "pattern OP value",
// e.g. "#sector=WASH" or "#affected+f>100".
//
// Numeric operators (<, <=, >, >=) coerce both sides with locale-independent
// decimal parsing; coercion failure makes the comparison a non-match rather
// than a fault. ~= and !~ apply a regular expression compiled once at parse
// time. = and != compare numerically when both sides coerce, otherwise as
// trimmed strings.
type Query struct {
	Pattern TagPattern
	Op      string
	Operand string

	// Fold enables case-insensitive string comparison for = and !=.
	Fold bool

	re           *regexp.Regexp
	operandNum   float64
	operandIsNum bool
}

// ParseQuery parses a "pattern OP value" expression. Regex operands are
// compiled here; a bad regex is a ParseError at construction, not at
// evaluation.
func ParseQuery(text string) (*Query, error) {
	loc := opRe.FindStringIndex(text)
	if loc == nil {
		return nil, parseErrorf(text, "query has no comparison operator")
	}
	pattern, err := ParsePattern(text[:loc[0]])
	if err != nil {
		return nil, err
	}
	q := &Query{
		Pattern: pattern,
		Op:      text[loc[0]:loc[1]],
		Operand: strings.TrimSpace(text[loc[1]:]),
	}
	switch q.Op {
	case "~=", "!~":
		re, err := regexp.Compile(q.Operand)
		if err != nil {
			return nil, parseErrorf(q.Operand, "bad regular expression: %v", err)
		}
		q.re = re
	default:
		if n, err := strconv.ParseFloat(q.Operand, 64); err == nil {
			q.operandNum = n
			q.operandIsNum = true
		}
	}
	return q, nil
}

// ParseQueries parses a list of query expressions.
func ParseQueries(exprs []string) ([]*Query, error) {
	var out []*Query
	for _, e := range exprs {
		q, err := ParseQuery(e)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// MustQuery parses a query and panics on error. For tests and literals.
func MustQuery(text string) *Query {
	q, err := ParseQuery(text)
	if err != nil {
		panic(err)
	}
	return q
}

// Match evaluates the query against one row: the row matches if any column
// matching the pattern holds a value satisfying the operator (OR across
// matching columns). A row with no matching columns is a non-match.
func (q *Query) Match(row *Row) bool {
	for i, c := range row.Columns {
		if i >= len(row.Values) {
			break
		}
		if q.Pattern.Match(c) && q.MatchValue(row.Values[i]) {
			return true
		}
	}
	return false
}

// MatchValue tests a single value against the operator and operand.
func (q *Query) MatchValue(value string) bool {
	switch q.Op {
	case "~=":
		return q.re.MatchString(value)
	case "!~":
		return !q.re.MatchString(value)
	case "<", "<=", ">", ">=":
		if !q.operandIsNum {
			return false
		}
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return false
		}
		switch q.Op {
		case "<":
			return n < q.operandNum
		case "<=":
			return n <= q.operandNum
		case ">":
			return n > q.operandNum
		default:
			return n >= q.operandNum
		}
	case "=", "!=":
		eq := q.valueEquals(value)
		if q.Op == "=" {
			return eq
		}
		return !eq
	}
	return false
}

func (q *Query) valueEquals(value string) bool {
	if q.operandIsNum {
		if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return n == q.operandNum
		}
	}
	v := strings.TrimSpace(value)
	if q.Fold {
		return strings.EqualFold(v, q.Operand)
	}
	return v == q.Operand
}

// MatchAny reports whether the row matches any of the queries. An empty
// query list matches every row.
func MatchAny(queries []*Query, row *Row) bool {
	if len(queries) == 0 {
		return true
	}
	for _, q := range queries {
		if q.Match(row) {
			return true
		}
	}
	return false
}
