package hxl

import "strings"

// TagPattern selects columns by hashtag and attribute presence or absence.
//
// The textual form is "#tag" followed by any number of "+attr" (require) and
// "-attr" (exclude) qualifiers in any order, with an optional trailing '!'
// marking the pattern absolute: an absolute pattern rejects columns carrying
// attributes beyond the required ones. "#*" (or a bare attribute list)
// matches any hashtag and filters on attributes alone; such a pattern must
// carry at least one attribute qualifier.
type TagPattern struct {
	Tag               string   // lower-cased with leading '#'; "" matches any tag
	IncludeAttributes []string // all must be present
	ExcludeAttributes []string // none may be present
	Absolute          bool     // no attributes allowed beyond IncludeAttributes
}

// PatternList is an ordered list of patterns combined with OR semantics.
type PatternList []TagPattern

// ParsePattern parses a single tag pattern.
func ParsePattern(text string) (TagPattern, error) {
	orig := text
	s := strings.TrimSpace(strings.ToLower(text))
	if s == "" {
		return TagPattern{}, parseErrorf(orig, "empty tag pattern")
	}

	var p TagPattern
	if strings.HasSuffix(s, "!") {
		p.Absolute = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "!"))
	}

	// Split off the tag segment: everything before the first '+' or '-'.
	rest := s
	if strings.HasPrefix(s, "#") {
		end := strings.IndexAny(s, "+-")
		tagSeg := s
		if end >= 0 {
			tagSeg = s[:end]
			rest = s[end:]
		} else {
			rest = ""
		}
		if tagSeg != "#" && tagSeg != "#*" {
			if !tokenRe.MatchString(tagSeg[1:]) {
				return TagPattern{}, parseErrorf(orig, "malformed hashtag in pattern")
			}
			p.Tag = tagSeg
		}
	}

	for rest != "" {
		op := rest[0]
		if op != '+' && op != '-' {
			return TagPattern{}, parseErrorf(orig, "unexpected token in pattern")
		}
		rest = rest[1:]
		end := strings.IndexAny(rest, "+-")
		var name string
		if end >= 0 {
			name, rest = rest[:end], rest[end:]
		} else {
			name, rest = rest, ""
		}
		name = strings.TrimSpace(name)
		if !tokenRe.MatchString(name) {
			return TagPattern{}, parseErrorf(orig, "malformed attribute %q in pattern", name)
		}
		if op == '+' {
			p.IncludeAttributes = append(p.IncludeAttributes, name)
		} else {
			p.ExcludeAttributes = append(p.ExcludeAttributes, name)
		}
	}

	if p.Tag == "" && len(p.IncludeAttributes) == 0 && len(p.ExcludeAttributes) == 0 {
		return TagPattern{}, parseErrorf(orig, "wildcard pattern needs at least one attribute qualifier")
	}
	return p, nil
}

// ParsePatternList parses a comma-separated list of tag patterns.
func ParsePatternList(text string) (PatternList, error) {
	var list PatternList
	for _, tok := range strings.Split(text, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		p, err := ParsePattern(tok)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	if len(list) == 0 {
		return nil, parseErrorf(text, "empty pattern list")
	}
	return list, nil
}

// MustPattern parses a pattern and panics on error. For tests and literals.
func MustPattern(text string) TagPattern {
	p, err := ParsePattern(text)
	if err != nil {
		panic(err)
	}
	return p
}

// MustPatterns parses a comma-separated pattern list and panics on error.
func MustPatterns(text string) PatternList {
	l, err := ParsePatternList(text)
	if err != nil {
		panic(err)
	}
	return l
}

// Match reports whether the pattern matches the column. Untagged columns
// never match. Matching is pure and deterministic.
func (p TagPattern) Match(c Column) bool {
	if !c.Tagged() {
		return false
	}
	if p.Tag != "" && p.Tag != c.Tag {
		return false
	}
	for _, a := range p.IncludeAttributes {
		if !c.HasAttribute(a) {
			return false
		}
	}
	for _, a := range p.ExcludeAttributes {
		if c.HasAttribute(a) {
			return false
		}
	}
	if p.Absolute {
		for _, a := range c.Attributes {
			if !contains(p.IncludeAttributes, a) {
				return false
			}
		}
	}
	return true
}

// String renders the pattern back to its textual form.
func (p TagPattern) String() string {
	var b strings.Builder
	if p.Tag != "" {
		b.WriteString(p.Tag)
	} else {
		b.WriteString("#*")
	}
	for _, a := range p.IncludeAttributes {
		b.WriteByte('+')
		b.WriteString(a)
	}
	for _, a := range p.ExcludeAttributes {
		b.WriteByte('-')
		b.WriteString(a)
	}
	if p.Absolute {
		b.WriteByte('!')
	}
	return b.String()
}

// TagSpec renders the pattern as a column tag spec: the hashtag plus the
// required attributes. Used when a filter materializes a new column for a
// pattern (merge targets, count groups).
func (p TagPattern) TagSpec() string {
	var b strings.Builder
	b.WriteString(p.Tag)
	for _, a := range p.IncludeAttributes {
		b.WriteByte('+')
		b.WriteString(a)
	}
	return b.String()
}

// Match reports whether any pattern in the list matches the column.
func (l PatternList) Match(c Column) bool {
	for _, p := range l {
		if p.Match(c) {
			return true
		}
	}
	return false
}

// Select returns the columns matching the list, preserving spec order.
// Selection is idempotent: re-running it over its own output yields the same
// ordered subsequence.
func (l PatternList) Select(spec ColumnSpec) ColumnSpec {
	var out ColumnSpec
	for _, c := range spec {
		if l.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Indices returns the spec positions of the matching columns, in spec order.
func (l PatternList) Indices(spec ColumnSpec) []int {
	var out []int
	for i, c := range spec {
		if l.Match(c) {
			out = append(out, i)
		}
	}
	return out
}

// String renders the list as a comma-separated pattern expression.
func (l PatternList) String() string {
	parts := make([]string, len(l))
	for i, p := range l {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
