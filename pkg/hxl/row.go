package hxl

// Row is one data row, aligned 1:1 with the owning stage's ColumnSpec. Rows
// are immutable once emitted and may be shared by reference; filters that
// rewrite values always build a fresh value slice.
type Row struct {
	Columns         ColumnSpec
	Values          []string
	RowNumber       int // 0-based position in the (possibly filtered) output
	SourceRowNumber int // 0-based position in the original input
}

// Get returns the value of the first column matching the pattern, and
// whether any column matched.
func (r *Row) Get(p TagPattern) (string, bool) {
	for i, c := range r.Columns {
		if i >= len(r.Values) {
			break
		}
		if p.Match(c) {
			return r.Values[i], true
		}
	}
	return "", false
}

// GetAll returns the values of every column matching the pattern, in column
// order.
func (r *Row) GetAll(p TagPattern) []string {
	var out []string
	for i, c := range r.Columns {
		if i >= len(r.Values) {
			break
		}
		if p.Match(c) {
			out = append(out, r.Values[i])
		}
	}
	return out
}

// Check verifies the row's value count against its column spec. Every
// operator calls this on the rows it pulls; a mismatch is a StructuralFault,
// never silently tolerated.
func (r *Row) Check() error {
	if len(r.Values) != len(r.Columns) {
		return structuralf("row %d has %d values for %d columns",
			r.SourceRowNumber, len(r.Values), len(r.Columns))
	}
	return nil
}
