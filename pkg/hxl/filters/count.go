package filters

import (
	"strconv"
	"strings"
	"sync"

	"hxltab/pkg/hxl"
)

// Aggregator types supported by Count.
const (
	AggCount   = "count"
	AggSum     = "sum"
	AggAverage = "average"
	AggMin     = "min"
	AggMax     = "max"
	AggConcat  = "concat"
)

// Aggregator describes one aggregate output column: the operation, the value
// pattern it reads (ignored for count), and the output column's header and
// tag spec.
type Aggregator struct {
	Type    string
	Pattern hxl.TagPattern
	Header  string
	TagSpec string
}

// CountAggregator is the default aggregator emitted when none are
// configured: one row count per group under #x_total_num.
func CountAggregator() Aggregator {
	return Aggregator{Type: AggCount, Header: "Count", TagSpec: "#x_total_num"}
}

// aggState accumulates one aggregator's running values for one group.
type aggState struct {
	count  int
	sum    float64
	n      int
	min    float64
	max    float64
	seen   bool
	concat []string
}

func (s *aggState) add(agg Aggregator, row *hxl.Row) {
	s.count++
	if agg.Type == AggCount {
		return
	}
	value, ok := row.Get(agg.Pattern)
	if !ok {
		return
	}
	if agg.Type == AggConcat {
		if value != "" {
			s.concat = append(s.concat, value)
		}
		return
	}
	n, err := hxl.ParseNumber(value)
	if err != nil {
		return
	}
	s.sum += n
	s.n++
	if !s.seen || n < s.min {
		s.min = n
	}
	if !s.seen || n > s.max {
		s.max = n
	}
	s.seen = true
}

func (s *aggState) result(agg Aggregator) string {
	switch agg.Type {
	case AggCount:
		return strconv.Itoa(s.count)
	case AggConcat:
		return strings.Join(s.concat, "|")
	}
	if !s.seen {
		return ""
	}
	switch agg.Type {
	case AggSum:
		return formatNumber(s.sum)
	case AggAverage:
		return formatNumber(s.sum / float64(s.n))
	case AggMin:
		return formatNumber(s.min)
	case AggMax:
		return formatNumber(s.max)
	}
	return ""
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Count groups rows by the value tuple selected by the grouping patterns
// (first matching column per pattern; missing values normalize to an empty
// key component) and emits one row per group in first-seen order: grouping
// values first, aggregate results after. With an empty pattern list it
// produces a single row for the whole dataset. Full-buffer group
// accumulation; the upstream is drained exactly once.
type Count struct {
	Source      hxl.Dataset
	Patterns    hxl.PatternList
	Aggregators []Aggregator

	cols columnSet
	once sync.Once
	rows []*hxl.Row
	err  error
}

func (f *Count) aggregators() []Aggregator {
	if len(f.Aggregators) == 0 {
		return []Aggregator{CountAggregator()}
	}
	return f.Aggregators
}

func (f *Count) Columns() (hxl.ColumnSpec, error) {
	return f.cols.get(func() (hxl.ColumnSpec, error) {
		src, err := f.Source.Columns()
		if err != nil {
			return nil, err
		}
		var out hxl.ColumnSpec
		for _, p := range f.Patterns {
			spec, header := p.TagSpec(), ""
			if matched := (hxl.PatternList{p}).Select(src); len(matched) > 0 {
				spec = matched[0].DisplayTag()
				header = matched[0].Header
			}
			c, err := hxl.NewColumn(header, spec, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		for _, agg := range f.aggregators() {
			c, err := hxl.NewColumn(agg.Header, agg.TagSpec, 0)
			if err != nil {
				return nil, err
			}
			out = append(out, c)
		}
		return out.Reindex(), nil
	})
}

func (f *Count) build() error {
	f.once.Do(func() {
		columns, err := f.Columns()
		if err != nil {
			f.err = err
			return
		}
		src, err := hxl.ReadAll(f.Source)
		if err != nil {
			f.err = err
			return
		}
		aggs := f.aggregators()

		type group struct {
			values []string
			states []*aggState
		}
		groups := map[string]*group{}
		var order []string

		for _, row := range src {
			values := make([]string, len(f.Patterns))
			for i, p := range f.Patterns {
				values[i], _ = row.Get(p)
			}
			key := strings.Join(values, "\x1f")
			g, ok := groups[key]
			if !ok {
				g = &group{values: values, states: make([]*aggState, len(aggs))}
				for i := range g.states {
					g.states[i] = &aggState{}
				}
				groups[key] = g
				order = append(order, key)
			}
			for i, agg := range aggs {
				g.states[i].add(agg, row)
			}
		}

		// The un-grouped form reports on the whole dataset, even an empty one.
		if len(f.Patterns) == 0 && len(order) == 0 {
			g := &group{states: make([]*aggState, len(aggs))}
			for i := range g.states {
				g.states[i] = &aggState{}
			}
			groups[""] = g
			order = append(order, "")
		}

		for i, key := range order {
			g := groups[key]
			values := append([]string{}, g.values...)
			for j, agg := range aggs {
				values = append(values, g.states[j].result(agg))
			}
			f.rows = append(f.rows, &hxl.Row{
				Columns:         columns,
				Values:          values,
				RowNumber:       i,
				SourceRowNumber: i,
			})
		}
	})
	return f.err
}

func (f *Count) Rows() (hxl.RowIterator, error) {
	if err := f.build(); err != nil {
		return nil, err
	}
	return hxl.NewSliceIterator(f.rows), nil
}
