// hxlcount groups a hashtag-tagged dataset by one or more tag patterns and
// writes one row per group with aggregate columns.
//
//	hxlcount -tags '#sector' data.csv
//	hxlcount -tags '#org' -agg 'sum(#affected) as Affected#affected+total' data.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"hxltab/internal/hxlio"
	"hxltab/pkg/hxl"
	"hxltab/pkg/hxl/filters"
)

var (
	flagTags  = flag.String("tags", "", "comma-separated tag patterns to group by (empty groups the whole dataset)")
	flagJSON  = flag.Bool("json", false, "write JSON objects instead of CSV")
	flagDelim = flag.String("delimiter", ",", "CSV field delimiter (single character)")
)

var aggregators []filters.Aggregator

// parseAggregator accepts "type(#pattern)" with an optional output column,
// e.g. "sum(#affected) as Affected total#affected+total". The count type
// takes an empty pattern: "count() as Rows#meta+count".
func parseAggregator(s string) (filters.Aggregator, error) {
	var agg filters.Aggregator
	spec, out, _ := strings.Cut(s, " as ")

	open := strings.IndexByte(spec, '(')
	if open < 0 || !strings.HasSuffix(spec, ")") {
		return agg, fmt.Errorf("bad aggregator %q: want type(#pattern)", s)
	}
	agg.Type = strings.TrimSpace(spec[:open])
	switch agg.Type {
	case filters.AggCount, filters.AggSum, filters.AggAverage,
		filters.AggMin, filters.AggMax, filters.AggConcat:
	default:
		return agg, fmt.Errorf("unknown aggregator type %q", agg.Type)
	}

	inner := strings.TrimSpace(spec[open+1 : len(spec)-1])
	if agg.Type != filters.AggCount {
		p, err := hxl.ParsePattern(inner)
		if err != nil {
			return agg, err
		}
		agg.Pattern = p
	}

	out = strings.TrimSpace(out)
	if out == "" {
		def := filters.CountAggregator()
		agg.Header = strings.ToUpper(agg.Type[:1]) + agg.Type[1:]
		agg.TagSpec = def.TagSpec
		if agg.Type != filters.AggCount {
			agg.TagSpec = agg.Pattern.TagSpec()
		}
		return agg, nil
	}
	if i := strings.IndexByte(out, '#'); i >= 0 {
		agg.Header = strings.TrimSpace(out[:i])
		agg.TagSpec = out[i:]
	} else {
		agg.Header = out
	}
	return agg, nil
}

func main() {
	flag.Func("agg", "aggregate column, e.g. 'sum(#affected) as Total#affected+total' (repeatable)", func(s string) error {
		agg, err := parseAggregator(s)
		if err != nil {
			return err
		}
		aggregators = append(aggregators, agg)
		return nil
	})
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlcount [flags] <file-or-url>")
	}

	var patterns hxl.PatternList
	if *flagTags != "" {
		var err error
		patterns, err = hxl.ParsePatternList(*flagTags)
		if err != nil {
			fatalf("-tags: %v", err)
		}
	}

	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(context.Background(), flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	out := filters.From(source).Count(patterns, aggregators).Dataset()
	if *flagJSON {
		err = hxlio.WriteJSON(os.Stdout, out, true)
	} else {
		err = hxlio.WriteCSV(os.Stdout, out)
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
