// hxlclean normalizes cell values in place: whitespace, letter case, dates
// and numbers, each restricted to the columns a tag-pattern list selects.
//
//	hxlclean -w '#*+name' -d '#date' -n '#affected' data.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"hxltab/internal/hxlio"
	"hxltab/pkg/hxl"
	"hxltab/pkg/hxl/filters"
)

var (
	flagWhitespace = flag.String("w", "", "patterns of columns to whitespace-normalize")
	flagUpper      = flag.String("u", "", "patterns of columns to uppercase")
	flagLower      = flag.String("l", "", "patterns of columns to lowercase")
	flagDates      = flag.String("d", "", "patterns of columns to normalize to ISO dates")
	flagNumbers    = flag.String("n", "", "patterns of columns to normalize numerically")
	flagJSON       = flag.Bool("json", false, "write JSON objects instead of CSV")
	flagDelim      = flag.String("delimiter", ",", "CSV field delimiter (single character)")
)

var queries []*hxl.Query

func patternsOf(name, s string) hxl.PatternList {
	if s == "" {
		return nil
	}
	patterns, err := hxl.ParsePatternList(s)
	if err != nil {
		fatalf("-%s: %v", name, err)
	}
	return patterns
}

func main() {
	flag.Func("q", "only clean rows matching a query (repeatable)", func(s string) error {
		q, err := hxl.ParseQuery(s)
		if err != nil {
			return err
		}
		queries = append(queries, q)
		return nil
	})
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlclean [flags] <file-or-url>")
	}

	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(context.Background(), flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	out := filters.From(source).Clean(filters.Clean{
		Whitespace: patternsOf("w", *flagWhitespace),
		Upper:      patternsOf("u", *flagUpper),
		Lower:      patternsOf("l", *flagLower),
		Dates:      patternsOf("d", *flagDates),
		Numbers:    patternsOf("n", *flagNumbers),
		Queries:    queries,
	}).Dataset()

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
