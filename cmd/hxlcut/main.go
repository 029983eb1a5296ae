// hxlcut selects or removes columns of a hashtag-tagged dataset by tag
// pattern and writes the result to stdout.
//
//	hxlcut -i '#org,#sector' data.csv
//	hxlcut -x '#contact+email' data.csv
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
	flagInclude = flag.String("i", "", "comma-separated tag patterns of columns to keep")
	flagExclude = flag.String("x", "", "comma-separated tag patterns of columns to remove")
	flagJSON    = flag.Bool("json", false, "write JSON objects instead of CSV")
	flagDelim   = flag.String("delimiter", ",", "CSV field delimiter (single character)")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlcut [flags] <file-or-url>")
	}
	if (*flagInclude == "") == (*flagExclude == "") {
		fatalf("exactly one of -i or -x is required")
	}

	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(context.Background(), flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	var out filters.Pipeline
	if *flagInclude != "" {
		patterns, err := hxl.ParsePatternList(*flagInclude)
		if err != nil {
			fatalf("-i: %v", err)
		}
		out = filters.From(source).WithColumns(patterns)
	} else {
		patterns, err := hxl.ParsePatternList(*flagExclude)
		if err != nil {
			fatalf("-x: %v", err)
		}
		out = filters.From(source).WithoutColumns(patterns)
	}

	if *flagJSON {
		err = hxlio.WriteJSON(os.Stdout, out.Dataset(), true)
	} else {
		err = hxlio.WriteCSV(os.Stdout, out.Dataset())
	}
	if err != nil {
		fatalf("%v", err)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
