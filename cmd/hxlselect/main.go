// hxlselect filters rows of a hashtag-tagged dataset by row queries and
// writes the result to stdout.
//
//	hxlselect -q '#sector=WASH' -q '#affected>100' data.csv
//	hxlselect -q '#status=active' -r https://example.org/data.csv
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
	flagReverse = flag.Bool("r", false, "keep rows that match NO query instead")
	flagJSON    = flag.Bool("json", false, "write JSON objects instead of CSV")
	flagDelim   = flag.String("delimiter", ",", "CSV field delimiter (single character)")
)

var queries []*hxl.Query

func main() {
	flag.Func("q", "row query, e.g. '#sector=WASH' (repeatable; a row passes if any matches)", func(s string) error {
		q, err := hxl.ParseQuery(s)
		if err != nil {
			return err
		}
		queries = append(queries, q)
		return nil
	})
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlselect [flags] <file-or-url>")
	}

	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(context.Background(), flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	out := filters.From(source).WithRows(queries)
	if *flagReverse {
		out = filters.From(source).WithoutRows(queries)
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
