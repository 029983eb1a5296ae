// hxlmerge joins columns from a second dataset into the primary one, matched
// on a shared key tuple.
//
//	hxlmerge -m lookup.csv -k '#adm1+code' -t '#adm1+name' data.csv
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
	flagMerge   = flag.String("m", "", "file or URL of the dataset to merge from (required)")
	flagKeys    = flag.String("k", "", "comma-separated key patterns shared by both datasets (required)")
	flagTargets = flag.String("t", "", "comma-separated patterns of columns to pull in (required)")
	flagReplace = flag.Bool("replace", false, "overwrite existing matching columns instead of appending")
	flagFirst   = flag.Bool("keep-first", false, "on duplicate keys in the merge source, keep the first row instead of the last")
	flagUnique  = flag.Bool("require-unique", false, "fail if the merge source repeats a key")
	flagJSON    = flag.Bool("json", false, "write JSON objects instead of CSV")
	flagDelim   = flag.String("delimiter", ",", "CSV field delimiter (single character)")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlmerge [flags] <file-or-url>")
	}
	if *flagMerge == "" || *flagKeys == "" || *flagTargets == "" {
		fatalf("-m, -k and -t are all required")
	}

	keys, err := hxl.ParsePatternList(*flagKeys)
	if err != nil {
		fatalf("-k: %v", err)
	}
	targets, err := hxl.ParsePatternList(*flagTargets)
	if err != nil {
		fatalf("-t: %v", err)
	}

	ctx := context.Background()
	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}
	source, err := hxlio.Open(ctx, flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}
	mergeSource, err := hxlio.Open(ctx, *flagMerge, opt)
	if err != nil {
		fatalf("open merge source: %v", err)
	}

	out := &filters.Merge{
		Source:        source,
		MergeSource:   mergeSource,
		Keys:          keys,
		Targets:       targets,
		Replace:       *flagReplace,
		KeepFirst:     *flagFirst,
		RequireUnique: *flagUnique,
	}

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
