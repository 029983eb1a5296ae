// hxlvalidate checks a hashtag-tagged dataset against a schema and prints a
// findings table. Validation findings are data, not failures: the process
// exits 0 when the run completed and no error-severity finding was raised,
// 2 when error-severity findings exist, and 1 on a fatal processing fault.
//
//	hxlvalidate -schema rules.csv data.csv
//	hxlvalidate -schema rules.yaml data.csv
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"hxltab/internal/hxlio"
	"hxltab/pkg/hxl/schema"
)

var (
	flagSchema = flag.String("schema", "", "schema file: tabular (.csv, hashtag rows) or YAML (.yaml/.yml); default schema when empty")
	flagDelim  = flag.String("delimiter", ",", "CSV field delimiter (single character)")
	flagQuiet  = flag.Bool("quiet", false, "suppress the findings table, report only the summary line")
)

func loadSchema(ctx context.Context, location string, opt hxlio.Options) (*schema.Schema, error) {
	if location == "" {
		return schema.Default(), nil
	}
	if strings.HasSuffix(location, ".yaml") || strings.HasSuffix(location, ".yml") {
		data, err := os.ReadFile(location)
		if err != nil {
			return nil, err
		}
		return schema.FromYAML(data)
	}
	d, err := hxlio.Open(ctx, location, opt)
	if err != nil {
		return nil, err
	}
	return schema.FromDataset(d)
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fatalf("usage: hxlvalidate [flags] <file-or-url>")
	}

	ctx := context.Background()
	opt := hxlio.DefaultOptions()
	if *flagDelim != "" {
		opt.Delimiter = rune((*flagDelim)[0])
	}

	s, err := loadSchema(ctx, *flagSchema, opt)
	if err != nil {
		fatalf("load schema: %v", err)
	}
	source, err := hxlio.Open(ctx, flag.Arg(0), opt)
	if err != nil {
		fatalf("open input: %v", err)
	}

	report, err := schema.Validate(source, s, nil)
	if err != nil {
		fatalf("validate: %v", err)
	}

	if !*flagQuiet && len(report.Issues) > 0 {
		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Severity", "Row", "Column", "Value", "Message"})
		for _, issue := range report.Issues {
			row := ""
			if issue.RowNumber >= 0 {
				row = strconv.Itoa(issue.RowNumber)
			}
			column := ""
			if issue.Column != nil {
				column = issue.Column.DisplayTag()
			}
			table.Append([]string{issue.Severity, row, column, issue.Value, issue.Message})
		}
		table.Render()
	}

	fmt.Printf("%d errors, %d warnings\n", report.Errors(), report.Warnings())
	if !report.OK() {
		os.Exit(2)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
