package hxlio

import (
	"encoding/csv"
	"encoding/json"
	"io"

	"hxltab/pkg/hxl"
)

// WriteCSV writes a dataset in the standard on-the-wire shape: an optional
// text header row (emitted only when at least one column has header text),
// the mandatory hashtag row, then the data rows.
func WriteCSV(w io.Writer, d hxl.Dataset) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	cw := csv.NewWriter(w)

	headers := columns.Headers()
	hasHeader := false
	for _, h := range headers {
		if h != "" {
			hasHeader = true
			break
		}
	}
	if hasHeader {
		if err := cw.Write(headers); err != nil {
			return err
		}
	}
	if err := cw.Write(columns.DisplayTags()); err != nil {
		return err
	}

	it, err := d.Rows()
	if err != nil {
		return err
	}
	for {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := cw.Write(row.Values); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes a dataset as a JSON array. With objects set, each row is
// an object keyed by display tag (untagged columns are skipped); otherwise
// the output is an array of arrays led by the tag row.
func WriteJSON(w io.Writer, d hxl.Dataset, objects bool) error {
	columns, err := d.Columns()
	if err != nil {
		return err
	}
	it, err := d.Rows()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)

	if objects {
		var out []map[string]string
		for {
			row, err := it.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return err
			}
			obj := make(map[string]string, len(columns))
			for i, c := range columns {
				if c.Tagged() {
					obj[c.DisplayTag()] = row.Values[i]
				}
			}
			out = append(out, obj)
		}
		return enc.Encode(out)
	}

	out := [][]string{columns.DisplayTags()}
	for {
		row, err := it.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		out = append(out, row.Values)
	}
	return enc.Encode(out)
}
