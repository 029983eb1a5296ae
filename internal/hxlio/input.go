// Package hxlio is the input/output edge used by the command-line tools: it
// turns CSV bytes from a file or URL into the core Dataset contract and
// writes Datasets back out as CSV or JSON. The core pipeline never depends
// on this package.
package hxlio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"hxltab/pkg/hxl"
)

const utf8BOM = "\uFEFF"

// Options tunes CSV reading.
type Options struct {
	Delimiter rune // default ','
	TrimSpace bool // trim each cell (default on via DefaultOptions)
}

// DefaultOptions returns the options the command-line tools use.
func DefaultOptions() Options {
	return Options{Delimiter: ',', TrimSpace: true}
}

// Open reads a dataset from a local path or an http(s) URL.
func Open(ctx context.Context, location string, opt Options) (hxl.Dataset, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return OpenURL(ctx, location, opt)
	}
	return OpenFile(location, opt)
}

// OpenFile reads a dataset from a local CSV file.
func OpenFile(path string, opt Options) (hxl.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return NewCSVDataset(f, opt)
}

// OpenURL streams a dataset from a URL. The body is read lazily as the
// pipeline pulls rows; a non-200 status is an error here, before any stage
// is built.
func OpenURL(ctx context.Context, url string, opt Options) (hxl.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return NewCSVDataset(resp.Body, opt)
}

// NewCSVDataset wraps a CSV byte stream as a single-pass Dataset. Input is
// normalized to Unicode NFC and the UTF-8 BOM is stripped; the hashtag
// header row is located within the first rows, and the text row above it, if
// any, supplies column headers. If r is an io.Closer it is closed when the
// row stream ends or faults.
func NewCSVDataset(r io.Reader, opt Options) (hxl.Dataset, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	cr := csv.NewReader(transform.NewReader(r, norm.NFC))
	cr.Comma = opt.Delimiter
	cr.FieldsPerRecord = -1 // ragged input is routine; shape is enforced per row

	d := &csvDataset{cr: cr, opt: opt}
	if c, ok := r.(io.Closer); ok {
		d.closer = c
	}
	if err := d.readHeader(); err != nil {
		d.close()
		return nil, err
	}
	return d, nil
}

type csvDataset struct {
	cr     *csv.Reader
	closer io.Closer
	opt    Options

	columns  hxl.ColumnSpec
	line     int // source row number of the next row to read
	consumed bool
	done     bool
}

func (d *csvDataset) close() {
	if d.closer != nil {
		d.closer.Close()
		d.closer = nil
	}
}

func (d *csvDataset) readRaw() ([]string, error) {
	rec, err := d.cr.Read()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(rec))
	for i, cell := range rec {
		if i == 0 {
			cell = strings.TrimPrefix(cell, utf8BOM)
		}
		if d.opt.TrimSpace {
			cell = strings.TrimSpace(cell)
		}
		out[i] = cell
	}
	return out, nil
}

// readHeader scans forward for the hashtag header row, buffering the raw
// rows it reads so nothing is lost if detection fails late.
func (d *csvDataset) readHeader() error {
	var buffered [][]string
	for len(buffered) < 25 {
		rec, err := d.readRaw()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		buffered = append(buffered, rec)
		spec, ok := tryTagRow(rec)
		if !ok {
			continue
		}
		if n := len(buffered); n > 1 {
			header := buffered[n-2]
			for j := range spec {
				if j < len(header) {
					spec[j].Header = header[j]
				}
			}
		}
		d.columns = spec
		d.line = len(buffered)
		return nil
	}
	return &hxl.ParseError{Message: "no hashtag header row found in the first 25 rows"}
}

func tryTagRow(cells []string) (hxl.ColumnSpec, bool) {
	spec := make(hxl.ColumnSpec, len(cells))
	tagged := 0
	for i, cell := range cells {
		col, err := hxl.NewColumn("", strings.TrimSpace(cell), i)
		if err != nil {
			return nil, false
		}
		if col.Tagged() {
			tagged++
		}
		spec[i] = col
	}
	return spec, tagged > 0
}

func (d *csvDataset) Columns() (hxl.ColumnSpec, error) { return d.columns, nil }

func (d *csvDataset) Rows() (hxl.RowIterator, error) {
	if d.consumed {
		return nil, &hxl.StructuralFault{
			Message: "single-pass source already consumed; wrap it in Cache to re-iterate",
		}
	}
	d.consumed = true
	n := 0
	return hxl.RowIteratorFunc(func() (*hxl.Row, error) {
		if d.done {
			return nil, io.EOF
		}
		rec, err := d.readRaw()
		if err == io.EOF {
			d.done = true
			d.close()
			return nil, io.EOF
		}
		if err != nil {
			d.done = true
			d.close()
			return nil, err
		}
		if len(rec) > len(d.columns) {
			d.done = true
			d.close()
			return nil, &hxl.StructuralFault{
				Message: fmt.Sprintf("source row %d has %d cells for %d columns",
					d.line, len(rec), len(d.columns)),
			}
		}
		values := make([]string, len(d.columns))
		copy(values, rec)
		row := &hxl.Row{
			Columns:         d.columns,
			Values:          values,
			RowNumber:       n,
			SourceRowNumber: d.line,
		}
		n++
		d.line++
		return row, nil
	}), nil
}
