package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"knnlab/pkg/common"
)

// CSVOptions controls how delimited files are read.
type CSVOptions struct {
	// Header means the first record holds column names.
	Header bool
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// IDColumn means the first column of an unlabeled file is a row identifier.
	IDColumn bool
}

// DefaultCSVOptions matches the layout of the sample iris files:
// a header row, comma separated, label in the last column.
func DefaultCSVOptions() CSVOptions {
	return CSVOptions{Header: true, Comma: ','}
}

func (o CSVOptions) reader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(bufio.NewReader(r))
	if o.Comma != 0 {
		cr.Comma = o.Comma
	}
	cr.FieldsPerRecord = -1 // column counts are checked by ParseRows
	cr.TrimLeadingSpace = true
	return cr
}

// ReadCSV parses a labeled table. Row numbers in a *common.ParseError count data
// rows only, starting at 0, regardless of the header.
func ReadCSV(r io.Reader, opts CSVOptions) (*Table, error) {
	records, err := opts.reader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}

	var header []string
	if opts.Header && len(records) > 0 {
		header, records = records[0], records[1:]
	}

	t, err := ParseRows(records)
	if err != nil {
		return nil, err
	}
	if header != nil && len(header) == t.Dim()+1 && t.Len() > 0 {
		return t.WithNames(header[:len(header)-1])
	}
	return t, nil
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return t, nil
}

// UnlabeledRow is a query vector waiting for a predicted label.
type UnlabeledRow struct {
	ID     string
	Vector common.FeatureVector
}

// ReadUnlabeledCSV reads rows made only of feature columns, optionally preceded
// by an identifier column. Without an identifier the 1-based row ordinal is used.
func ReadUnlabeledCSV(r io.Reader, opts CSVOptions) ([]UnlabeledRow, error) {
	records, err := opts.reader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrParse, err)
	}
	if opts.Header && len(records) > 0 {
		records = records[1:]
	}

	rows := make([]UnlabeledRow, 0, len(records))
	width := -1
	for i, rec := range records {
		id := strconv.Itoa(i + 1)
		cells := rec
		if opts.IDColumn {
			if len(rec) < 2 {
				return nil, &common.ParseError{Row: i, Column: -1, Err: errShortRow}
			}
			id, cells = strings.TrimSpace(rec[0]), rec[1:]
		}
		if len(cells) == 0 {
			return nil, &common.ParseError{Row: i, Column: -1, Err: errors.New("row has no feature columns")}
		}
		if width < 0 {
			width = len(cells)
		} else if len(cells) != width {
			return nil, &common.ParseError{Row: i, Column: -1, Err: errColumnCount}
		}

		x, err := parseFeatures(i, cells)
		if err != nil {
			return nil, err
		}
		rows = append(rows, UnlabeledRow{ID: id, Vector: x})
	}
	return rows, nil
}

// WriteCSV writes t with a header row. Columns without names are called f0, f1, ...
// and the label column is called "label".
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)

	header := t.Names()
	if header == nil {
		header = make([]string, t.Dim())
		for j := range header {
			header[j] = "f" + strconv.Itoa(j)
		}
	}
	if err := cw.Write(append(header, "label")); err != nil {
		return err
	}

	rec := make([]string, t.Dim()+1)
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Row(i) {
			rec[j] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		rec[t.Dim()] = string(t.Label(i))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
