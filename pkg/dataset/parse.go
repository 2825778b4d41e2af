package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"knnlab/pkg/common"
)

var (
	errShortRow    = errors.New("row needs at least one feature column and a label")
	errColumnCount = errors.New("column count differs from first row")
	errNotFinite   = errors.New("feature is not a finite number")
	errEmptyLabel  = errors.New("label is empty")
)

// ParseRows builds a Table from string rows where the last column is the label
// and every preceding column is a real number. Row numbers in errors are
// relative to rows.
func ParseRows(rows [][]string) (*Table, error) {
	features := make([][]float64, 0, len(rows))
	labels := make([]common.Label, 0, len(rows))

	width := -1
	for i, rec := range rows {
		if len(rec) < 2 {
			return nil, &common.ParseError{Row: i, Column: -1, Err: errShortRow}
		}
		if width < 0 {
			width = len(rec)
		} else if len(rec) != width {
			return nil, &common.ParseError{Row: i, Column: -1, Err: errColumnCount}
		}

		x, err := parseFeatures(i, rec[:len(rec)-1])
		if err != nil {
			return nil, err
		}
		label := strings.TrimSpace(rec[len(rec)-1])
		if label == "" {
			return nil, &common.ParseError{Row: i, Column: len(rec) - 1, Err: errEmptyLabel}
		}

		features = append(features, x)
		labels = append(labels, common.Label(label))
	}
	return NewTable(features, labels)
}

func parseFeatures(row int, cells []string) (common.FeatureVector, error) {
	x := make(common.FeatureVector, len(cells))
	for j, s := range cells {
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, &common.ParseError{Row: row, Column: j, Value: s, Err: err}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &common.ParseError{Row: row, Column: j, Value: s, Err: errNotFinite}
		}
		x[j] = v
	}
	return x, nil
}
