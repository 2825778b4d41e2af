package dataset

import (
	"errors"
	"testing"

	"knnlab/pkg/common"
)

func TestNewTableRejectsMismatch(t *testing.T) {
	tests := []struct {
		name     string
		features [][]float64
		labels   []common.Label
	}{
		{"label count", [][]float64{{1, 2}, {3, 4}}, []common.Label{"a"}},
		{"ragged rows", [][]float64{{1, 2}, {3}}, []common.Label{"a", "b"}},
		{"zero width", [][]float64{{}}, []common.Label{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTable(tt.features, tt.labels)
			if !errors.Is(err, common.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
		})
	}
}

func TestTableIsImmutable(t *testing.T) {
	src := [][]float64{{1, 2}, {3, 4}}
	tbl, err := NewTable(src, []common.Label{"a", "b"})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	src[0][0] = 99

	if tbl.Row(0)[0] != 1 {
		t.Fatalf("table aliases caller slice: %v", tbl.Row(0))
	}
	feats := tbl.Features()
	feats[1][1] = -1
	if tbl.Row(1)[1] != 4 {
		t.Fatalf("Features() leaked internal storage")
	}
	labels := tbl.Labels()
	labels[0] = "z"
	if tbl.Label(0) != "a" {
		t.Fatalf("Labels() leaked internal storage")
	}
	if tbl.Len() != 2 || tbl.Dim() != 2 {
		t.Errorf("shape: got %dx%d", tbl.Len(), tbl.Dim())
	}
}

func TestSubset(t *testing.T) {
	tbl, err := NewTable([][]float64{{0}, {1}, {2}, {3}}, []common.Label{"a", "b", "c", "d"})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	sub, err := tbl.Subset([]int{3, 1})
	if err != nil {
		t.Fatalf("Subset: %v", err)
	}
	if sub.Len() != 2 || sub.Row(0)[0] != 3 || sub.Label(1) != "b" {
		t.Fatalf("unexpected subset: rows=%d first=%v label=%s", sub.Len(), sub.Row(0), sub.Label(1))
	}
	if _, err := tbl.Subset([]int{4}); !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for out-of-range index, got %v", err)
	}
}

func TestParseRows(t *testing.T) {
	tbl, err := ParseRows([][]string{
		{"5.1", "3.5", "setosa"},
		{" 7.0", "3.2 ", "versicolor"},
	})
	if err != nil {
		t.Fatalf("ParseRows: %v", err)
	}
	if tbl.Dim() != 2 || tbl.Label(1) != "versicolor" || tbl.Row(1)[0] != 7.0 {
		t.Fatalf("unexpected table: dim=%d label=%s row=%v", tbl.Dim(), tbl.Label(1), tbl.Row(1))
	}
}

func TestParseRowsErrors(t *testing.T) {
	tests := []struct {
		name    string
		rows    [][]string
		wantRow int
		wantCol int
	}{
		{"non numeric", [][]string{{"1", "2", "a"}, {"1", "x", "b"}}, 1, 1},
		{"nan", [][]string{{"NaN", "2", "a"}}, 0, 0},
		{"wrong width", [][]string{{"1", "2", "a"}, {"1", "b"}}, 1, -1},
		{"label only", [][]string{{"a"}}, 0, -1},
		{"empty label", [][]string{{"1", " "}}, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRows(tt.rows)
			var pe *common.ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if !errors.Is(err, common.ErrParse) {
				t.Fatalf("expected ErrParse in chain")
			}
			if pe.Row != tt.wantRow || pe.Column != tt.wantCol {
				t.Errorf("position: got row=%d col=%d, want row=%d col=%d", pe.Row, pe.Column, tt.wantRow, tt.wantCol)
			}
		})
	}
}
