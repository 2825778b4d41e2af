package dataset

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"knnlab/pkg/common"
)

const irisSample = `sepal_length,sepal_width,petal_length,petal_width,species
5.1,3.5,1.4,0.2,setosa
7.0,3.2,4.7,1.4,versicolor
6.3,3.3,6.0,2.5,virginica
`

func TestReadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(irisSample), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if tbl.Len() != 3 || tbl.Dim() != 4 {
		t.Fatalf("shape: got %dx%d", tbl.Len(), tbl.Dim())
	}
	names := tbl.Names()
	if len(names) != 4 || names[3] != "petal_width" {
		t.Errorf("names: got %v", names)
	}
	if tbl.Label(2) != "virginica" {
		t.Errorf("label 2: got %s", tbl.Label(2))
	}
}

func TestReadCSVBadCell(t *testing.T) {
	input := "a,b,label\n1,2,x\n1,oops,y\n"
	_, err := ReadCSV(strings.NewReader(input), DefaultCSVOptions())
	var pe *common.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Row != 1 || pe.Column != 1 || pe.Value != "oops" {
		t.Errorf("unexpected error detail: %+v", pe)
	}
}

func TestLoadCSVMissingFile(t *testing.T) {
	if _, err := LoadCSV(filepath.Join(t.TempDir(), "nope.csv"), DefaultCSVOptions()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestWriteThenLoadCSV(t *testing.T) {
	tbl, err := ReadCSV(strings.NewReader(irisSample), DefaultCSVOptions())
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	path := filepath.Join(t.TempDir(), "iris.csv")
	var buf bytes.Buffer
	if err := WriteCSV(&buf, tbl); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	back, err := LoadCSV(path, DefaultCSVOptions())
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	if back.Len() != tbl.Len() || back.Row(1)[2] != 4.7 || back.Label(0) != "setosa" {
		t.Fatalf("table changed across write/load: %v %s", back.Row(1), back.Label(0))
	}
	if !strings.HasPrefix(buf.String(), "sepal_length,sepal_width,petal_length,petal_width,label\n") {
		t.Errorf("unexpected header: %q", strings.SplitN(buf.String(), "\n", 2)[0])
	}
}

func TestReadUnlabeledCSV(t *testing.T) {
	input := "id,a,b\nm1,1,2\nm2,3,4\n"
	rows, err := ReadUnlabeledCSV(strings.NewReader(input), CSVOptions{Header: true, IDColumn: true})
	if err != nil {
		t.Fatalf("ReadUnlabeledCSV: %v", err)
	}
	if len(rows) != 2 || rows[1].ID != "m2" || rows[1].Vector[1] != 4 {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	rows, err = ReadUnlabeledCSV(strings.NewReader("1,2\n3,4\n"), CSVOptions{})
	if err != nil {
		t.Fatalf("ReadUnlabeledCSV without ids: %v", err)
	}
	if rows[0].ID != "1" || rows[1].ID != "2" {
		t.Errorf("ordinal ids: got %q %q", rows[0].ID, rows[1].ID)
	}

	if _, err := ReadUnlabeledCSV(strings.NewReader("1,2\n3\n"), CSVOptions{}); !errors.Is(err, common.ErrParse) {
		t.Errorf("expected ErrParse for ragged input, got %v", err)
	}
}
