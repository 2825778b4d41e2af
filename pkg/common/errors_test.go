package common

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseErrorUnwrap(t *testing.T) {
	_, cause := strconv.ParseFloat("abc", 64)
	err := error(&ParseError{Row: 3, Column: 1, Value: "abc", Err: cause})

	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected errors.Is(err, ErrParse), got %v", err)
	}
	if !errors.Is(err, strconv.ErrSyntax) {
		t.Fatalf("expected underlying strconv error to be reachable, got %v", err)
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("errors.As failed for *ParseError")
	}
	if pe.Row != 3 || pe.Column != 1 {
		t.Errorf("unexpected position: row=%d col=%d", pe.Row, pe.Column)
	}
}

func TestInvalidArgumentf(t *testing.T) {
	err := InvalidArgumentf("k=%d exceeds %d rows", 9, 4)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err.Error() != "invalid argument: k=9 exceeds 4 rows" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestFeatureVectorClone(t *testing.T) {
	v := FeatureVector{1, 2, 3}
	c := v.Clone()
	c[0] = 42
	if v[0] != 1 {
		t.Fatalf("clone shares storage with original: %v", v)
	}
	if v.String() != "(1, 2, 3)" {
		t.Errorf("String: got %s", v.String())
	}
}
