package main

import (
	"errors"
	"slices"
	"testing"

	"knnlab/pkg/common"
)

func TestParseKs(t *testing.T) {
	got, err := parseKs(" 1, 3,5,,9 ")
	if err != nil {
		t.Fatalf("parseKs: %v", err)
	}
	if want := []int{1, 3, 5, 9}; !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	for _, bad := range []string{"", ",", "0", "3,x", "-1"} {
		if _, err := parseKs(bad); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("parseKs(%q): expected ErrInvalidArgument, got %v", bad, err)
		}
	}
}
