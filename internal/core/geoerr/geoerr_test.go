package geoerr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidation_IsAndMessage(t *testing.T) {
	err := Validation("depth", "must be between 0 and 29, inclusive (got %d)", 31)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected errors.Is(err, ErrValidation)")
	}
	want := "depth: must be between 0 and 29, inclusive (got 31)"
	if err.Error() != want {
		t.Fatalf("got=%q want=%q", err.Error(), want)
	}

	wrapped := fmt.Errorf("lonlat to cell: %w", err)
	var ve *ValidationError
	if !errors.As(wrapped, &ve) || ve.Field != "depth" {
		t.Fatalf("errors.As failed on wrapped validation error: %v", wrapped)
	}
}

func TestValidation_EmptyField(t *testing.T) {
	err := Validation("", "shape mismatch")
	if err.Error() != "shape mismatch" {
		t.Fatalf("got=%q", err.Error())
	}
}
