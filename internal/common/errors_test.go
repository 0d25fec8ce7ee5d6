package common

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValidationError_MatchesSentinel(t *testing.T) {
	err := NewValidationError("pack_size", "must be at least 1")

	if !errors.Is(err, ErrorValidation) {
		t.Fatalf("want errors.Is(err, ErrorValidation), got %v", err)
	}
	if errors.Is(err, ErrorNotFound) {
		t.Fatalf("unexpected match against ErrorNotFound")
	}

	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want errors.As into *ValidationError")
	}
	if ve.Field != "pack_size" {
		t.Fatalf("unexpected field: %q", ve.Field)
	}
	if !strings.Contains(err.Error(), "pack_size") {
		t.Fatalf("message should name the field: %q", err.Error())
	}
}

func TestValidationError_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NewValidationError("name", "must not be empty"))

	if !errors.Is(err, ErrorValidation) {
		t.Fatalf("wrapped error no longer matches ErrorValidation: %v", err)
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("wrapped error no longer unwraps to *ValidationError: %v", err)
	}
}

func TestInsufficientStockError_MatchesSentinel(t *testing.T) {
	err := &InsufficientStockError{SleeveID: 7, SleeveName: "Matte Red", Requested: 60, Available: 40}

	if !errors.Is(err, ErrorInsufficientStock) {
		t.Fatalf("want errors.Is(err, ErrorInsufficientStock), got %v", err)
	}
	if errors.Is(err, ErrorValidation) {
		t.Fatalf("unexpected match against ErrorValidation")
	}

	var ise *InsufficientStockError
	if !errors.As(err, &ise) {
		t.Fatalf("want errors.As into *InsufficientStockError")
	}
	if ise.Available != 40 || ise.Requested != 60 {
		t.Fatalf("unexpected counts: %+v", ise)
	}
	for _, sub := range []string{"Matte Red", "60", "40"} {
		if !strings.Contains(err.Error(), sub) {
			t.Fatalf("message should contain %q: %q", sub, err.Error())
		}
	}
}
