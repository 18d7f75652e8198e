package domain

import (
	"errors"
	"testing"

	"github.com/karstlabs/gibbs/pkg/quantity"
)

func TestResultSequentialAccess(t *testing.T) {
	res := NewResult()

	if _, err := res.Get("pressure"); !errors.Is(err, ErrMissingProperty) {
		t.Errorf("Get on empty result: want ErrMissingProperty, got %v", err)
	}

	pa := quantity.MustParse("Pa")
	if err := res.Set("pressure", quantity.Scalar(1e5, pa)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := res.Set("pressure", quantity.Scalar(2e5, pa)); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("second Set: want ErrDuplicateName, got %v", err)
	}
	if !res.Has("pressure") {
		t.Error("Has(pressure) = false")
	}
}

func TestResultAccumulate(t *testing.T) {
	res := NewResult()
	bar := quantity.MustParse("bar")

	// First writer creates the slot.
	if err := res.Accumulate("pressure", quantity.Scalar(1, bar)); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if err := res.Accumulate("pressure", quantity.Scalar(0.5, bar)); err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	q, err := res.Get("pressure")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	si, err := q.SI()
	if err != nil {
		t.Fatalf("SI: %v", err)
	}
	if si != 1.5e5 {
		t.Errorf("accumulated pressure = %g Pa, want 1.5e5", si)
	}

	// Unit mismatch on a shared slot is rejected.
	if err := res.Accumulate("pressure", quantity.Scalar(1, quantity.MustParse("K"))); err == nil {
		t.Error("accumulating K onto Pa should fail")
	}
}

func TestResultKeysKeepWriteOrder(t *testing.T) {
	res := NewResult()
	for _, key := range []string{"c", "a", "b"} {
		if err := res.Set(key, quantity.Scalar(1, quantity.Dimensionless)); err != nil {
			t.Fatalf("Set %q: %v", key, err)
		}
	}
	got := res.Keys()
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Keys = %v, want %v", got, want)
		}
	}
}
