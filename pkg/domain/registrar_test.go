package domain

import (
	"errors"
	"testing"

	"github.com/karstlabs/gibbs/pkg/quantity"
)

func mustSpecies(t *testing.T, names ...string) SpeciesSet {
	t.Helper()
	s, err := NewSpeciesSet(names...)
	if err != nil {
		t.Fatalf("NewSpeciesSet: %v", err)
	}
	return s
}

func TestRegistrarPaths(t *testing.T) {
	species := mustSpecies(t, "CO2", "N2")
	reg := NewRegistrar("eos", species)

	b := reg.Vector("b", quantity.MustParse("m^3/mol"))
	if got := b.FreeSymbols(); len(got) != 2 || got[0] != "eos.b.CO2" || got[1] != "eos.b.N2" {
		t.Errorf("vector symbols = %v", got)
	}

	c := reg.Scalar("c", quantity.MustParse("1"))
	if got := c.FreeSymbols(); len(got) != 1 || got[0] != "eos.c" {
		t.Errorf("scalar symbols = %v", got)
	}

	leaves := reg.Leaves()
	if len(leaves) != 3 {
		t.Fatalf("got %d leaves, want 3", len(leaves))
	}
	if leaves[0].Path != "eos.b.CO2" || !leaves[0].Unit.Compatible(quantity.MustParse("m^3/mol")) {
		t.Errorf("leaf 0 = %+v", leaves[0])
	}
}

func TestRegistrarPairs(t *testing.T) {
	species := mustSpecies(t, "CO2", "N2", "CH4")
	reg := NewRegistrar("mix", species)

	// Declared in reverse species order; the path is normalized.
	k, err := reg.Pairs("k", quantity.Dimensionless, []SpeciesPair{{A: "N2", B: "CO2"}})
	if err != nil {
		t.Fatalf("Pairs: %v", err)
	}

	q, ok := k.At(0, 1)
	if !ok {
		t.Fatal("At(0,1) not found")
	}
	if got := q.FreeSymbols(); len(got) != 1 || got[0] != "mix.k.CO2:N2" {
		t.Errorf("pair symbol = %v", got)
	}
	// Symmetric lookup.
	if _, ok := k.At(1, 0); !ok {
		t.Error("At(1,0) not found")
	}
	// Undeclared pair reports absence.
	if _, ok := k.At(0, 2); ok {
		t.Error("At(0,2) should be absent")
	}

	if _, err := reg.Pairs("k2", quantity.Dimensionless, []SpeciesPair{{A: "CO2", B: "He"}}); !errors.Is(err, ErrUnknownReference) {
		t.Errorf("unknown species: want ErrUnknownReference, got %v", err)
	}
	if _, err := reg.Pairs("k3", quantity.Dimensionless, []SpeciesPair{
		{A: "CO2", B: "N2"},
		{A: "N2", B: "CO2"},
	}); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate pair: want ErrDuplicateName, got %v", err)
	}
}

func TestSpeciesSetValidation(t *testing.T) {
	if _, err := NewSpeciesSet(); err == nil {
		t.Error("empty species set should fail")
	}
	if _, err := NewSpeciesSet("CO2", "CO2"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("duplicate species: want ErrDuplicateName, got %v", err)
	}

	s := mustSpecies(t, "CO2", "N2")
	if i, ok := s.Index("N2"); !ok || i != 1 {
		t.Errorf("Index(N2) = %d, %v", i, ok)
	}
	if _, ok := s.Index("He"); ok {
		t.Error("Index(He) should be absent")
	}
}
