package quantity

import (
	"errors"
	"math"
	"testing"

	"github.com/njchilds90/gosymbol"
)

func TestScalarConversion(t *testing.T) {
	p := Scalar(2, MustParse("bar"))

	si, err := p.SI()
	if err != nil {
		t.Fatalf("SI: %v", err)
	}
	if si != 2e5 {
		t.Errorf("SI = %g, want 2e5", si)
	}

	kpa, err := p.Value(MustParse("kPa"))
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	if kpa != 200 {
		t.Errorf("Value(kPa) = %g, want 200", kpa)
	}

	_, err = p.Value(MustParse("K"))
	var dim *DimensionError
	if !errors.As(err, &dim) {
		t.Errorf("Value with incompatible unit: want DimensionError, got %v", err)
	}
}

func TestAddChecksUnits(t *testing.T) {
	a := Scalar(1, MustParse("J"))
	b := Scalar(1, MustParse("kJ"))

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	si, err := sum.SI()
	if err != nil {
		t.Fatalf("SI: %v", err)
	}
	if si != 1001 {
		t.Errorf("1 J + 1 kJ = %g J, want 1001", si)
	}

	if _, err := a.Add(Scalar(1, MustParse("K"))); err == nil {
		t.Error("adding J and K should fail")
	}
}

func TestVectorAlgebra(t *testing.T) {
	n := Vector([]float64{1, 3}, MustParse("mol"))
	s := Vector([]float64{10, 20}, MustParse("J/mol/K"))

	total, err := n.Sum().SI()
	if err != nil {
		t.Fatalf("Sum: %v", err)
	}
	if total != 4 {
		t.Errorf("Sum = %g, want 4", total)
	}

	dot := n.Dot(s)
	if !dot.IsScalar() {
		t.Fatal("Dot should be scalar")
	}
	v, err := dot.SI()
	if err != nil {
		t.Fatalf("Dot SI: %v", err)
	}
	if v != 70 {
		t.Errorf("Dot = %g, want 70", v)
	}
	if !dot.Unit().Compatible(MustParse("J/K")) {
		t.Errorf("Dot unit = %s, want J/K", dot.Unit())
	}
}

func TestSqrtHalvesDimensions(t *testing.T) {
	a := Scalar(4, MustParse("m^2"))
	r := a.Sqrt()
	v, err := r.SI()
	if err != nil {
		t.Fatalf("SI: %v", err)
	}
	if v != 2 {
		t.Errorf("sqrt(4 m^2) = %g, want 2", v)
	}
	if !r.Unit().Compatible(MustParse("m")) {
		t.Errorf("sqrt unit = %s, want m", r.Unit())
	}
}

func TestLogRequiresDimensionless(t *testing.T) {
	ratio := Scalar(2, MustParse("bar")).Div(Scalar(1, MustParse("bar")))
	ln, err := ratio.Log()
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	v, err := ln.SI()
	if err != nil {
		t.Fatalf("SI: %v", err)
	}
	if math.Abs(v-math.Log(2)) > 1e-12 {
		t.Errorf("ln(2 bar / 1 bar) = %g, want %g", v, math.Log(2))
	}

	if _, err := Scalar(2, MustParse("bar")).Log(); err == nil {
		t.Error("log of a dimensioned quantity should fail")
	}
	if _, err := Scalar(2, MustParse("K")).Exp(); err == nil {
		t.Error("exp of a dimensioned quantity should fail")
	}
}

func TestSymbolSubstitution(t *testing.T) {
	v := Symbol("vol", MustParse("m^3"))
	if v.IsNumeric() {
		t.Fatal("fresh symbol should not be numeric")
	}
	if _, err := v.SI(); !errors.Is(err, ErrNotNumeric) {
		t.Errorf("want ErrNotNumeric, got %v", err)
	}
	if got := v.FreeSymbols(); len(got) != 1 || got[0] != "vol" {
		t.Errorf("FreeSymbols = %v", got)
	}

	bound := v.Substitute("vol", gosymbol.NFloat(0.5))
	si, err := bound.SI()
	if err != nil {
		t.Fatalf("SI after substitution: %v", err)
	}
	if si != 0.5 {
		t.Errorf("SI = %g, want 0.5", si)
	}
}

func TestScalarVectorBroadcast(t *testing.T) {
	rt := Scalar(2, MustParse("J/mol"))
	n := Vector([]float64{1, 2, 3}, MustParse("mol"))

	prod := rt.Mul(n)
	if prod.IsScalar() || prod.Len() != 3 {
		t.Fatalf("broadcast product has wrong shape: scalar=%v len=%d", prod.IsScalar(), prod.Len())
	}
	vs, err := prod.SIs()
	if err != nil {
		t.Fatalf("SIs: %v", err)
	}
	for i, want := range []float64{2, 4, 6} {
		if vs[i] != want {
			t.Errorf("element %d = %g, want %g", i, vs[i], want)
		}
	}
	if !prod.Unit().Compatible(MustParse("J")) {
		t.Errorf("unit = %s, want J", prod.Unit())
	}
}

func TestNonFiniteMagnitudePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Scalar(NaN) should panic")
		}
	}()
	Scalar(math.NaN(), Dimensionless)
}
