package quantity

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymbol"
)

// Quantity is an immutable (magnitude, unit) pair. Magnitudes are held in
// coherent SI base units as gosymbol expressions; Unit records the unit the
// value is reported in.
type Quantity struct {
	elems  []gosymbol.Expr
	scalar bool
	unit   Unit
}

// Scalar builds a scalar quantity from a magnitude expressed in u.
func Scalar(v float64, u Unit) Quantity {
	return Quantity{elems: []gosymbol.Expr{num(v * u.scale)}, scalar: true, unit: u}
}

// Vector builds a vector quantity from magnitudes expressed in u.
func Vector(vs []float64, u Unit) Quantity {
	elems := make([]gosymbol.Expr, len(vs))
	for i, v := range vs {
		elems[i] = num(v * u.scale)
	}
	return Quantity{elems: elems, unit: u}
}

// Symbol builds a scalar quantity over a fresh symbol. The symbol stands for
// the SI magnitude, so substituting a number later must supply base units.
func Symbol(name string, u Unit) Quantity {
	return Quantity{elems: []gosymbol.Expr{gosymbol.S(name)}, scalar: true, unit: u}
}

// SymbolVector builds a vector quantity over one symbol per element.
func SymbolVector(names []string, u Unit) Quantity {
	elems := make([]gosymbol.Expr, len(names))
	for i, n := range names {
		elems[i] = gosymbol.S(n)
	}
	return Quantity{elems: elems, unit: u}
}

// FromExpr wraps an expression already denominated in SI base units.
func FromExpr(e gosymbol.Expr, u Unit) Quantity {
	return Quantity{elems: []gosymbol.Expr{e}, scalar: true, unit: u}
}

// FromExprs wraps a vector of expressions already denominated in SI units.
func FromExprs(es []gosymbol.Expr, u Unit) Quantity {
	elems := make([]gosymbol.Expr, len(es))
	copy(elems, es)
	return Quantity{elems: elems, unit: u}
}

func num(v float64) gosymbol.Expr {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("quantity: non-finite magnitude %v", v))
	}
	return gosymbol.NFloat(v)
}

// Len returns the element count (1 for scalars).
func (q Quantity) Len() int { return len(q.elems) }

// IsScalar reports whether q is a scalar.
func (q Quantity) IsScalar() bool { return q.scalar }

// Unit returns the unit the quantity is reported in.
func (q Quantity) Unit() Unit { return q.unit }

// Elems returns a copy of the SI-magnitude expression vector.
func (q Quantity) Elems() []gosymbol.Expr {
	out := make([]gosymbol.Expr, len(q.elems))
	copy(out, q.elems)
	return out
}

// Elem returns element i as a scalar quantity in the same unit.
func (q Quantity) Elem(i int) Quantity {
	return Quantity{elems: []gosymbol.Expr{q.elems[i]}, scalar: true, unit: q.unit}
}

// WithUnit relabels the quantity. The new unit must be compatible; the SI
// magnitude is unchanged.
func (q Quantity) WithUnit(u Unit) (Quantity, error) {
	if !q.unit.Compatible(u) {
		return Quantity{}, &DimensionError{Op: "relabel", Expected: u, Found: q.unit}
	}
	return Quantity{elems: q.elems, scalar: q.scalar, unit: u}, nil
}

// pair aligns two operand shapes for an elementwise operation. Mixing two
// vectors of different length is a programming error and panics.
func pair(a, b Quantity) (n int, scalar bool, ae, be func(i int) gosymbol.Expr) {
	switch {
	case a.scalar && b.scalar:
		return 1, true, func(int) gosymbol.Expr { return a.elems[0] }, func(int) gosymbol.Expr { return b.elems[0] }
	case a.scalar:
		return len(b.elems), false, func(int) gosymbol.Expr { return a.elems[0] }, func(i int) gosymbol.Expr { return b.elems[i] }
	case b.scalar:
		return len(a.elems), false, func(i int) gosymbol.Expr { return a.elems[i] }, func(int) gosymbol.Expr { return b.elems[0] }
	default:
		if len(a.elems) != len(b.elems) {
			panic(fmt.Sprintf("quantity: vector length mismatch %d vs %d", len(a.elems), len(b.elems)))
		}
		return len(a.elems), false, func(i int) gosymbol.Expr { return a.elems[i] }, func(i int) gosymbol.Expr { return b.elems[i] }
	}
}

// Add returns q + o. The units must be compatible; the result keeps q's unit.
func (q Quantity) Add(o Quantity) (Quantity, error) {
	if !q.unit.Compatible(o.unit) {
		return Quantity{}, &DimensionError{Op: "add", Expected: q.unit, Found: o.unit}
	}
	n, scalar, ae, be := pair(q, o)
	elems := make([]gosymbol.Expr, n)
	for i := range elems {
		elems[i] = gosymbol.AddOf(ae(i), be(i))
	}
	return Quantity{elems: elems, scalar: scalar, unit: q.unit}, nil
}

// Sub returns q - o with the same unit rules as Add.
func (q Quantity) Sub(o Quantity) (Quantity, error) {
	return q.Add(o.Neg())
}

// Neg returns -q.
func (q Quantity) Neg() Quantity {
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.MulOf(gosymbol.N(-1), e)
	}
	return Quantity{elems: elems, scalar: q.scalar, unit: q.unit}
}

// Mul returns the elementwise product; units multiply.
func (q Quantity) Mul(o Quantity) Quantity {
	n, scalar, ae, be := pair(q, o)
	elems := make([]gosymbol.Expr, n)
	for i := range elems {
		elems[i] = gosymbol.MulOf(ae(i), be(i))
	}
	return Quantity{elems: elems, scalar: scalar, unit: q.unit.Mul(o.unit)}
}

// Div returns the elementwise quotient; units divide.
func (q Quantity) Div(o Quantity) Quantity {
	n, scalar, ae, be := pair(q, o)
	elems := make([]gosymbol.Expr, n)
	for i := range elems {
		elems[i] = gosymbol.MulOf(ae(i), gosymbol.PowOf(be(i), gosymbol.N(-1)))
	}
	return Quantity{elems: elems, scalar: scalar, unit: q.unit.Div(o.unit)}
}

// Scale multiplies every element by a bare number.
func (q Quantity) Scale(f float64) Quantity {
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.MulOf(num(f), e)
	}
	return Quantity{elems: elems, scalar: q.scalar, unit: q.unit}
}

// Pow raises every element to the rational power p/r; dimensions scale.
func (q Quantity) Pow(p, r int) Quantity {
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.PowOf(e, gosymbol.F(int64(p), int64(r)))
	}
	d := q.unit.dim.scale(float64(p) / float64(r))
	return Quantity{elems: elems, scalar: q.scalar, unit: siUnit(d)}
}

// Sqrt returns the elementwise square root; dimensions halve.
func (q Quantity) Sqrt() Quantity {
	return q.Pow(1, 2)
}

// Log returns the elementwise natural logarithm. The argument must be
// dimensionless; domain validity of the magnitudes is the caller's concern.
func (q Quantity) Log() (Quantity, error) {
	if !q.unit.IsDimensionless() {
		return Quantity{}, &DimensionError{Op: "log", Expected: Dimensionless, Found: q.unit}
	}
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.LnOf(e)
	}
	return Quantity{elems: elems, scalar: q.scalar, unit: Dimensionless}, nil
}

// Exp returns the elementwise exponential of a dimensionless quantity.
func (q Quantity) Exp() (Quantity, error) {
	if !q.unit.IsDimensionless() {
		return Quantity{}, &DimensionError{Op: "exp", Expected: Dimensionless, Found: q.unit}
	}
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.ExpOf(e)
	}
	return Quantity{elems: elems, scalar: q.scalar, unit: Dimensionless}, nil
}

// Sum reduces a quantity to the scalar sum of its elements.
func (q Quantity) Sum() Quantity {
	if q.scalar {
		return q
	}
	return Quantity{elems: []gosymbol.Expr{gosymbol.AddOf(q.elems...)}, scalar: true, unit: q.unit}
}

// Dot returns the scalar product sum(q_i * o_i).
func (q Quantity) Dot(o Quantity) Quantity {
	return q.Mul(o).Sum()
}

// IsNumeric reports whether every element evaluates to a number.
func (q Quantity) IsNumeric() bool {
	for _, e := range q.elems {
		if _, ok := e.Eval(); !ok {
			return false
		}
	}
	return true
}

// SI returns the numeric SI magnitude of a scalar quantity.
func (q Quantity) SI() (float64, error) {
	if !q.scalar {
		return 0, fmt.Errorf("SI: quantity is a vector of length %d", len(q.elems))
	}
	vs, err := q.SIs()
	if err != nil {
		return 0, err
	}
	return vs[0], nil
}

// SIs returns the numeric SI magnitudes of every element.
func (q Quantity) SIs() ([]float64, error) {
	out := make([]float64, len(q.elems))
	for i, e := range q.elems {
		n, ok := e.Eval()
		if !ok {
			return nil, fmt.Errorf("%w: free symbols %v", ErrNotNumeric, freeNames(e))
		}
		out[i] = n.Float64()
	}
	return out, nil
}

// Value returns the numeric magnitude of a scalar quantity converted to u.
func (q Quantity) Value(u Unit) (float64, error) {
	vs, err := q.Values(u)
	if err != nil {
		return 0, err
	}
	if !q.scalar {
		return 0, fmt.Errorf("Value: quantity is a vector of length %d", len(q.elems))
	}
	return vs[0], nil
}

// Values returns the numeric magnitudes of every element converted to u.
func (q Quantity) Values(u Unit) ([]float64, error) {
	if !q.unit.Compatible(u) {
		return nil, &DimensionError{Op: "convert", Expected: u, Found: q.unit}
	}
	vs, err := q.SIs()
	if err != nil {
		return nil, err
	}
	for i := range vs {
		vs[i] /= u.scale
	}
	return vs, nil
}

// Substitute replaces a free symbol in every element and returns the result.
func (q Quantity) Substitute(name string, value gosymbol.Expr) Quantity {
	elems := make([]gosymbol.Expr, len(q.elems))
	for i, e := range q.elems {
		elems[i] = gosymbol.Sub(e, name, value)
	}
	return Quantity{elems: elems, scalar: q.scalar, unit: q.unit}
}

// FreeSymbols returns the sorted names of unresolved symbols across elements.
func (q Quantity) FreeSymbols() []string {
	seen := map[string]struct{}{}
	for _, e := range q.elems {
		for name := range gosymbol.FreeSymbols(e) {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func freeNames(e gosymbol.Expr) []string {
	var names []string
	for name := range gosymbol.FreeSymbols(e) {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// String renders the quantity in its reported unit, falling back to the
// symbolic expression when the magnitude is not numeric.
func (q Quantity) String() string {
	if vs, err := q.Values(q.unit); err == nil {
		if q.scalar {
			return fmt.Sprintf("%g %s", vs[0], q.unit)
		}
		parts := make([]string, len(vs))
		for i, v := range vs {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return fmt.Sprintf("[%s] %s", strings.Join(parts, " "), q.unit)
	}
	parts := make([]string, len(q.elems))
	for i, e := range q.elems {
		parts[i] = e.String()
	}
	if q.scalar {
		return fmt.Sprintf("%s %s", parts[0], q.unit)
	}
	return fmt.Sprintf("[%s] %s", strings.Join(parts, ", "), q.unit)
}
