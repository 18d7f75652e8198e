package quantity

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// dims holds base-dimension exponents in SI order: m, kg, s, K, mol, A, cd.
// Exponents are floats because square roots of dimensioned quantities occur
// mid-expression (mixing rules) and produce half-integer dimensions.
type dims [7]float64

var baseSymbols = [7]string{"m", "kg", "s", "K", "mol", "A", "cd"}

func (d dims) isZero() bool {
	for _, e := range d {
		if e != 0 {
			return false
		}
	}
	return true
}

func (d dims) add(o dims) dims {
	for i := range d {
		d[i] += o[i]
	}
	return d
}

func (d dims) sub(o dims) dims {
	for i := range d {
		d[i] -= o[i]
	}
	return d
}

func (d dims) scale(f float64) dims {
	for i := range d {
		d[i] *= f
	}
	return d
}

func (d dims) equal(o dims) bool {
	const eps = 1e-12
	for i := range d {
		if math.Abs(d[i]-o[i]) > eps {
			return false
		}
	}
	return true
}

// Unit is a parsed physical unit: a conversion factor to coherent SI plus a
// dimension vector. The label is kept for display only.
type Unit struct {
	label string
	scale float64
	dim   dims
}

// Dimensionless is the neutral unit "1".
var Dimensionless = Unit{label: "1", scale: 1}

func base(i int) Unit {
	var d dims
	d[i] = 1
	return Unit{label: baseSymbols[i], scale: 1, dim: d}
}

func derived(label string, scale float64, parts ...Unit) Unit {
	u := Unit{label: label, scale: scale}
	for _, p := range parts {
		u.scale *= p.scale
		u.dim = u.dim.add(p.dim)
	}
	return u
}

func per(label string, scale float64, num, den Unit) Unit {
	return Unit{label: label, scale: scale * num.scale / den.scale, dim: num.dim.sub(den.dim)}
}

var (
	metre    = base(0)
	kilogram = base(1)
	second   = base(2)
	kelvin   = base(3)
	mole     = base(4)
	ampere   = base(5)
	candela  = base(6)

	newton = derived("N", 1, kilogram, metre, per("", 1, Dimensionless, derived("", 1, second, second)))
	pascal = per("Pa", 1, newton, derived("", 1, metre, metre))
	joule  = derived("J", 1, newton, metre)
	watt   = per("W", 1, joule, second)
)

// unitTable names every unit the parser accepts directly. Compound units are
// written with *, / and ^ (for example "J/mol/K" or "Pa*m^6/mol^2").
var unitTable = map[string]Unit{
	"1": Dimensionless,

	"m":  metre,
	"km": scaled("km", 1e3, metre),
	"dm": scaled("dm", 1e-1, metre),
	"cm": scaled("cm", 1e-2, metre),
	"mm": scaled("mm", 1e-3, metre),

	"kg": kilogram,
	"g":  scaled("g", 1e-3, kilogram),
	"mg": scaled("mg", 1e-6, kilogram),
	"t":  scaled("t", 1e3, kilogram),

	"s":   second,
	"min": scaled("min", 60, second),
	"h":   scaled("h", 3600, second),

	"K": kelvin,

	"mol":  mole,
	"kmol": scaled("kmol", 1e3, mole),
	"mmol": scaled("mmol", 1e-3, mole),

	"A":  ampere,
	"cd": candela,

	"Hz": per("Hz", 1, Dimensionless, second),
	"N":  newton,
	"Pa": pascal,

	"kPa": scaled("kPa", 1e3, pascal),
	"MPa": scaled("MPa", 1e6, pascal),
	"bar": scaled("bar", 1e5, pascal),
	"atm": scaled("atm", 101325, pascal),

	"J":  joule,
	"kJ": scaled("kJ", 1e3, joule),
	"MJ": scaled("MJ", 1e6, joule),
	"W":  watt,
	"kW": scaled("kW", 1e3, watt),

	"L":  scaled("L", 1e-3, derived("", 1, metre, metre, metre)),
	"mL": scaled("mL", 1e-6, derived("", 1, metre, metre, metre)),
}

func scaled(label string, f float64, u Unit) Unit {
	return Unit{label: label, scale: f * u.scale, dim: u.dim}
}

// Parse turns a unit string into a Unit. The grammar is a product of named
// units separated by '*' or '/', each optionally raised to an integer power
// with '^'; parentheses group. The empty string and "1" are dimensionless.
func Parse(s string) (Unit, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Dimensionless, nil
	}
	p := &unitParser{input: trimmed}
	u, err := p.parse()
	if err != nil {
		return Unit{}, fmt.Errorf("parse unit %q: %w", s, err)
	}
	u.label = trimmed
	return u, nil
}

// MustParse is Parse for unit literals known at compile time.
func MustParse(s string) Unit {
	u, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return u
}

type unitParser struct {
	input string
	pos   int
}

func (p *unitParser) parse() (Unit, error) {
	u, err := p.product()
	if err != nil {
		return Unit{}, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return Unit{}, fmt.Errorf("unexpected %q at offset %d", p.input[p.pos:], p.pos)
	}
	return u, nil
}

func (p *unitParser) product() (Unit, error) {
	u, err := p.factor()
	if err != nil {
		return Unit{}, err
	}
	for {
		p.skipSpace()
		switch {
		case p.peek('*'):
			p.pos++
			f, err := p.factor()
			if err != nil {
				return Unit{}, err
			}
			u = Unit{scale: u.scale * f.scale, dim: u.dim.add(f.dim)}
		case p.peek('/'):
			p.pos++
			f, err := p.factor()
			if err != nil {
				return Unit{}, err
			}
			u = Unit{scale: u.scale / f.scale, dim: u.dim.sub(f.dim)}
		default:
			return u, nil
		}
	}
}

func (p *unitParser) factor() (Unit, error) {
	u, err := p.primary()
	if err != nil {
		return Unit{}, err
	}
	p.skipSpace()
	if p.peek('^') {
		p.pos++
		exp, err := p.exponent()
		if err != nil {
			return Unit{}, err
		}
		u = Unit{scale: math.Pow(u.scale, float64(exp)), dim: u.dim.scale(float64(exp))}
	}
	return u, nil
}

func (p *unitParser) primary() (Unit, error) {
	p.skipSpace()
	if p.peek('(') {
		p.pos++
		u, err := p.product()
		if err != nil {
			return Unit{}, err
		}
		p.skipSpace()
		if !p.peek(')') {
			return Unit{}, fmt.Errorf("missing ')' at offset %d", p.pos)
		}
		p.pos++
		return u, nil
	}
	start := p.pos
	for p.pos < len(p.input) {
		c := p.input[p.pos]
		if c == '*' || c == '/' || c == '^' || c == '(' || c == ')' || c == ' ' {
			break
		}
		p.pos++
	}
	name := p.input[start:p.pos]
	if name == "" {
		return Unit{}, fmt.Errorf("expected unit name at offset %d", start)
	}
	u, ok := unitTable[name]
	if !ok {
		return Unit{}, fmt.Errorf("unknown unit %q", name)
	}
	return u, nil
}

func (p *unitParser) exponent() (int, error) {
	p.skipSpace()
	start := p.pos
	if p.peek('-') || p.peek('+') {
		p.pos++
	}
	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.Atoi(p.input[start:p.pos])
	if err != nil {
		return 0, fmt.Errorf("invalid exponent at offset %d", start)
	}
	return n, nil
}

func (p *unitParser) skipSpace() {
	for p.pos < len(p.input) && p.input[p.pos] == ' ' {
		p.pos++
	}
}

func (p *unitParser) peek(c byte) bool {
	return p.pos < len(p.input) && p.input[p.pos] == c
}

// String formats the unit for display: the label it was parsed with, or a
// canonical base-unit product for units produced by arithmetic.
func (u Unit) String() string {
	if u.label != "" {
		return u.label
	}
	return canonicalLabel(u.dim)
}

func canonicalLabel(d dims) string {
	if d.isZero() {
		return "1"
	}
	var parts []string
	for i, e := range d {
		if e == 0 {
			continue
		}
		if e == 1 {
			parts = append(parts, baseSymbols[i])
			continue
		}
		parts = append(parts, baseSymbols[i]+"^"+strconv.FormatFloat(e, 'g', -1, 64))
	}
	return strings.Join(parts, "*")
}

// IsDimensionless reports whether every dimension exponent is zero.
func (u Unit) IsDimensionless() bool {
	return u.dim.isZero()
}

// Compatible reports whether a value in u can be converted to v.
func (u Unit) Compatible(v Unit) bool {
	return u.dim.equal(v.dim)
}

// Factor returns the multiplier converting a magnitude in u to one in v.
func (u Unit) Factor(v Unit) (float64, error) {
	if !u.Compatible(v) {
		return 0, &DimensionError{Op: "convert", Expected: v, Found: u}
	}
	return u.scale / v.scale, nil
}

// Mul returns the unit of a product of quantities in u and v.
func (u Unit) Mul(v Unit) Unit {
	return siUnit(u.dim.add(v.dim))
}

// Div returns the unit of a quotient of quantities in u and v.
func (u Unit) Div(v Unit) Unit {
	return siUnit(u.dim.sub(v.dim))
}

// Root returns the unit of the n-th root of a quantity in u.
func (u Unit) Root(n int) Unit {
	return siUnit(u.dim.scale(1 / float64(n)))
}

// PerTime divides the unit by seconds; used for flow-form extensive slots.
func (u Unit) PerTime() Unit {
	return siUnit(u.dim.sub(second.dim))
}

// siUnit is the coherent SI unit with the given dimensions.
func siUnit(d dims) Unit {
	return Unit{scale: 1, dim: d}
}
