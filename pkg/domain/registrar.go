package domain

import (
	"fmt"

	"github.com/karstlabs/gibbs/pkg/quantity"
)

// ParameterLeaf is one declared parameter slot: a dotted path and the unit a
// value for it must be convertible to.
type ParameterLeaf struct {
	Path string
	Unit quantity.Unit
}

// Bound is a named quantity a contribution declares must stay non-negative.
// Bounds are consumed only by the initial-state solver.
type Bound struct {
	Name  string
	Value quantity.Quantity
}

// SpeciesPair identifies an unordered species pair of a sparse matrix
// parameter.
type SpeciesPair struct {
	A, B string
}

// PairMatrix gives symmetric access to a sparse species-pair parameter.
// Undeclared pairs report absence instead of a zero symbol so callers can
// skip the term entirely.
type PairMatrix struct {
	entries map[[2]int]quantity.Quantity
}

// At returns the symbol for the (i, j) pair, if declared. Lookup is
// symmetric.
func (m PairMatrix) At(i, j int) (quantity.Quantity, bool) {
	if i > j {
		i, j = j, i
	}
	q, ok := m.entries[[2]int{i, j}]
	return q, ok
}

// Registrar collects the typed parameter requests and bound declarations of
// a single contribution during one assembly pass. Each request returns the
// unit-tagged symbol quantity the contribution builds its expressions with;
// the symbol names are the dotted parameter paths.
type Registrar struct {
	instance string
	species  SpeciesSet
	leaves   []ParameterLeaf
	bounds   []Bound
}

// NewRegistrar returns a registrar scoped to one contribution instance.
func NewRegistrar(instance string, species SpeciesSet) *Registrar {
	return &Registrar{instance: instance, species: species}
}

// Scalar declares a single-valued parameter and returns its symbol.
func (g *Registrar) Scalar(name string, u quantity.Unit) quantity.Quantity {
	path := g.instance + "." + name
	g.leaves = append(g.leaves, ParameterLeaf{Path: path, Unit: u})
	return quantity.Symbol(path, u)
}

// Vector declares a per-species parameter and returns its symbol vector,
// ordered like the species set.
func (g *Registrar) Vector(name string, u quantity.Unit) quantity.Quantity {
	paths := make([]string, g.species.Len())
	for i, sp := range g.species.Names() {
		paths[i] = g.instance + "." + name + "." + sp
		g.leaves = append(g.leaves, ParameterLeaf{Path: paths[i], Unit: u})
	}
	return quantity.SymbolVector(paths, u)
}

// Pairs declares a sparse symmetric species-pair parameter for the given
// pairs. Unknown species are a configuration error.
func (g *Registrar) Pairs(name string, u quantity.Unit, pairs []SpeciesPair) (PairMatrix, error) {
	entries := make(map[[2]int]quantity.Quantity, len(pairs))
	for _, p := range pairs {
		i, ok := g.species.Index(p.A)
		if !ok {
			return PairMatrix{}, fmt.Errorf("pair parameter %q: %w: species %q", name, ErrUnknownReference, p.A)
		}
		j, ok := g.species.Index(p.B)
		if !ok {
			return PairMatrix{}, fmt.Errorf("pair parameter %q: %w: species %q", name, ErrUnknownReference, p.B)
		}
		a, b := p.A, p.B
		if i > j {
			i, j = j, i
			a, b = b, a
		}
		key := [2]int{i, j}
		if _, dup := entries[key]; dup {
			return PairMatrix{}, fmt.Errorf("pair parameter %q: %w: pair %s:%s", name, ErrDuplicateName, a, b)
		}
		path := g.instance + "." + name + "." + a + ":" + b
		g.leaves = append(g.leaves, ParameterLeaf{Path: path, Unit: u})
		entries[key] = quantity.Symbol(path, u)
	}
	return PairMatrix{entries: entries}, nil
}

// Bound declares a quantity that must stay non-negative during iteration.
func (g *Registrar) Bound(name string, q quantity.Quantity) {
	g.bounds = append(g.bounds, Bound{Name: g.instance + "." + name, Value: q})
}

// Leaves returns the declared parameter slots in declaration order.
func (g *Registrar) Leaves() []ParameterLeaf {
	out := make([]ParameterLeaf, len(g.leaves))
	copy(out, g.leaves)
	return out
}

// Bounds returns the declared bounds in declaration order.
func (g *Registrar) Bounds() []Bound {
	out := make([]Bound, len(g.bounds))
	copy(out, g.bounds)
	return out
}
