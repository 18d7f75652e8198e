package contrib

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/njchilds90/gosymbol"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

type mixingOptions struct {
	// Parameter names the per-species attraction parameter (default "a").
	Parameter string `mapstructure:"parameter"`
	// Unit of the per-species parameter (default "Pa*m^6/mol^2").
	Unit string `mapstructure:"unit"`
	// Pairs lists species pairs with a binary interaction correction.
	Pairs [][]string `mapstructure:"pairs"`
}

// GeometricMixing is the square-root-weighted (van der Waals one-fluid)
// mixing rule: a_mix = sum_ij n_i n_j sqrt(a_i a_j) (1 - k_ij), with k_ij a
// sparse symmetric correction declared only for configured pairs. It also
// provides the composition gradient of a_mix, which residual contributions
// need for chemical potentials.
type GeometricMixing struct {
	species domain.SpeciesSet
	opts    mixingOptions
	unit    quantity.Unit
}

// NewGeometricMixing constructs the mixing rule from free-form options.
func NewGeometricMixing(species domain.SpeciesSet, options map[string]any) (domain.Contribution, error) {
	opts := mixingOptions{Parameter: "a", Unit: "Pa*m^6/mol^2"}
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("geometric-mixing options: %w", err)
	}
	u, err := quantity.Parse(opts.Unit)
	if err != nil {
		return nil, fmt.Errorf("geometric-mixing options: %w", err)
	}
	for _, p := range opts.Pairs {
		if len(p) != 2 {
			return nil, fmt.Errorf("geometric-mixing options: %w: pair %v", domain.ErrInvalidConfig, p)
		}
	}
	return &GeometricMixing{species: species, opts: opts, unit: u}, nil
}

// Provides implements domain.Contribution.
func (m *GeometricMixing) Provides() []string {
	return []string{domain.KeyAttraction, domain.KeyAttractionGrad}
}

// Requires implements domain.Contribution.
func (m *GeometricMixing) Requires() []domain.Requirement {
	return []domain.Requirement{{Key: domain.KeyAmount}}
}

// Define implements domain.Contribution.
func (m *GeometricMixing) Define(res *domain.Result, reg *domain.Registrar) error {
	n, err := res.Get(domain.KeyAmount)
	if err != nil {
		return err
	}
	a := reg.Vector(m.opts.Parameter, m.unit)

	var kij domain.PairMatrix
	if len(m.opts.Pairs) > 0 {
		pairs := make([]domain.SpeciesPair, len(m.opts.Pairs))
		for i, p := range m.opts.Pairs {
			pairs[i] = domain.SpeciesPair{A: p[0], B: p[1]}
		}
		kij, err = reg.Pairs("k", quantity.Dimensionless, pairs)
		if err != nil {
			return err
		}
	}

	one := quantity.Scalar(1, quantity.Dimensionless)
	count := m.species.Len()

	// g_ij = sqrt(a_i a_j) (1 - k_ij); the pairwise product keeps the
	// dimensions integral before the root.
	cross := func(i, j int) (quantity.Quantity, error) {
		g := a.Elem(i).Mul(a.Elem(j)).Sqrt()
		if k, ok := kij.At(i, j); ok {
			corr, err := one.Sub(k)
			if err != nil {
				return quantity.Quantity{}, err
			}
			g = g.Mul(corr)
		}
		return g, nil
	}

	gradElems := make([]gosymbol.Expr, count)
	var gradUnit quantity.Unit
	var mix quantity.Quantity
	for i := 0; i < count; i++ {
		var row quantity.Quantity
		for j := 0; j < count; j++ {
			g, err := cross(i, j)
			if err != nil {
				return err
			}
			term := n.Elem(j).Mul(g)
			if j == 0 {
				row = term
				continue
			}
			if row, err = row.Add(term); err != nil {
				return err
			}
		}
		grad := row.Scale(2)
		gradElems[i] = grad.Elems()[0]
		gradUnit = grad.Unit()

		contrib := n.Elem(i).Mul(row)
		if i == 0 {
			mix = contrib
			continue
		}
		if mix, err = mix.Add(contrib); err != nil {
			return err
		}
	}

	if err := res.Accumulate(domain.KeyAttraction, mix); err != nil {
		return err
	}
	return res.Set(domain.KeyAttractionGrad, quantity.FromExprs(gradElems, gradUnit))
}
