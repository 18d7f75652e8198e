package contrib

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// GasConstant is the molar gas constant in J/(mol*K).
const GasConstant = 8.31446261815324

var unitGasConstant = quantity.MustParse("J/mol/K")

func gasConstant() quantity.Quantity {
	return quantity.Scalar(GasConstant, unitGasConstant)
}

type idealOptions struct {
	// ReferencePressure sets the standard-state pressure the chemical
	// potential is referenced to (default 1 bar).
	ReferencePressure float64 `mapstructure:"reference_pressure"`
	// ReferencePressureUnit is the unit of ReferencePressure.
	ReferencePressureUnit string `mapstructure:"reference_pressure_unit"`
}

// IdealGas provides the ideal-gas baseline over (T, V, n): total pressure,
// entropy with per-species standard entropies, and chemical potentials
// referenced to a standard-state pressure. Residual contributions accumulate
// their corrections onto the same slots afterwards.
type IdealGas struct {
	species domain.SpeciesSet
	pref    quantity.Quantity
}

// NewIdealGas constructs the contribution from free-form options.
func NewIdealGas(species domain.SpeciesSet, options map[string]any) (domain.Contribution, error) {
	opts := idealOptions{ReferencePressure: 1, ReferencePressureUnit: "bar"}
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("ideal-gas options: %w", err)
	}
	u, err := quantity.Parse(opts.ReferencePressureUnit)
	if err != nil {
		return nil, fmt.Errorf("ideal-gas options: %w", err)
	}
	if !u.Compatible(unitPascal) {
		return nil, &quantity.DimensionError{Op: "ideal-gas reference pressure", Expected: unitPascal, Found: u}
	}
	if opts.ReferencePressure <= 0 {
		return nil, fmt.Errorf("ideal-gas options: %w: reference pressure must be positive", domain.ErrInvalidConfig)
	}
	return &IdealGas{species: species, pref: quantity.Scalar(opts.ReferencePressure, u)}, nil
}

// Provides implements domain.Contribution.
func (g *IdealGas) Provides() []string {
	return []string{domain.KeyPressure, domain.KeyEntropy, domain.KeyChemicalPotential}
}

// Requires implements domain.Contribution.
func (g *IdealGas) Requires() []domain.Requirement {
	return []domain.Requirement{
		{Key: domain.KeyTemperature},
		{Key: domain.KeyVolume},
		{Key: domain.KeyAmount},
	}
}

// Define implements domain.Contribution.
func (g *IdealGas) Define(res *domain.Result, reg *domain.Registrar) error {
	t, err := res.Get(domain.KeyTemperature)
	if err != nil {
		return err
	}
	v, err := res.Get(domain.KeyVolume)
	if err != nil {
		return err
	}
	n, err := res.Get(domain.KeyAmount)
	if err != nil {
		return err
	}

	rt := gasConstant().Mul(t)

	if err := res.Accumulate(domain.KeyPressure, n.Sum().Mul(rt).Div(v)); err != nil {
		return err
	}

	// Partial pressure over the standard state; the log argument must be
	// dimensionless, the unit layer enforces it.
	ratio := n.Mul(rt).Div(v).Div(g.pref)
	lnRatio, err := ratio.Log()
	if err != nil {
		return err
	}
	if err := res.Accumulate(domain.KeyChemicalPotential, rt.Mul(lnRatio)); err != nil {
		return err
	}

	s0 := reg.Vector("s0", unitGasConstant)
	entropy, err := n.Dot(s0).Sub(gasConstant().Mul(n.Dot(lnRatio)))
	if err != nil {
		return err
	}
	return res.Accumulate(domain.KeyEntropy, entropy)
}
