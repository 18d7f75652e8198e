package contrib

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

var unitCovolume = quantity.MustParse("m^3/mol")

type vdwOptions struct {
	// Phase steers the volume guess of the initializer: "gas" starts from
	// the ideal-gas volume, "liquid" just above the covolume.
	Phase string `mapstructure:"phase"`
}

// VanDerWaals accumulates the van der Waals residual onto the shared
// pressure and chemical-potential slots. The equation is only defined for
// V > sum(n_i b_i); the contribution declares that margin as a bound, limits
// steps that would cross it, and can initialize (T, V, n) frames from a
// (T, p, n) target.
type VanDerWaals struct {
	species domain.SpeciesSet
	opts    vdwOptions
}

// NewVanDerWaals constructs the contribution from free-form options.
func NewVanDerWaals(species domain.SpeciesSet, options map[string]any) (domain.Contribution, error) {
	opts := vdwOptions{Phase: "gas"}
	if err := mapstructure.Decode(options, &opts); err != nil {
		return nil, fmt.Errorf("van-der-waals options: %w", err)
	}
	if opts.Phase != "gas" && opts.Phase != "liquid" {
		return nil, fmt.Errorf("van-der-waals options: %w: phase %q", domain.ErrInvalidConfig, opts.Phase)
	}
	return &VanDerWaals{species: species, opts: opts}, nil
}

// Provides implements domain.Contribution.
func (w *VanDerWaals) Provides() []string {
	return []string{
		domain.KeyPressure,
		domain.KeyChemicalPotential,
		domain.KeyCovolume,
		domain.KeyCovolumeMolar,
	}
}

// Requires implements domain.Contribution.
func (w *VanDerWaals) Requires() []domain.Requirement {
	return []domain.Requirement{
		{Key: domain.KeyTemperature},
		{Key: domain.KeyVolume},
		{Key: domain.KeyAmount},
		{Key: domain.KeyAttraction},
		{Key: domain.KeyAttractionGrad},
		{Key: domain.KeyPressure},
	}
}

// Define implements domain.Contribution.
func (w *VanDerWaals) Define(res *domain.Result, reg *domain.Registrar) error {
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
	attraction, err := res.Get(domain.KeyAttraction)
	if err != nil {
		return err
	}
	attractionGrad, err := res.Get(domain.KeyAttractionGrad)
	if err != nil {
		return err
	}

	b := reg.Vector("b", unitCovolume)
	covolume := n.Dot(b)
	if err := res.Set(domain.KeyCovolume, covolume); err != nil {
		return err
	}
	if err := res.Set(domain.KeyCovolumeMolar, b); err != nil {
		return err
	}

	freeVolume, err := v.Sub(covolume)
	if err != nil {
		return err
	}
	reg.Bound("free-volume", freeVolume)

	rt := gasConstant().Mul(t)
	total := n.Sum()

	// Residual pressure: nRT/(V-B) - nRT/V - a_mix/V².
	dp, err := total.Mul(rt).Div(freeVolume).Sub(total.Mul(rt).Div(v))
	if err != nil {
		return err
	}
	if dp, err = dp.Sub(attraction.Div(v.Mul(v))); err != nil {
		return err
	}
	if err := res.Accumulate(domain.KeyPressure, dp); err != nil {
		return err
	}

	// Residual chemical potential:
	// RT [ ln(V/(V-B)) + b_i n/(V-B) ] - (da_mix/dn_i)/V.
	lnTerm, err := v.Div(freeVolume).Log()
	if err != nil {
		return err
	}
	mu, err := rt.Mul(lnTerm).Add(rt.Mul(b).Mul(total).Div(freeVolume))
	if err != nil {
		return err
	}
	if mu, err = mu.Sub(attractionGrad.Div(v)); err != nil {
		return err
	}
	return res.Accumulate(domain.KeyChemicalPotential, mu)
}

// Relax returns the maximal multiple of step keeping V - sum(n_i b_i)
// non-negative, from the current numeric properties. The raw state layout is
// the (T, V, n) one this contribution is written for.
func (w *VanDerWaals) Relax(current domain.Properties, step []float64) (float64, error) {
	v, err := siOf(current, domain.KeyVolume)
	if err != nil {
		return 0, err
	}
	covolume, err := siOf(current, domain.KeyCovolume)
	if err != nil {
		return 0, err
	}
	molar, ok := current[domain.KeyCovolumeMolar]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrMissingProperty, domain.KeyCovolumeMolar)
	}
	bs, err := molar.SIs()
	if err != nil {
		return 0, err
	}
	if len(step) != 2+len(bs) {
		return 0, fmt.Errorf("step length %d does not match (T, V, n) layout with %d species", len(step), len(bs))
	}

	delta := step[1]
	for i, bi := range bs {
		delta -= step[2+i] * bi
	}
	if delta >= 0 {
		return domain.RelaxUnbounded, nil
	}
	a := (v - covolume) / -delta
	if a < 0 {
		a = 0
	}
	return a, nil
}

// InitializesFor implements domain.Initializer.
func (w *VanDerWaals) InitializesFor() string { return TVN{}.Name() }

// InitialState fills the volume slot of a (T, V, n) state: the ideal-gas
// volume for the gas phase, clamped away from the covolume; just above the
// covolume for the liquid phase.
func (w *VanDerWaals) InitialState(target domain.InitialState, partial []float64, props domain.Properties) ([]float64, error) {
	t, err := target.Temperature.SI()
	if err != nil {
		return nil, err
	}
	p, err := target.Pressure.SI()
	if err != nil {
		return nil, err
	}
	amounts, err := target.Amount.SIs()
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, ni := range amounts {
		total += ni
	}

	covolume, err := siOf(props, domain.KeyCovolume)
	if err != nil {
		return nil, fmt.Errorf("covolume is not numeric in the partial evaluation: %w", err)
	}

	var volume float64
	if w.opts.Phase == "liquid" {
		volume = 1.2 * covolume
	} else {
		volume = total * GasConstant * t / p
		if floor := 1.5 * covolume; volume < floor {
			volume = floor
		}
	}

	out := append([]float64(nil), partial...)
	if len(out) != 2+len(amounts) {
		return nil, fmt.Errorf("partial state length %d does not match (T, V, n) layout with %d species", len(out), len(amounts))
	}
	out[1] = volume
	return out, nil
}

func siOf(props domain.Properties, key string) (float64, error) {
	q, ok := props[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrMissingProperty, key)
	}
	return q.SI()
}
