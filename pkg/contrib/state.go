package contrib

import (
	"github.com/njchilds90/gosymbol"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

var (
	unitKelvin = quantity.MustParse("K")
	unitPascal = quantity.MustParse("Pa")
	unitMole   = quantity.MustParse("mol")
	unitVolume = quantity.MustParse("m^3")

	unitMolePerTime   = unitMole.PerTime()
	unitVolumePerTime = unitVolume.PerTime()
)

// TVN is the (temperature, volume, mole vector) state definition. Volume is
// not directly derivable from a (T, p, n) target, so frames over TVN need an
// initializer and the Newton refinement.
type TVN struct{}

// Name implements domain.StateDefinition.
func (TVN) Name() string { return "TVn" }

// Coordinates implements domain.StateDefinition.
func (TVN) Coordinates() int { return 2 }

// Provides implements domain.StateDefinition.
func (TVN) Provides() []string {
	return []string{domain.KeyTemperature, domain.KeyVolume, domain.KeyAmount}
}

// Prepare slices the raw vector as [T, V, n...]. In flow form the extensive
// slots (volume, amounts) carry per-time units.
func (TVN) Prepare(res *domain.Result, raw []gosymbol.Expr, species domain.SpeciesSet, flow bool) error {
	volUnit, moleUnit := unitVolume, unitMole
	if flow {
		volUnit, moleUnit = unitVolumePerTime, unitMolePerTime
	}
	if err := res.Set(domain.KeyState, quantity.FromExprs(raw, quantity.Dimensionless)); err != nil {
		return err
	}
	if err := res.Set(domain.KeyTemperature, quantity.FromExpr(raw[0], unitKelvin)); err != nil {
		return err
	}
	if err := res.Set(domain.KeyVolume, quantity.FromExpr(raw[1], volUnit)); err != nil {
		return err
	}
	return res.Set(domain.KeyAmount, quantity.FromExprs(raw[2:], moleUnit))
}

// Reverse fills temperature and amounts from the target and leaves the
// volume slot unknown.
func (TVN) Reverse(target domain.InitialState, species domain.SpeciesSet) ([]float64, error) {
	t, err := target.Temperature.SI()
	if err != nil {
		return nil, err
	}
	n, err := target.Amount.SIs()
	if err != nil {
		return nil, err
	}
	x := make([]float64, 2+len(n))
	x[0] = t
	x[1] = domain.Unknown()
	copy(x[2:], n)
	return x, nil
}

// TPN is the (temperature, pressure, mole vector) state definition. Every
// slot is directly derivable from a (T, p, n) target, so initialization
// never iterates.
type TPN struct{}

// Name implements domain.StateDefinition.
func (TPN) Name() string { return "TPn" }

// Coordinates implements domain.StateDefinition.
func (TPN) Coordinates() int { return 2 }

// Provides implements domain.StateDefinition.
func (TPN) Provides() []string {
	return []string{domain.KeyTemperature, domain.KeyPressure, domain.KeyAmount}
}

// Prepare slices the raw vector as [T, p, n...].
func (TPN) Prepare(res *domain.Result, raw []gosymbol.Expr, species domain.SpeciesSet, flow bool) error {
	moleUnit := unitMole
	if flow {
		moleUnit = unitMolePerTime
	}
	if err := res.Set(domain.KeyState, quantity.FromExprs(raw, quantity.Dimensionless)); err != nil {
		return err
	}
	if err := res.Set(domain.KeyTemperature, quantity.FromExpr(raw[0], unitKelvin)); err != nil {
		return err
	}
	if err := res.Set(domain.KeyPressure, quantity.FromExpr(raw[1], unitPascal)); err != nil {
		return err
	}
	return res.Set(domain.KeyAmount, quantity.FromExprs(raw[2:], moleUnit))
}

// Reverse fills the complete vector; nothing stays unknown.
func (TPN) Reverse(target domain.InitialState, species domain.SpeciesSet) ([]float64, error) {
	t, err := target.Temperature.SI()
	if err != nil {
		return nil, err
	}
	p, err := target.Pressure.SI()
	if err != nil {
		return nil, err
	}
	n, err := target.Amount.SIs()
	if err != nil {
		return nil, err
	}
	x := make([]float64, 2+len(n))
	x[0] = t
	x[1] = p
	copy(x[2:], n)
	return x, nil
}
