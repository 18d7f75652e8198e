package contrib

import "github.com/karstlabs/gibbs/pkg/registry"

// Class names the built-in contributions register under.
const (
	ClassGeometricMixing = "geometric-mixing"
	ClassIdealGas        = "ideal-gas"
	ClassVanDerWaals     = "van-der-waals"
)

// Register wires the built-in contributions and state definitions into a
// factory.
func Register(f *registry.Factory) error {
	if err := f.RegisterContribution(ClassGeometricMixing, NewGeometricMixing); err != nil {
		return err
	}
	if err := f.RegisterContribution(ClassIdealGas, NewIdealGas); err != nil {
		return err
	}
	if err := f.RegisterContribution(ClassVanDerWaals, NewVanDerWaals); err != nil {
		return err
	}
	if err := f.RegisterState(TVN{}); err != nil {
		return err
	}
	return f.RegisterState(TPN{})
}
