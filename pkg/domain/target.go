package domain

import (
	"fmt"

	"github.com/karstlabs/gibbs/pkg/quantity"
)

// InitialState is the externally meaningful target specification the
// initial-state machinery converts into a consistent internal state: a
// temperature, a pressure, and a mole vector ordered like the species set.
type InitialState struct {
	Temperature quantity.Quantity
	Pressure    quantity.Quantity
	Amount      quantity.Quantity
}

var (
	unitKelvin = quantity.MustParse("K")
	unitPascal = quantity.MustParse("Pa")
	unitMole   = quantity.MustParse("mol")
)

// NewInitialState builds a target from numeric quantities. Units are checked
// here so every later consumer can assume base-unit compatibility.
func NewInitialState(temperature, pressure, amount quantity.Quantity) (InitialState, error) {
	if !temperature.Unit().Compatible(unitKelvin) {
		return InitialState{}, &quantity.DimensionError{Op: "initial state temperature", Expected: unitKelvin, Found: temperature.Unit()}
	}
	if !pressure.Unit().Compatible(unitPascal) {
		return InitialState{}, &quantity.DimensionError{Op: "initial state pressure", Expected: unitPascal, Found: pressure.Unit()}
	}
	if !amount.Unit().Compatible(unitMole) {
		return InitialState{}, &quantity.DimensionError{Op: "initial state amount", Expected: unitMole, Found: amount.Unit()}
	}
	for _, q := range []quantity.Quantity{temperature, pressure, amount} {
		if !q.IsNumeric() {
			return InitialState{}, fmt.Errorf("initial state: %w", quantity.ErrNotNumeric)
		}
	}
	return InitialState{Temperature: temperature, Pressure: pressure, Amount: amount}, nil
}
