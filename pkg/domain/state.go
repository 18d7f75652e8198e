package domain

import (
	"math"

	"github.com/njchilds90/gosymbol"
)

// StateDefinition interprets the raw state vector as physically named
// quantities. Two terminal variants ship with the module: (T, V, n) and
// (T, p, n).
type StateDefinition interface {
	// Name is the unique registration key of the definition.
	Name() string

	// Coordinates is the number of non-species slots at the front of the
	// raw state vector.
	Coordinates() int

	// Provides lists the property keys Prepare writes, for dependency
	// validation of the first contributions.
	Provides() []string

	// Prepare slices the raw state symbols into named, unit-tagged
	// quantities and writes them into res. With flow set, extensive slots
	// carry per-time units. Prepare also retains the raw vector under
	// KeyState for bound-derivative computation.
	Prepare(res *Result, raw []gosymbol.Expr, species SpeciesSet, flow bool) error

	// Reverse fills as much of the state vector as is directly derivable
	// from the target, in base units. Unresolved slots are marked Unknown,
	// never omitted.
	Reverse(target InitialState, species SpeciesSet) ([]float64, error)
}

// Unknown marks an unresolved slot in a partial state vector.
func Unknown() float64 { return math.NaN() }

// IsUnknown reports whether a slot of a partial state vector is unresolved.
func IsUnknown(v float64) bool { return math.IsNaN(v) }
