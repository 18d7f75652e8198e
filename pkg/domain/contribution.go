package domain

import "math"

// Requirement declares a property key a contribution reads. If Provider is
// set, the key must come from that specific instance; otherwise any strictly
// earlier writer satisfies it.
type Requirement struct {
	Key      string
	Provider string
}

// Contribution is a named, species-parameterized equation fragment. A
// contribution instance is constructed once per frame build and never
// mutated afterward; Define is called exactly once per assembly pass with a
// fresh registrar.
//
// Provides and Requires are static declarations checked at assembly: every
// required key must be provided by a strictly earlier entry (or the state
// definition), and the keys a contribution writes must be listed in
// Provides. The frame validates order; it never reorders.
type Contribution interface {
	// Provides lists the property keys Define writes or accumulates onto.
	Provides() []string

	// Requires lists the upstream properties Define reads.
	Requires() []Requirement

	// Define reads upstream properties from res, registers parameters on
	// reg, and writes its outputs back into res.
	Define(res *Result, reg *Registrar) error
}

// RelaxUnbounded is the sentinel a relaxation returns when a step direction
// does not threaten any of the contribution's inequalities.
var RelaxUnbounded = math.Inf(1)

// Relaxer is implemented by contributions whose equations have a restricted
// domain. Relax returns the maximal admissible multiple of step (a direction
// over the raw state vector) that keeps the contribution-specific inequality
// non-negative, given the current numeric property values. RelaxUnbounded
// means the step is unconstrained.
type Relaxer interface {
	Relax(current Properties, step []float64) (float64, error)
}

// Initializer is implemented by the contribution able to produce a feasible
// starting state for a coordinate system that is not directly derivable from
// a (T, p, n) target. The capability is keyed by state-definition name; a
// frame admits at most one eligible initializer, checked at assembly.
type Initializer interface {
	// InitializesFor names the state definition this initializer serves.
	InitializesFor() string

	// InitialState fills the unresolved slots of partial (NaN marks an
	// unknown) using the target and the tolerantly evaluated properties,
	// returning a complete state vector in base units.
	InitialState(target InitialState, partial []float64, props Properties) ([]float64, error)
}
