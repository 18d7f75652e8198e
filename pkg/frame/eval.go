package frame

import (
	"fmt"
	"sort"

	"github.com/karstlabs/gibbs/pkg/domain"
)

// Eval evaluates the compiled model at a numeric state with the given
// parameter values (SI magnitudes keyed by dotted path). With flow set, the
// flow-form program is used and extensive outputs carry per-time units.
func (f *Frame) Eval(state []float64, params map[string]float64, flow bool) (domain.Properties, error) {
	vals, err := f.bind(state, params)
	if err != nil {
		return nil, err
	}
	return f.program(flow).Call(vals)
}

// EvalPartial evaluates tolerantly: unknown state slots (see domain.Unknown)
// stay symbolic and propagate through dependent outputs. Callers probe
// outputs with IsNumeric.
func (f *Frame) EvalPartial(state []float64, params map[string]float64, flow bool) (domain.Properties, error) {
	vals, err := f.bind(state, params)
	if err != nil {
		return nil, err
	}
	return f.program(flow).CallPartial(vals), nil
}

func (f *Frame) program(flow bool) programCaller {
	if flow {
		return f.flow
	}
	return f.static
}

type programCaller interface {
	Call(map[string]float64) (domain.Properties, error)
	CallPartial(map[string]float64) domain.Properties
}

// bind merges state slots and parameter values into one symbol binding. All
// declared parameters must be present; gaps are reported together.
func (f *Frame) bind(state []float64, params map[string]float64) (map[string]float64, error) {
	if len(state) != len(f.stateSyms) {
		return nil, fmt.Errorf("state length %d, frame expects %d", len(state), len(f.stateSyms))
	}
	vals := make(map[string]float64, len(state)+len(f.leaves))
	for i, name := range f.stateSyms {
		vals[name] = state[i]
	}
	var missing []string
	for _, leaf := range f.leaves {
		v, ok := params[leaf.Path]
		if !ok {
			missing = append(missing, leaf.Path)
			continue
		}
		vals[leaf.Path] = v
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("unbound parameters: %v", missing)
	}
	return vals, nil
}

// Relax returns the minimum over all contributions' relaxation factors for
// a proposed step direction: the largest multiple of step every
// contribution-specific inequality admits. Contributions without a domain
// restriction do not constrain the step.
func (f *Frame) Relax(current domain.Properties, step []float64) (float64, error) {
	limit := domain.RelaxUnbounded
	for _, entry := range f.contribs {
		relaxer, ok := entry.Contribution.(domain.Relaxer)
		if !ok {
			continue
		}
		a, err := relaxer.Relax(current, step)
		if err != nil {
			return 0, fmt.Errorf("relax %q: %w", entry.Name, err)
		}
		if a < limit {
			limit = a
		}
	}
	return limit, nil
}
