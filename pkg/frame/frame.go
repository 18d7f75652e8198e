// Package frame assembles ordered contributions into a callable
// thermodynamic state function and drives its domain-aware initialization.
package frame

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/njchilds90/gosymbol"

	"github.com/karstlabs/gibbs/internal/compiler"
	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// Named is a contribution instance under its unique frame-local name. The
// name prefixes every parameter path the instance declares.
type Named struct {
	Name         string
	Contribution domain.Contribution
}

// Frame is the assembled thermodynamic model: an ordered contribution chain
// compiled into evaluation functions for the static and flow forms, plus the
// declared parameter structure and domain bounds. A frame is immutable after
// assembly.
type Frame struct {
	species  domain.SpeciesSet
	stateDef domain.StateDefinition
	contribs []Named

	stateSyms []string
	static    *compiler.Program
	flow      *compiler.Program

	leaves     []domain.ParameterLeaf
	paramUnits map[string]quantity.Unit
	bounds     []domain.Bound

	initializer  domain.Initializer
	defaultState []float64

	logger  *slog.Logger
	maxIter int
	tol     float64
	safety  float64
}

// Option configures frame assembly.
type Option func(*Frame)

// WithLogger sets a structured logger for assembly and solver diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Frame) { f.logger = logger }
}

// WithMaxIterations caps the initial-state Newton iteration.
func WithMaxIterations(n int) Option {
	return func(f *Frame) { f.maxIter = n }
}

// WithTolerance sets the convergence threshold on the squared residual norm.
func WithTolerance(tol float64) Option {
	return func(f *Frame) { f.tol = tol }
}

// WithSafety sets the relaxation safety factor applied to the bound-derived
// step limit.
func WithSafety(gamma float64) Option {
	return func(f *Frame) { f.safety = gamma }
}

// WithDefaultState provides a fallback initial state used when the state
// definition cannot fully reverse a target and no initializer is eligible.
func WithDefaultState(state []float64) Option {
	return func(f *Frame) { f.defaultState = append([]float64(nil), state...) }
}

// New assembles a frame. The contribution order is the caller's: assembly
// validates that every requirement is met by a strictly earlier entry (or
// the state definition) and fails otherwise; it never reorders.
func New(species domain.SpeciesSet, stateDef domain.StateDefinition, contribs []Named, opts ...Option) (*Frame, error) {
	f := &Frame{
		species:  species,
		stateDef: stateDef,
		contribs: append([]Named(nil), contribs...),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		maxIter:  30,
		tol:      1e-9,
		safety:   0.9,
	}
	for _, opt := range opts {
		opt(f)
	}

	if err := f.validateOrder(); err != nil {
		return nil, err
	}

	n := species.Len() + stateDef.Coordinates()
	f.stateSyms = make([]string, n)
	for i := range f.stateSyms {
		f.stateSyms[i] = fmt.Sprintf("x%d", i)
	}

	static, leaves, bounds, err := f.assemble(false)
	if err != nil {
		return nil, err
	}
	flow, _, _, err := f.assemble(true)
	if err != nil {
		return nil, err
	}
	f.static, f.flow = static, flow
	f.leaves, f.bounds = leaves, bounds

	f.paramUnits = make(map[string]quantity.Unit, len(leaves))
	for _, leaf := range leaves {
		if _, dup := f.paramUnits[leaf.Path]; dup {
			return nil, &domain.ConfigError{Op: "assemble", Detail: leaf.Path, Err: domain.ErrDuplicateName}
		}
		f.paramUnits[leaf.Path] = leaf.Unit
	}

	if err := f.discoverInitializer(); err != nil {
		return nil, err
	}

	f.logger.Debug("frame assembled",
		"state", stateDef.Name(),
		"species", species.Len(),
		"contributions", len(contribs),
		"parameters", len(leaves),
		"bounds", len(bounds))
	return f, nil
}

// validateOrder checks instance-name uniqueness and the strictly-earlier
// dependency rule against the static Provides/Requires declarations.
func (f *Frame) validateOrder() error {
	seen := map[string]struct{}{}
	providers := map[string][]string{}
	for _, key := range f.stateDef.Provides() {
		providers[key] = append(providers[key], f.stateDef.Name())
	}
	providers[domain.KeyState] = append(providers[domain.KeyState], f.stateDef.Name())

	for _, entry := range f.contribs {
		if entry.Name == "" {
			return &domain.ConfigError{Op: "validate", Err: fmt.Errorf("%w: contribution with empty instance name", domain.ErrInvalidConfig)}
		}
		if _, dup := seen[entry.Name]; dup {
			return &domain.ConfigError{Op: "validate", Detail: entry.Name, Err: domain.ErrDuplicateName}
		}
		seen[entry.Name] = struct{}{}

		for _, req := range entry.Contribution.Requires() {
			names, ok := providers[req.Key]
			if !ok {
				return &domain.ConfigError{
					Op:     "validate",
					Detail: fmt.Sprintf("contribution %q requires %q", entry.Name, req.Key),
					Err:    domain.ErrUnmetDependency,
				}
			}
			if req.Provider != "" && !contains(names, req.Provider) {
				return &domain.ConfigError{
					Op:     "validate",
					Detail: fmt.Sprintf("contribution %q requires %q from %q", entry.Name, req.Key, req.Provider),
					Err:    domain.ErrUnmetDependency,
				}
			}
		}
		for _, key := range entry.Contribution.Provides() {
			providers[key] = append(providers[key], entry.Name)
		}
	}
	return nil
}

func contains(names []string, want string) bool {
	for _, n := range names {
		if n == want {
			return true
		}
	}
	return false
}

// assemble runs one define pass over the ordered contributions and compiles
// the resulting property map.
func (f *Frame) assemble(flow bool) (*compiler.Program, []domain.ParameterLeaf, []domain.Bound, error) {
	raw := make([]gosymbol.Expr, len(f.stateSyms))
	for i, name := range f.stateSyms {
		raw[i] = gosymbol.S(name)
	}

	res := domain.NewResult()
	if err := f.stateDef.Prepare(res, raw, f.species, flow); err != nil {
		return nil, nil, nil, &domain.ConfigError{Op: "prepare", Detail: f.stateDef.Name(), Err: err}
	}

	var leaves []domain.ParameterLeaf
	var bounds []domain.Bound
	for _, entry := range f.contribs {
		reg := domain.NewRegistrar(entry.Name, f.species)
		if err := entry.Contribution.Define(res, reg); err != nil {
			return nil, nil, nil, &domain.ConfigError{Op: "define", Detail: entry.Name, Err: err}
		}
		leaves = append(leaves, reg.Leaves()...)
		bounds = append(bounds, reg.Bounds()...)
	}

	args := append([]string(nil), f.stateSyms...)
	for _, leaf := range leaves {
		args = append(args, leaf.Path)
	}
	var outs []compiler.Output
	for _, key := range res.Keys() {
		q, err := res.Get(key)
		if err != nil {
			return nil, nil, nil, err
		}
		outs = append(outs, compiler.Output{Key: key, Quantity: q})
	}
	name := "static"
	if flow {
		name = "flow"
	}
	return compiler.New(name, args, outs), leaves, bounds, nil
}

// discoverInitializer resolves the explicit initialization capability for
// this frame's coordinate system. At most one contribution may be eligible.
func (f *Frame) discoverInitializer() error {
	for _, entry := range f.contribs {
		init, ok := entry.Contribution.(domain.Initializer)
		if !ok || init.InitializesFor() != f.stateDef.Name() {
			continue
		}
		if f.initializer != nil {
			return &domain.ConfigError{
				Op:     "initializer",
				Detail: fmt.Sprintf("more than one contribution initializes %q", f.stateDef.Name()),
				Err:    domain.ErrDuplicateName,
			}
		}
		f.initializer = init
	}
	return nil
}

// Species returns the frame's species set.
func (f *Frame) Species() domain.SpeciesSet { return f.species }

// StateName returns the name of the frame's state definition.
func (f *Frame) StateName() string { return f.stateDef.Name() }

// StateLen returns the raw state vector length.
func (f *Frame) StateLen() int { return len(f.stateSyms) }

// Bounds returns the declared non-negativity bounds.
func (f *Frame) Bounds() []domain.Bound {
	return append([]domain.Bound(nil), f.bounds...)
}

// ParameterStructure exposes the declared parameters as dotted-path -> unit
// string. This is the contract a params.Store consumes; it carries no values.
func (f *Frame) ParameterStructure() map[string]string {
	out := make(map[string]string, len(f.leaves))
	for _, leaf := range f.leaves {
		out[leaf.Path] = leaf.Unit.String()
	}
	return out
}
