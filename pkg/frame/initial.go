package frame

import (
	"fmt"
	"sort"

	"github.com/njchilds90/gosymbol"
	"gonum.org/v1/gonum/mat"

	"github.com/karstlabs/gibbs/internal/solver"
	"github.com/karstlabs/gibbs/pkg/domain"
)

// InitialState produces a feasible starting state for the target: the state
// definition reverses what it can directly, and a registered initializer
// fills the rest after one tolerant evaluation. A frame whose coordinates
// cannot be fully derived and that has no eligible initializer (and no
// default state) is an incomplete model.
func (f *Frame) InitialState(target domain.InitialState, params map[string]float64) ([]float64, error) {
	x, err := f.stateDef.Reverse(target, f.species)
	if err != nil {
		return nil, fmt.Errorf("reverse %s: %w", f.stateDef.Name(), err)
	}
	if len(x) != len(f.stateSyms) {
		return nil, fmt.Errorf("reverse %s: state length %d, frame expects %d", f.stateDef.Name(), len(x), len(f.stateSyms))
	}
	if !hasUnknown(x) {
		return x, nil
	}

	if f.initializer == nil {
		if f.defaultState != nil && len(f.defaultState) == len(x) {
			merged := append([]float64(nil), f.defaultState...)
			for i, v := range x {
				if !domain.IsUnknown(v) {
					merged[i] = v
				}
			}
			return merged, nil
		}
		return nil, &domain.ConfigError{Op: "initial state", Detail: f.stateDef.Name(), Err: domain.ErrNoInitializer}
	}

	props, err := f.EvalPartial(x, params, false)
	if err != nil {
		return nil, err
	}
	full, err := f.initializer.InitialState(target, append([]float64(nil), x...), props)
	if err != nil {
		return nil, fmt.Errorf("initializer for %s: %w", f.stateDef.Name(), err)
	}
	if len(full) != len(x) || hasUnknown(full) {
		return nil, fmt.Errorf("initializer for %s returned an incomplete state", f.stateDef.Name())
	}
	return full, nil
}

// RefineInitialState converts the target into an internal state whose
// evaluated (T, p, n) reproduce it exactly. When the coordinates already are
// (T, p, n) the reversed state is returned with zero iterations and the
// solver is skipped entirely; otherwise the damped Newton iteration refines
// the initializer's guess.
func (f *Frame) RefineInitialState(target domain.InitialState, params map[string]float64) (solver.Result, error) {
	x, err := f.stateDef.Reverse(target, f.species)
	if err != nil {
		return solver.Result{}, fmt.Errorf("reverse %s: %w", f.stateDef.Name(), err)
	}
	if !hasUnknown(x) {
		return solver.Result{State: x, Iterations: 0}, nil
	}

	guess, err := f.InitialState(target, params)
	if err != nil {
		return solver.Result{}, err
	}
	model, err := f.newtonModel(target, params)
	if err != nil {
		return solver.Result{}, err
	}
	return solver.Solve(model, guess, solver.Options{
		MaxIterations: f.maxIter,
		Tolerance:     f.tol,
		Safety:        f.safety,
		Logger:        f.logger,
	})
}

func hasUnknown(x []float64) bool {
	for _, v := range x {
		if domain.IsUnknown(v) {
			return true
		}
	}
	return false
}

// exprFn is a numeric view of one expression over the state symbols. Only
// the symbols that actually occur are substituted per call.
type exprFn struct {
	expr gosymbol.Expr
	free []int
	syms []string
}

func compileFn(e gosymbol.Expr, syms []string) exprFn {
	occurring := gosymbol.FreeSymbols(e)
	var free []int
	for i, name := range syms {
		if _, ok := occurring[name]; ok {
			free = append(free, i)
		}
	}
	return exprFn{expr: e, free: free, syms: syms}
}

func (fn exprFn) eval(x []float64) (float64, error) {
	e := fn.expr
	for _, i := range fn.free {
		e = gosymbol.Sub(e, fn.syms[i], gosymbol.NFloat(x[i]))
	}
	n, ok := e.Eval()
	if !ok {
		return 0, fmt.Errorf("expression did not reduce to a number: %s", e.String())
	}
	return n.Float64(), nil
}

// boundFn is one scalar bound with its gradient over the state symbols.
type boundFn struct {
	name string
	val  exprFn
	grad []exprFn
}

// newtonModel is the solver view of a frame for one target: the normalized
// residual [T/Tt-1, p/pt-1, n/nt-1], its symbolic Jacobian, and the declared
// bounds with their first-order sensitivities.
type newtonModel struct {
	dim    int
	res    []exprFn
	jac    [][]exprFn
	bounds []boundFn
}

func (f *Frame) newtonModel(target domain.InitialState, params map[string]float64) (*newtonModel, error) {
	tT, err := target.Temperature.SI()
	if err != nil {
		return nil, err
	}
	tp, err := target.Pressure.SI()
	if err != nil {
		return nil, err
	}
	tn, err := target.Amount.SIs()
	if err != nil {
		return nil, err
	}
	if len(tn) != f.species.Len() {
		return nil, fmt.Errorf("target amount has %d entries, frame has %d species", len(tn), f.species.Len())
	}
	if tT <= 0 || tp <= 0 {
		return nil, fmt.Errorf("target temperature and pressure must be positive, got %g K, %g Pa", tT, tp)
	}
	for i, v := range tn {
		if v <= 0 {
			return nil, fmt.Errorf("target amount of %s must be positive, got %g mol", f.species.Names()[i], v)
		}
	}

	subs, err := f.paramSubs(params)
	if err != nil {
		return nil, err
	}
	props := f.static.CallSymbolic(subs)

	temperature, ok := props[domain.KeyTemperature]
	if !ok {
		return nil, fmt.Errorf("model provides no %q", domain.KeyTemperature)
	}
	pressure, ok := props[domain.KeyPressure]
	if !ok {
		return nil, fmt.Errorf("model provides no %q", domain.KeyPressure)
	}
	amount, ok := props[domain.KeyAmount]
	if !ok {
		return nil, fmt.Errorf("model provides no %q", domain.KeyAmount)
	}

	residual := []gosymbol.Expr{
		normalized(temperature.Elems()[0], tT),
		normalized(pressure.Elems()[0], tp),
	}
	for i, e := range amount.Elems() {
		residual = append(residual, normalized(e, tn[i]))
	}
	if len(residual) != len(f.stateSyms) {
		return nil, fmt.Errorf("residual has %d blocks, state has %d slots", len(residual), len(f.stateSyms))
	}

	m := &newtonModel{dim: len(residual)}
	for _, e := range residual {
		m.res = append(m.res, compileFn(e, f.stateSyms))
	}
	jac := gosymbol.Jacobian(residual, f.stateSyms)
	m.jac = make([][]exprFn, jac.Rows())
	for i := 0; i < jac.Rows(); i++ {
		m.jac[i] = make([]exprFn, jac.Cols())
		for j := 0; j < jac.Cols(); j++ {
			m.jac[i][j] = compileFn(jac.Get(i, j), f.stateSyms)
		}
	}

	for _, b := range f.bounds {
		value := b.Value
		for _, name := range value.FreeSymbols() {
			if sub, ok := subs[name]; ok {
				value = value.Substitute(name, sub)
			}
		}
		for k, e := range value.Elems() {
			name := b.Name
			if value.Len() > 1 {
				name = fmt.Sprintf("%s[%d]", b.Name, k)
			}
			bf := boundFn{name: name, val: compileFn(e, f.stateSyms)}
			for _, g := range gosymbol.Gradient(e, f.stateSyms) {
				bf.grad = append(bf.grad, compileFn(g, f.stateSyms))
			}
			m.bounds = append(m.bounds, bf)
		}
	}
	return m, nil
}

// normalized builds e/ref - 1.
func normalized(e gosymbol.Expr, ref float64) gosymbol.Expr {
	return gosymbol.AddOf(gosymbol.MulOf(gosymbol.NFloat(1/ref), e), gosymbol.N(-1))
}

// paramSubs validates coverage of the declared parameter structure and
// returns the substitution map.
func (f *Frame) paramSubs(params map[string]float64) (map[string]gosymbol.Expr, error) {
	subs := make(map[string]gosymbol.Expr, len(f.leaves))
	var missing []string
	for _, leaf := range f.leaves {
		v, ok := params[leaf.Path]
		if !ok {
			missing = append(missing, leaf.Path)
			continue
		}
		subs[leaf.Path] = gosymbol.NFloat(v)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("unbound parameters: %v", missing)
	}
	return subs, nil
}

func (m *newtonModel) Residual(x []float64) ([]float64, error) {
	out := make([]float64, len(m.res))
	for i, fn := range m.res {
		v, err := fn.eval(x)
		if err != nil {
			return nil, fmt.Errorf("residual block %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (m *newtonModel) Jacobian(x []float64) (*mat.Dense, error) {
	out := mat.NewDense(m.dim, m.dim, nil)
	for i := range m.jac {
		for j, fn := range m.jac[i] {
			v, err := fn.eval(x)
			if err != nil {
				return nil, fmt.Errorf("jacobian entry (%d,%d): %w", i, j, err)
			}
			out.Set(i, j, v)
		}
	}
	return out, nil
}

// Relax computes the maximal admissible step multiple from the declared
// bounds: for every bound whose directional derivative along the step is
// negative, the multiple that drives it to zero.
func (m *newtonModel) Relax(x, step []float64) (float64, error) {
	limit := domain.RelaxUnbounded
	for _, b := range m.bounds {
		val, err := b.val.eval(x)
		if err != nil {
			return 0, fmt.Errorf("bound %s: %w", b.name, err)
		}
		deriv := 0.0
		for j, g := range b.grad {
			gv, err := g.eval(x)
			if err != nil {
				return 0, fmt.Errorf("bound %s gradient: %w", b.name, err)
			}
			deriv += gv * step[j]
		}
		if deriv >= 0 {
			continue
		}
		a := -val / deriv
		if a < 0 {
			a = 0
		}
		if a < limit {
			limit = a
		}
	}
	return limit, nil
}
