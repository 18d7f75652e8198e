// Package solver implements the damped Newton iteration that turns a
// feasible state guess into one reproducing a (T, p, n) target exactly.
//
// The residual is normalized by the target so every block is dimensionless
// and comparably scaled. Steps are damped so that no declared bound crosses
// zero: the model reports the maximal admissible step multiple and the
// solver applies a safety factor on top of it.
package solver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Numerical failure causes. Both are typed iteration failures, distinct from
// programming errors, and are never silently returned as converged.
var (
	// ErrSingular indicates a singular or ill-conditioned Newton system.
	ErrSingular = errors.New("singular jacobian")

	// ErrBudgetExceeded indicates the iteration count ran out before the
	// residual met the tolerance.
	ErrBudgetExceeded = errors.New("iteration budget exceeded")
)

// IterationError wraps a numerical failure with the iteration it occurred in
// and the residual norm at that point.
type IterationError struct {
	Iteration int
	Norm2     float64
	Err       error
}

func (e *IterationError) Error() string {
	return fmt.Sprintf("iteration %d: %v (residual norm² %.3e)", e.Iteration, e.Err, e.Norm2)
}

func (e *IterationError) Unwrap() error { return e.Err }

// Model is the system a frame exposes to the solver: the normalized
// residual, its exact Jacobian, and the bound-based step limit.
type Model interface {
	// Residual returns r(x); convergence is measured on ‖r‖².
	Residual(x []float64) ([]float64, error)

	// Jacobian returns dr/dx at x.
	Jacobian(x []float64) (*mat.Dense, error)

	// Relax returns the maximal multiple of step that keeps every declared
	// bound non-negative, or +Inf when no bound qualifies.
	Relax(x, step []float64) (float64, error)
}

// Options tune the iteration. Zero values select the defaults.
type Options struct {
	// MaxIterations caps the Newton loop (default 30).
	MaxIterations int

	// Tolerance is the convergence threshold on the squared residual norm
	// (default 1e-9).
	Tolerance float64

	// Safety scales the bound-derived step limit (default 0.9). The limit
	// uses first-order bound sensitivity only; strongly curved domains may
	// need a smaller factor.
	Safety float64

	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = 30
	}
	if o.Tolerance <= 0 {
		o.Tolerance = 1e-9
	}
	if o.Safety <= 0 {
		o.Safety = 0.9
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Result is a converged iteration outcome.
type Result struct {
	State      []float64
	Iterations int
	Norm2      float64
}

// Solve runs the damped Newton iteration from x0.
func Solve(m Model, x0 []float64, opts Options) (Result, error) {
	opts = opts.withDefaults()

	x := append([]float64(nil), x0...)
	n := len(x)

	for it := 0; ; it++ {
		r, err := m.Residual(x)
		if err != nil {
			return Result{}, fmt.Errorf("residual at iteration %d: %w", it, err)
		}
		if len(r) != n {
			return Result{}, fmt.Errorf("residual length %d does not match state length %d", len(r), n)
		}
		norm2 := floats.Dot(r, r)
		if norm2 < opts.Tolerance {
			opts.Logger.Debug("converged", "iterations", it, "norm2", norm2)
			return Result{State: x, Iterations: it, Norm2: norm2}, nil
		}
		if it >= opts.MaxIterations {
			return Result{}, &IterationError{Iteration: it, Norm2: norm2, Err: ErrBudgetExceeded}
		}

		jac, err := m.Jacobian(x)
		if err != nil {
			return Result{}, fmt.Errorf("jacobian at iteration %d: %w", it, err)
		}

		neg := make([]float64, n)
		for i, v := range r {
			neg[i] = -v
		}
		var step mat.VecDense
		if err := step.SolveVec(jac, mat.NewVecDense(n, neg)); err != nil {
			return Result{}, &IterationError{Iteration: it, Norm2: norm2, Err: fmt.Errorf("%w: %v", ErrSingular, err)}
		}
		dx := step.RawVector().Data

		limit, err := m.Relax(x, dx)
		if err != nil {
			return Result{}, fmt.Errorf("relaxation at iteration %d: %w", it, err)
		}
		alpha := 1.0
		if !math.IsInf(limit, 1) {
			alpha = math.Min(1, opts.Safety*limit)
		}

		floats.AddScaled(x, alpha, dx)
		opts.Logger.Debug("newton step", "iteration", it, "norm2", norm2, "alpha", alpha)
	}
}
