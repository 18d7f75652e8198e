package gibbs

import (
	"io"
	"log/slog"

	"github.com/karstlabs/gibbs/pkg/contrib"
	"github.com/karstlabs/gibbs/pkg/frame"
	"github.com/karstlabs/gibbs/pkg/registry"
)

// Engine is the high-level entry point for the gibbs library. It wraps a
// factory preloaded with the built-in contributions and state definitions
// and carries the assembly defaults for every frame it creates.
type Engine struct {
	factory   *registry.Factory
	logger    *slog.Logger
	frameOpts []frame.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a structured logger passed on to every assembled frame.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMaxIterations caps the initial-state Newton iteration of assembled
// frames (default 30).
func WithMaxIterations(n int) Option {
	return func(e *Engine) {
		e.frameOpts = append(e.frameOpts, frame.WithMaxIterations(n))
	}
}

// WithTolerance sets the convergence threshold on the squared residual norm
// of assembled frames (default 1e-9).
func WithTolerance(tol float64) Option {
	return func(e *Engine) {
		e.frameOpts = append(e.frameOpts, frame.WithTolerance(tol))
	}
}

// New initializes an Engine with the built-in contribution classes
// registered.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{factory: registry.NewFactory()}
	for _, opt := range opts {
		opt(eng)
	}
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := contrib.Register(eng.factory); err != nil {
		return nil, err
	}
	return eng, nil
}

// Factory exposes the underlying registry for custom contribution classes
// and state definitions.
func (e *Engine) Factory() *registry.Factory {
	return e.factory
}

// Assemble creates a frame from declarative configuration.
func (e *Engine) Assemble(cfg registry.Config, opts ...frame.Option) (*frame.Frame, error) {
	all := []frame.Option{frame.WithLogger(e.logger)}
	all = append(all, e.frameOpts...)
	all = append(all, opts...)
	return e.factory.CreateFrame(cfg, all...)
}
