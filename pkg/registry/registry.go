// Package registry manages the available contribution classes and state
// definitions, and assembles frames from declarative configuration.
package registry

import (
	"fmt"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/frame"
)

// Constructor builds a contribution instance for a species set from its
// free-form options.
type Constructor func(species domain.SpeciesSet, options map[string]any) (domain.Contribution, error)

// Factory is the registry of contribution classes and state definitions.
type Factory struct {
	contributions map[string]Constructor
	states        map[string]domain.StateDefinition
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		contributions: make(map[string]Constructor),
		states:        make(map[string]domain.StateDefinition),
	}
}

// RegisterContribution adds a contribution class under a unique name.
func (f *Factory) RegisterContribution(class string, ctor Constructor) error {
	if class == "" || ctor == nil {
		return &domain.ConfigError{Op: "register contribution", Err: domain.ErrInvalidConfig}
	}
	if _, dup := f.contributions[class]; dup {
		return &domain.ConfigError{Op: "register contribution", Detail: class, Err: domain.ErrDuplicateName}
	}
	f.contributions[class] = ctor
	return nil
}

// RegisterState adds a state definition under its unique name.
func (f *Factory) RegisterState(def domain.StateDefinition) error {
	if def == nil || def.Name() == "" {
		return &domain.ConfigError{Op: "register state", Err: domain.ErrInvalidConfig}
	}
	if _, dup := f.states[def.Name()]; dup {
		return &domain.ConfigError{Op: "register state", Detail: def.Name(), Err: domain.ErrDuplicateName}
	}
	f.states[def.Name()] = def
	return nil
}

// Contributions returns the registered class names.
func (f *Factory) Contributions() []string {
	out := make([]string, 0, len(f.contributions))
	for name := range f.contributions {
		out = append(out, name)
	}
	return out
}

// CreateFrame assembles a frame from configuration: the species set, the
// state-definition selector, and the ordered contribution list. Duplicate
// instance names, unknown references, and unmet dependencies are rejected;
// no frame is constructed on failure.
func (f *Factory) CreateFrame(cfg Config, opts ...frame.Option) (*frame.Frame, error) {
	species, err := domain.NewSpeciesSet(cfg.Species...)
	if err != nil {
		return nil, err
	}

	stateDef, ok := f.states[cfg.State]
	if !ok {
		return nil, &domain.ConfigError{Op: "create frame", Detail: "state " + cfg.State, Err: domain.ErrUnknownReference}
	}

	if len(cfg.Contributions) == 0 {
		return nil, &domain.ConfigError{Op: "create frame", Err: fmt.Errorf("%w: no contributions", domain.ErrInvalidConfig)}
	}
	instances := make([]frame.Named, 0, len(cfg.Contributions))
	for _, entry := range cfg.Contributions {
		ctor, ok := f.contributions[entry.Class]
		if !ok {
			return nil, &domain.ConfigError{Op: "create frame", Detail: "class " + entry.Class, Err: domain.ErrUnknownReference}
		}
		name := entry.Name
		if name == "" {
			name = entry.Class
		}
		c, err := ctor(species, entry.Options)
		if err != nil {
			return nil, &domain.ConfigError{Op: "create frame", Detail: name, Err: err}
		}
		instances = append(instances, frame.Named{Name: name, Contribution: c})
	}

	return frame.New(species, stateDef, instances, opts...)
}
