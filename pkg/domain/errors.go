package domain

import (
	"errors"
	"fmt"
)

// Configuration errors. These are raised at factory or frame build time and
// are never retried.
var (
	// ErrInvalidConfig indicates a malformed configuration value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDuplicateName indicates a name registered or used twice.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrUnknownReference indicates a reference to an unregistered class or
	// state definition.
	ErrUnknownReference = errors.New("unknown reference")

	// ErrUnmetDependency indicates a contribution whose requirement is not
	// provided by a strictly earlier entry.
	ErrUnmetDependency = errors.New("unmet dependency")

	// ErrMissingProperty indicates a contribution read a property no earlier
	// stage has written.
	ErrMissingProperty = errors.New("missing upstream property")

	// ErrNoInitializer indicates a frame whose coordinates cannot be derived
	// from (T, p, n) and no contribution can initialize them. This is an
	// incomplete model, not a numeric condition.
	ErrNoInitializer = errors.New("no contribution can initialize the state")
)

// ConfigError wraps a configuration failure with the assembly step it
// occurred in.
type ConfigError struct {
	Op     string
	Detail string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Detail, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }
