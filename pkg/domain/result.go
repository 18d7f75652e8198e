package domain

import (
	"fmt"

	"github.com/karstlabs/gibbs/pkg/quantity"
)

// Properties is an evaluated or partially evaluated property map.
type Properties map[string]quantity.Quantity

// Result is the shared property map threaded through the ordered
// contribution list during assembly. It is a sequential accumulator: stages
// read keys written by strictly earlier stages and add onto shared slots.
// A Result is owned by exactly one assembly pass.
type Result struct {
	props map[string]quantity.Quantity
	order []string
}

// NewResult returns an empty property map.
func NewResult() *Result {
	return &Result{props: make(map[string]quantity.Quantity)}
}

// Get returns the quantity stored under key. A missing key is a dependency
// fault of the reading contribution and reports which key was expected.
func (r *Result) Get(key string) (quantity.Quantity, error) {
	q, ok := r.props[key]
	if !ok {
		return quantity.Quantity{}, fmt.Errorf("%w: %q is not written by any earlier contribution", ErrMissingProperty, key)
	}
	return q, nil
}

// Has reports whether key has been written.
func (r *Result) Has(key string) bool {
	_, ok := r.props[key]
	return ok
}

// Set writes a fresh key. Writing an existing key is rejected; shared slots
// must go through Accumulate so the addition is unit-checked.
func (r *Result) Set(key string, q quantity.Quantity) error {
	if _, ok := r.props[key]; ok {
		return fmt.Errorf("property %q: %w", key, ErrDuplicateName)
	}
	r.props[key] = q
	r.order = append(r.order, key)
	return nil
}

// Accumulate adds q onto an existing slot, or creates the slot if this is
// the first writer. Units must be compatible with the existing entry.
func (r *Result) Accumulate(key string, q quantity.Quantity) error {
	existing, ok := r.props[key]
	if !ok {
		return r.Set(key, q)
	}
	sum, err := existing.Add(q)
	if err != nil {
		return fmt.Errorf("accumulate %q: %w", key, err)
	}
	r.props[key] = sum
	return nil
}

// Keys returns the property names in first-write order.
func (r *Result) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Snapshot returns the map as immutable Properties.
func (r *Result) Snapshot() Properties {
	out := make(Properties, len(r.props))
	for k, v := range r.props {
		out[k] = v
	}
	return out
}
