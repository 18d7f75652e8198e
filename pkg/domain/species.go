package domain

import "fmt"

// SpeciesSet is the ordered list of chemical species a frame is built for.
// It is fixed at assembly: it sizes every vector quantity and indexes sparse
// pair parameters.
type SpeciesSet struct {
	names []string
	index map[string]int
}

// NewSpeciesSet builds a species set from ordered unique identifiers.
func NewSpeciesSet(names ...string) (SpeciesSet, error) {
	if len(names) == 0 {
		return SpeciesSet{}, fmt.Errorf("species set: %w: empty", ErrInvalidConfig)
	}
	index := make(map[string]int, len(names))
	for i, n := range names {
		if n == "" {
			return SpeciesSet{}, fmt.Errorf("species set: %w: empty name at position %d", ErrInvalidConfig, i)
		}
		if _, dup := index[n]; dup {
			return SpeciesSet{}, fmt.Errorf("species set: %w: species %q", ErrDuplicateName, n)
		}
		index[n] = i
	}
	copied := make([]string, len(names))
	copy(copied, names)
	return SpeciesSet{names: copied, index: index}, nil
}

// Len returns the number of species.
func (s SpeciesSet) Len() int { return len(s.names) }

// Names returns the species identifiers in order.
func (s SpeciesSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Index returns the position of a species and whether it is present.
func (s SpeciesSet) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}
