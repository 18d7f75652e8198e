// Package params resolves the parameter structure a frame declares against
// prioritized, named value sources, with identity-preserving symbol caching.
package params

import (
	"fmt"
	"sort"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// Source answers "value at this parameter path" or reports absence. A source
// never raises on absence; dimensional mismatch of an answered value is the
// store's to detect.
type Source interface {
	Lookup(path string) (quantity.Quantity, bool)
}

// MapSource is an in-memory source.
type MapSource map[string]quantity.Quantity

// Lookup implements Source.
func (m MapSource) Lookup(path string) (quantity.Quantity, bool) {
	q, ok := m[path]
	return q, ok
}

type symbolEntry struct {
	path   string
	unit   quantity.Unit
	symbol quantity.Quantity
}

type namedSource struct {
	name   string
	source Source
}

// Store caches one unit-tagged symbol per parameter path and resolves values
// from an ordered list of named sources. Paths are interned: each gets a
// stable handle on first request, and repeated requests return the identical
// symbol so expression graphs built by different consumers share nodes.
//
// The store grows monotonically; sources are never removed. Precedence on
// conflict: the most-recently-added source wins. A store is meant to be
// shared by reference across every consumer drawing from the same parameter
// pool; concurrent use requires external synchronization.
type Store struct {
	handles map[string]int
	symbols []symbolEntry
	sources []namedSource
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{handles: make(map[string]int)}
}

// Resolution is the outcome of one resolution walk over the cached symbols.
type Resolution struct {
	// Values maps answered paths to SI magnitudes.
	Values map[string]float64

	// Missing maps unanswered paths to the unit string a value must be
	// convertible to. Gaps collect here instead of raising per leaf so all
	// of them surface in one pass.
	Missing map[string]string

	// Sources maps answered paths to the name of the source that answered.
	Sources map[string]string
}

// GetSymbols walks a dotted-path -> unit-string structure and returns the
// symbol quantity for every leaf. An uncached path is interned with a fresh
// symbol; a cached path is checked for unit compatibility and returns the
// cached symbol unchanged. An incompatible unit is an error and leaves the
// cache untouched.
func (s *Store) GetSymbols(structure map[string]string) (map[string]quantity.Quantity, error) {
	paths := make([]string, 0, len(structure))
	for path := range structure {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	// Validate before interning so a failure leaves the cache unchanged.
	units := make(map[string]quantity.Unit, len(paths))
	for _, path := range paths {
		u, err := quantity.Parse(structure[path])
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", path, err)
		}
		if h, ok := s.handles[path]; ok {
			if !s.symbols[h].unit.Compatible(u) {
				return nil, &quantity.DimensionError{Op: "symbol reuse", Path: path, Expected: s.symbols[h].unit, Found: u}
			}
		}
		units[path] = u
	}

	out := make(map[string]quantity.Quantity, len(paths))
	for _, path := range paths {
		h, ok := s.handles[path]
		if !ok {
			h = len(s.symbols)
			s.handles[path] = h
			s.symbols = append(s.symbols, symbolEntry{
				path:   path,
				unit:   units[path],
				symbol: quantity.Symbol(path, units[path]),
			})
		}
		out[path] = s.symbols[h].symbol
	}
	return out, nil
}

// Handle returns the interned index of a path. Two symbol requests refer to
// the same parameter exactly when their handles are equal.
func (s *Store) Handle(path string) (int, bool) {
	h, ok := s.handles[path]
	return h, ok
}

// AddSource registers a named source. The name must be unique; later sources
// take precedence over earlier ones.
func (s *Store) AddSource(name string, src Source) error {
	for _, existing := range s.sources {
		if existing.name == name {
			return fmt.Errorf("source %q: %w", name, domain.ErrDuplicateName)
		}
	}
	s.sources = append(s.sources, namedSource{name: name, source: src})
	return nil
}

// SourceNames returns the registered source names in registration order.
func (s *Store) SourceNames() []string {
	out := make([]string, len(s.sources))
	for i, src := range s.sources {
		out[i] = src.name
	}
	return out
}

// Resolve walks every cached symbol once, querying sources in reverse
// registration order. An answered leaf whose unit is incompatible with the
// requested one is an error carrying the path and both units; an unanswered
// leaf lands in the missing tree.
func (s *Store) Resolve() (Resolution, error) {
	res := Resolution{
		Values:  make(map[string]float64),
		Missing: make(map[string]string),
		Sources: make(map[string]string),
	}
	for _, entry := range s.symbols {
		answered := false
		for i := len(s.sources) - 1; i >= 0; i-- {
			q, ok := s.sources[i].source.Lookup(entry.path)
			if !ok {
				continue
			}
			if !q.Unit().Compatible(entry.unit) {
				return Resolution{}, &quantity.DimensionError{
					Op:       "source " + s.sources[i].name,
					Path:     entry.path,
					Expected: entry.unit,
					Found:    q.Unit(),
				}
			}
			v, err := q.SI()
			if err != nil {
				return Resolution{}, fmt.Errorf("source %q: parameter %q: %w", s.sources[i].name, entry.path, err)
			}
			res.Values[entry.path] = v
			res.Sources[entry.path] = s.sources[i].name
			answered = true
			break
		}
		if !answered {
			res.Missing[entry.path] = entry.unit.String()
		}
	}
	return res, nil
}

// Values returns the SI magnitude of every answered symbol.
func (s *Store) Values() (map[string]float64, error) {
	res, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	return res.Values, nil
}

// Missing returns the unanswered paths mapped to their requested units.
func (s *Store) Missing() (map[string]string, error) {
	res, err := s.Resolve()
	if err != nil {
		return nil, err
	}
	return res.Missing, nil
}
