// Package compiler turns an accumulated property map into a named callable
// over an ordered list of symbol slots. A program can be called with numbers
// (full evaluation), with a partial binding (unresolved symbols propagate
// through the outputs), or with further symbols.
package compiler

import (
	"fmt"
	"math"
	"sort"

	"github.com/njchilds90/gosymbol"

	"github.com/karstlabs/gibbs/pkg/domain"
	"github.com/karstlabs/gibbs/pkg/quantity"
)

// Output is one compiled property: its key and its expression quantity in
// base units.
type Output struct {
	Key      string
	Quantity quantity.Quantity
}

// Program is a compiled evaluation function. Arguments are symbol names in a
// fixed order: the raw state slots first, then the parameter paths.
type Program struct {
	name string
	args []string
	outs []Output
	// free caches, per output index, which arguments actually occur in the
	// output so calls only substitute what matters.
	free []map[string]struct{}
}

// New compiles a program from ordered argument names and outputs.
func New(name string, args []string, outs []Output) *Program {
	p := &Program{name: name, args: append([]string(nil), args...), outs: append([]Output(nil), outs...)}
	p.free = make([]map[string]struct{}, len(p.outs))
	for i, out := range p.outs {
		occurring := make(map[string]struct{})
		for _, name := range out.Quantity.FreeSymbols() {
			occurring[name] = struct{}{}
		}
		p.free[i] = occurring
	}
	return p
}

// Name returns the program's name.
func (p *Program) Name() string { return p.name }

// Args returns the argument symbol names in call order.
func (p *Program) Args() []string {
	return append([]string(nil), p.args...)
}

// Outputs returns the compiled outputs.
func (p *Program) Outputs() []Output {
	return append([]Output(nil), p.outs...)
}

// Call evaluates every output with the given numeric bindings (SI
// magnitudes). Every argument must be bound and every output must become
// numeric; anything else is an error naming the offending symbols.
func (p *Program) Call(vals map[string]float64) (domain.Properties, error) {
	for _, arg := range p.args {
		if _, ok := vals[arg]; !ok {
			return nil, fmt.Errorf("program %s: argument %q not bound", p.name, arg)
		}
	}
	props := p.substituteNumeric(vals)
	for _, out := range p.outs {
		q := props[out.Key]
		if !q.IsNumeric() {
			return nil, fmt.Errorf("program %s: output %q: %w: free symbols %v",
				p.name, out.Key, quantity.ErrNotNumeric, q.FreeSymbols())
		}
	}
	return props, nil
}

// CallPartial evaluates with an incomplete binding. Outputs that still
// depend on unbound symbols stay symbolic; callers probe with IsNumeric.
func (p *Program) CallPartial(vals map[string]float64) domain.Properties {
	return p.substituteNumeric(vals)
}

// CallSymbolic substitutes expressions for arguments, producing outputs over
// the remaining (or newly introduced) symbols.
func (p *Program) CallSymbolic(subs map[string]gosymbol.Expr) domain.Properties {
	props := make(domain.Properties, len(p.outs))
	for i, out := range p.outs {
		q := out.Quantity
		for _, arg := range p.orderedOccurring(i, func(name string) bool { _, ok := subs[name]; return ok }) {
			q = q.Substitute(arg, subs[arg])
		}
		props[out.Key] = q
	}
	return props
}

func (p *Program) substituteNumeric(vals map[string]float64) domain.Properties {
	// Non-finite bindings are treated as unbound: the unknown sentinel must
	// stay a free symbol, never enter the expression graph.
	bound := func(name string) bool {
		v, ok := vals[name]
		return ok && !math.IsNaN(v) && !math.IsInf(v, 0)
	}
	props := make(domain.Properties, len(p.outs))
	for i, out := range p.outs {
		q := out.Quantity
		for _, arg := range p.orderedOccurring(i, bound) {
			q = q.Substitute(arg, gosymbol.NFloat(vals[arg]))
		}
		props[out.Key] = q
	}
	return props
}

// orderedOccurring returns the bound symbols occurring in output i, in a
// deterministic order.
func (p *Program) orderedOccurring(i int, bound func(string) bool) []string {
	var names []string
	for name := range p.free[i] {
		if bound(name) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
