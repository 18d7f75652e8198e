package quantity

import (
	"errors"
	"fmt"
)

// ErrNotNumeric is returned when a numeric value is requested from a
// quantity whose expression graph still contains free symbols.
var ErrNotNumeric = errors.New("magnitude is not numeric")

// DimensionError reports a unit incompatibility. Path is set when the error
// originates from a named parameter lookup.
type DimensionError struct {
	Op       string
	Path     string
	Expected Unit
	Found    Unit
}

func (e *DimensionError) Error() string {
	where := e.Op
	if e.Path != "" {
		where = fmt.Sprintf("%s %q", e.Op, e.Path)
	}
	return fmt.Sprintf("%s: expected unit %q, found %q", where, e.Expected.String(), e.Found.String())
}
