// The contradiction signal: a fatal, non-resumable failure raised when a
// mutation would or does empty a domain, or conflicts with an existing
// instantiation. It unwinds synchronously through the propagators to the
// search controller, which reacts by restoring the trail. No operation
// performs partial rollback of its own effects: fields committed before
// the failing check stay committed until Trail.Restore.

package fd

import "fmt"

// ContradictionKind tags the infeasibility that was detected.
type ContradictionKind int

const (
	// KindRemove: removing the last value of a singleton domain.
	KindRemove ContradictionKind = iota
	// KindEmpty: a mutation emptied the domain.
	KindEmpty
	// KindInstantiate: instantiating to a value conflicting with an
	// existing instantiation.
	KindInstantiate
	// KindLow: the new lower bound crosses the upper bound.
	KindLow
	// KindUpp: the new upper bound crosses the lower bound.
	KindUpp
	// KindUnknown: instantiating to a value outside the domain.
	KindUnknown
)

// String returns the human-readable failure message for the kind.
func (k ContradictionKind) String() string {
	switch k {
	case KindRemove:
		return "removing the last value"
	case KindEmpty:
		return "empty domain"
	case KindInstantiate:
		return "the variable is already instantiated to another value"
	case KindLow:
		return "the new lower bound is greater than the upper bound"
	case KindUpp:
		return "the new upper bound is lesser than the lower bound"
	case KindUnknown:
		return "the value is unknown to the variable"
	default:
		return "unknown failure"
	}
}

// Contradiction reports a domain wipe-out. It is fatal to the current
// search branch and never locally recoverable: the only valid reaction is
// to let it propagate to the search controller and restore the trail.
type Contradiction struct {
	Kind  ContradictionKind
	Var   IntVar
	Cause Cause
}

// Error implements error.
func (c *Contradiction) Error() string {
	if c.Var != nil {
		return fmt.Sprintf("contradiction on %s: %s", c.Var.Name(), c.Kind)
	}
	return fmt.Sprintf("contradiction: %s", c.Kind)
}
