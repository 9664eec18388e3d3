// Event classification and the promotion lattice.
//
// Every successful domain mutation is classified into exactly one event
// class before dispatch. The classes form a partial order in which
// Instantiated subsumes the other three: whenever a mutation leaves a
// singleton domain, the dispatched event is Instantiated regardless of the
// operation that produced it, and the event is flagged as promoted.
// Promotion also covers a value removal that happens to move a bound
// (ValueRemoved upgraded to LowerRaised or UpperLowered).

package fd

import "strings"

// Event is a bitmask over mutation event classes. Propagators declare the
// classes they must be woken for by returning a mask from
// PropagationConditions; dispatch is a single AND test per subscriber.
type Event uint8

const (
	// ValueRemoved signals that an interior value left the domain.
	ValueRemoved Event = 1 << iota
	// LowerRaised signals that the lower bound increased.
	LowerRaised
	// UpperLowered signals that the upper bound decreased.
	UpperLowered
	// Instantiated signals that the domain collapsed to a single value.
	Instantiated
)

// AllEvents is the mask of every event class. Subscribing with it gives a
// propagator value-level granularity and activates the variable's delta log.
func AllEvents() Event {
	return ValueRemoved | LowerRaised | UpperLowered | Instantiated
}

// BoundEvents is the mask of the two bound-tightening classes.
func BoundEvents() Event {
	return LowerRaised | UpperLowered
}

// BoundAndInstantiation is the usual mask for bounds-reasoning propagators.
func BoundAndInstantiation() Event {
	return LowerRaised | UpperLowered | Instantiated
}

// InstantiationOnly is the mask for propagators that only care about
// variables becoming fixed.
func InstantiationOnly() Event {
	return Instantiated
}

// String renders the mask as "+"-joined class names, e.g. "INCLOW+INST".
func (e Event) String() string {
	if e == 0 {
		return "VOID"
	}
	var parts []string
	if e&ValueRemoved != 0 {
		parts = append(parts, "REMOVE")
	}
	if e&LowerRaised != 0 {
		parts = append(parts, "INCLOW")
	}
	if e&UpperLowered != 0 {
		parts = append(parts, "DECUPP")
	}
	if e&Instantiated != 0 {
		parts = append(parts, "INST")
	}
	return strings.Join(parts, "+")
}

// event is the value actually dispatched to subscribers: the (single-bit)
// class plus whether it was upgraded from a weaker class. The promoted
// flag replaces the cause-nulling trick some solvers use: the cause is
// never rewritten mid-operation, the dispatcher just consults the flag
// when deciding whether to echo the event back to its own cause.
type event struct {
	mask     Event
	promoted bool
}
