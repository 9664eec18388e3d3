package fd

// Entailment is a propagator's three-valued verdict on whether its
// constraint already holds under the current domains.
type Entailment int

const (
	// EntailUndefined: the constraint may still go either way.
	EntailUndefined Entailment = iota
	// EntailTrue: every remaining assignment satisfies the constraint.
	EntailTrue
	// EntailFalse: no remaining assignment can satisfy the constraint.
	EntailFalse
)

// String returns "TRUE", "FALSE" or "UNDEFINED".
func (e Entailment) String() string {
	switch e {
	case EntailTrue:
		return "TRUE"
	case EntailFalse:
		return "FALSE"
	default:
		return "UNDEFINED"
	}
}

// Propagator is the contract between the domain core and a constraint
// filtering algorithm. A propagator consumes events on its variables,
// re-derives tighter bounds, and may itself trigger further domain
// mutations, which schedule more work on the engine.
//
// Propagators are also Causes: the mutations they issue carry their
// identity, so the dispatcher can avoid waking them with their own echo.
type Propagator interface {
	Cause

	// Vars returns the variables the propagator watches, in a fixed
	// order. The index of a variable in this slice is the varIdx passed
	// to PropagationConditions and PropagateOn.
	Vars() []IntVar

	// PropagationConditions returns the event mask the propagator must
	// be woken for on the variable at varIdx. A mask including
	// ValueRemoved activates that variable's delta log.
	PropagationConditions(varIdx int) Event

	// Propagate performs a full (re)synchronization against the current
	// domains. It runs once when the propagator is posted, before any
	// incremental call.
	Propagate(evtMask Event) error

	// PropagateOn reacts incrementally to the coalesced events that
	// occurred on the variable at varIdx since the last wake-up.
	PropagateOn(varIdx int, evtMask Event) error

	// IsEntailed reports whether the constraint is satisfied, violated,
	// or still undecided under the current domains.
	IsEntailed() Entailment
}
