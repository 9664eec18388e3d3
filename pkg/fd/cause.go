package fd

// Cause is the opaque origin of a domain mutation: the propagator (or the
// absence of one) that issued it. The dispatcher uses it to avoid waking
// the triggering propagator with the echo of its own mutation, and the
// explanation hook records it for later conflict queries.
type Cause interface {
	// ReactsOnPromotion reports whether the cause still wants to be
	// notified when an event it triggered was promoted to a stronger
	// class than the one it asked for (e.g. a value removal that turned
	// out to instantiate the variable). Causes that return false are
	// never woken by their own mutations.
	ReactsOnPromotion() bool
}

// NoCause attributes a mutation to no propagator, typically a search
// decision or test setup. Dispatch never suppresses notifications for it.
var NoCause Cause = noCause{}

type noCause struct{}

func (noCause) ReactsOnPromotion() bool { return false }
