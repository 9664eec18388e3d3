// The propagation engine: subscription bookkeeping and the explicit
// work-list that replaces recursive dispatch.
//
// Dispatching an event does not run propagators re-entrantly. A mutation
// appends (subscription, mask) entries to the engine's queue, coalescing
// masks for already-queued subscriptions, and the caller - normally the
// search controller, between decisions - drains the queue to a fixpoint
// with Propagate. The domain/event layer therefore carries no
// recursion-depth assumptions.

package fd

import "fmt"

// subscription wires one propagator to one of its variables with the event
// mask it subscribed for. pending accumulates the classes seen since the
// propagator was last woken for this variable.
//
// A subscription stays inactive until its propagator's initial full
// synchronization has run: the full pass reads the already-narrowed
// domains, so delivering earlier events incrementally on top of it would
// count the same change twice.
type subscription struct {
	eng     *Engine
	prop    Propagator
	varIdx  int
	mask    Event
	pending Event
	queued  bool
	active  bool
}

// posting tracks a freshly posted propagator until its initial full
// synchronization has run and its subscriptions can be activated.
type posting struct {
	prop Propagator
	subs []*subscription
}

// Engine owns the trail and the propagation work-list for one variable
// graph. It is single-threaded; parallel search must use one Engine per
// worker over an independent copy of the model.
type Engine struct {
	trail     *Trail
	queue     []*subscription
	fresh     []posting
	posted    []Propagator
	explainer Explainer
}

// NewEngine creates an engine with a fresh trail.
func NewEngine() *Engine {
	return &Engine{trail: NewTrail()}
}

// Trail returns the engine's trailed storage arena. Search controllers use
// it to snapshot before a decision and restore after a contradiction.
func (e *Engine) Trail() *Trail {
	return e.trail
}

// SetExplainer installs the optional explanation hook. It must be set
// before variables are mutated; recording is purely additive and never
// affects propagation outcomes.
func (e *Engine) SetExplainer(x Explainer) {
	e.explainer = x
}

// Post subscribes the propagator to its variables according to its
// propagation conditions and schedules one full synchronization, which
// runs on the next Propagate call before any incremental work. Events on
// the propagator's variables dispatched before that synchronization has
// run are not delivered incrementally; the full pass sees their effect in
// the domains it reads.
func (e *Engine) Post(p Propagator) error {
	if p == nil {
		return fmt.Errorf("Post: nil propagator")
	}
	vars := p.Vars()
	if len(vars) == 0 {
		return fmt.Errorf("Post: propagator watches no variables")
	}
	var subs []*subscription
	for i, v := range vars {
		mask := p.PropagationConditions(i)
		if mask == 0 {
			continue
		}
		s := &subscription{eng: e, prop: p, varIdx: i, mask: mask}
		v.subscribe(s)
		subs = append(subs, s)
	}
	e.posted = append(e.posted, p)
	e.fresh = append(e.fresh, posting{prop: p, subs: subs})
	return nil
}

// Propagate drains the work-list to a fixpoint: freshly posted propagators
// get a full synchronization, then queued subscriptions are woken
// incrementally until no pending work remains. On the first contradiction
// the remaining queue is flushed and the error returned; the caller is
// expected to restore the trail.
func (e *Engine) Propagate() error {
	for len(e.fresh) > 0 || len(e.queue) > 0 {
		if len(e.fresh) > 0 {
			f := e.fresh[0]
			e.fresh = e.fresh[1:]
			if err := f.prop.Propagate(AllEvents()); err != nil {
				e.flush()
				return err
			}
			for _, s := range f.subs {
				s.active = true
			}
			continue
		}
		s := e.queue[0]
		e.queue = e.queue[1:]
		mask := s.pending
		s.pending = 0
		s.queued = false
		if err := s.prop.PropagateOn(s.varIdx, mask); err != nil {
			e.flush()
			return err
		}
	}
	return nil
}

// Entailed reports the conjunction of all posted propagators' verdicts:
// False if any is violated, True if all are satisfied, Undefined otherwise.
func (e *Engine) Entailed() Entailment {
	all := EntailTrue
	for _, p := range e.posted {
		switch p.IsEntailed() {
		case EntailFalse:
			return EntailFalse
		case EntailUndefined:
			all = EntailUndefined
		}
	}
	return all
}

// schedule coalesces one dispatched event class into the subscription's
// pending mask, enqueueing it if it is not already waiting. Subscriptions
// of a propagator whose initial synchronization has not run yet are
// ignored; the full pass accounts for those events itself.
func (e *Engine) schedule(s *subscription, mask Event) {
	if !s.active {
		return
	}
	s.pending |= mask
	if !s.queued {
		s.queued = true
		e.queue = append(e.queue, s)
	}
}

// flush discards all pending work after a contradiction aborted the cycle.
func (e *Engine) flush() {
	e.fresh = e.fresh[:0]
	for _, s := range e.queue {
		s.pending = 0
		s.queued = false
	}
	e.queue = e.queue[:0]
}

// recordRemoval forwards one committed value removal to the explanation
// hook, if any.
func (e *Engine) recordRemoval(v IntVar, value int, cause Cause) {
	if e.explainer != nil {
		e.explainer.OnRemoval(v, value, cause)
	}
}
