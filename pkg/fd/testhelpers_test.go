package fd

// Shared test fixtures: a probe propagator that records every wake-up it
// receives, optionally running a caller-supplied reaction.

type wakeup struct {
	varIdx int
	mask   Event
}

// probe is a scriptable Propagator for dispatch tests.
type probe struct {
	vars   []IntVar
	masks  []Event
	reacts bool

	fullCalls int
	wakeups   []wakeup

	onWake func(varIdx int, mask Event) error
}

func newProbe(mask Event, vars ...IntVar) *probe {
	masks := make([]Event, len(vars))
	for i := range masks {
		masks[i] = mask
	}
	return &probe{vars: vars, masks: masks}
}

func (p *probe) ReactsOnPromotion() bool { return p.reacts }

func (p *probe) Vars() []IntVar { return p.vars }

func (p *probe) PropagationConditions(varIdx int) Event { return p.masks[varIdx] }

func (p *probe) Propagate(_ Event) error {
	p.fullCalls++
	return nil
}

func (p *probe) PropagateOn(varIdx int, mask Event) error {
	p.wakeups = append(p.wakeups, wakeup{varIdx: varIdx, mask: mask})
	if p.onWake != nil {
		return p.onWake(varIdx, mask)
	}
	return nil
}

func (p *probe) IsEntailed() Entailment { return EntailUndefined }

// drain runs the engine to a fixpoint and clears the probe's recent
// wake-up history, so the next assertions see only new dispatches.
func (p *probe) drain(eng *Engine) error {
	err := eng.Propagate()
	p.wakeups = nil
	return err
}
