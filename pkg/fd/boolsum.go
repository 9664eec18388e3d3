// BoolSum: the exemplar incremental propagator. It enforces that the sum
// of a set of 0/1 variables equals an integer variable, in O(1) per
// instantiation event instead of an O(n) rescan per wake-up.
//
// Two trailed aggregates track the minimum and maximum possible sum of
// the operands. A full synchronization recomputes both in one linear
// pass; an incremental wake-up on one operand's instantiation adjusts the
// relevant aggregate by exactly one unit. Either path then tightens the
// sum variable to the aggregate range and, when the range has collapsed
// onto the sum's fixed value, forces every still-free operand to the
// consistent side. The aggregates roll back with the trail, so the
// incremental state survives backtracking for free.

package fd

import (
	"fmt"
	"strings"
)

// BoolSum states that operands[0] + ... + operands[n-1] = sum, where every
// operand is a 0/1 variable.
type BoolSum struct {
	vars []IntVar // n operands followed by the sum variable
	n    int
	sum  IntVar

	min, max *StoredInt
}

// NewBoolSum creates the constraint. Every operand must have its initial
// domain within {0, 1}.
func NewBoolSum(eng *Engine, operands []IntVar, sum IntVar) (*BoolSum, error) {
	if eng == nil {
		return nil, fmt.Errorf("NewBoolSum: nil engine")
	}
	if len(operands) == 0 {
		return nil, fmt.Errorf("NewBoolSum: no operands")
	}
	if sum == nil {
		return nil, fmt.Errorf("NewBoolSum: nil sum variable")
	}
	for i, v := range operands {
		if v == nil {
			return nil, fmt.Errorf("NewBoolSum: operands[%d] is nil", i)
		}
		if v.LB() < 0 || v.UB() > 1 {
			return nil, fmt.Errorf("NewBoolSum: operands[%d] (%s) is not a 0/1 variable", i, v.Name())
		}
	}
	vars := make([]IntVar, 0, len(operands)+1)
	vars = append(vars, operands...)
	vars = append(vars, sum)
	t := eng.Trail()
	return &BoolSum{
		vars: vars,
		n:    len(operands),
		sum:  sum,
		min:  t.MakeInt(0),
		max:  t.MakeInt(0),
	}, nil
}

// ReactsOnPromotion implements Cause. The incremental adjustment already
// accounts for the strongest consequence of its own mutations, so the
// propagator never needs its own promoted echoes.
func (p *BoolSum) ReactsOnPromotion() bool { return false }

// Vars implements Propagator.
func (p *BoolSum) Vars() []IntVar { return p.vars }

// PropagationConditions implements Propagator: bound and instantiation
// events on the sum variable, instantiation only on the operands.
func (p *BoolSum) PropagationConditions(varIdx int) Event {
	if varIdx == p.n {
		return BoundAndInstantiation()
	}
	return InstantiationOnly()
}

// Propagate implements Propagator: full resynchronization in one linear
// pass over the operands.
func (p *BoolSum) Propagate(_ Event) error {
	lb, ub := 0, 0
	for i := 0; i < p.n; i++ {
		lb += p.vars[i].LB()
		ub += p.vars[i].UB()
	}
	p.min.Set(lb)
	p.max.Set(ub)
	return p.filter()
}

// PropagateOn implements Propagator. An operand instantiation moves
// exactly one aggregate by one unit; sum-variable events only re-filter.
func (p *BoolSum) PropagateOn(varIdx int, _ Event) error {
	if varIdx < p.n {
		if p.vars[varIdx].Value() == 1 {
			p.min.Add(1)
		} else {
			p.max.Add(-1)
		}
	}
	return p.filter()
}

// filter tightens the sum to the aggregate range and forces free operands
// when the range has collapsed onto the sum's fixed value.
func (p *BoolSum) filter() error {
	lb, ub := p.min.Get(), p.max.Get()
	if _, err := p.sum.UpdateLowerBound(lb, p); err != nil {
		return err
	}
	if _, err := p.sum.UpdateUpperBound(ub, p); err != nil {
		return err
	}
	if lb != ub && p.sum.IsInstantiated() {
		switch p.sum.Value() {
		case lb:
			// Every undecided operand must stay 0.
			for i := 0; i < p.n; i++ {
				if !p.vars[i].IsInstantiated() {
					if _, err := p.vars[i].InstantiateTo(0, p); err != nil {
						return err
					}
				}
			}
		case ub:
			// Every undecided operand is needed at 1.
			for i := 0; i < p.n; i++ {
				if !p.vars[i].IsInstantiated() {
					if _, err := p.vars[i].InstantiateTo(1, p); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

// IsEntailed implements Propagator.
func (p *BoolSum) IsEntailed() Entailment {
	lb, ub := 0, 0
	for i := 0; i < p.n; i++ {
		lb += p.vars[i].LB()
		ub += p.vars[i].UB()
	}
	if lb > p.sum.UB() || ub < p.sum.LB() {
		return EntailFalse
	}
	if lb == ub && p.sum.IsInstantiatedTo(lb) {
		return EntailTrue
	}
	return EntailUndefined
}

// String renders the constraint as "a + b + c = s".
func (p *BoolSum) String() string {
	var b strings.Builder
	for i := 0; i < p.n; i++ {
		if i > 0 {
			b.WriteString(" + ")
		}
		b.WriteString(p.vars[i].Name())
	}
	b.WriteString(" = ")
	b.WriteString(p.sum.Name())
	return b.String()
}
