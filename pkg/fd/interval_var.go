// Bounded integer variable: a pure contiguous interval [lb, ub].
//
// The representation trades expressiveness for O(1) bound maintenance:
// there is no per-value storage, cardinality is always ub-lb+1 and is
// recomputed arithmetically, never scanned. It is the appropriate choice
// when a variable's constraints only ever reason about bounds.

package fd

import (
	"fmt"
	"math"
)

// IntervalVar is the bounded domain representation. A value is present
// iff it lies within [lb, ub]; interior holes cannot be represented, so
// interior removals are rejected as no-ops rather than errors.
type IntervalVar struct {
	name string
	eng  *Engine

	lb, ub *StoredInt
	size   *StoredInt

	// delta stays nil until a subscriber asks for value-level events.
	delta *intervalDelta

	subs []*subscription
}

// NewIntervalVar creates a bounded variable with initial domain [min, max].
func NewIntervalVar(eng *Engine, name string, min, max int) (*IntervalVar, error) {
	if eng == nil {
		return nil, fmt.Errorf("NewIntervalVar: nil engine")
	}
	if min > max {
		return nil, fmt.Errorf("NewIntervalVar: empty initial domain [%d, %d]", min, max)
	}
	t := eng.Trail()
	return &IntervalVar{
		name: name,
		eng:  eng,
		lb:   t.MakeInt(min),
		ub:   t.MakeInt(max),
		size: t.MakeInt(max - min + 1),
	}, nil
}

// Name implements IntVar.
func (v *IntervalVar) Name() string { return v.name }

// Contains implements IntVar: a single range comparison.
func (v *IntervalVar) Contains(value int) bool {
	return value >= v.lb.Get() && value <= v.ub.Get()
}

// LB implements IntVar.
func (v *IntervalVar) LB() int { return v.lb.Get() }

// UB implements IntVar.
func (v *IntervalVar) UB() int { return v.ub.Get() }

// Value implements IntVar.
func (v *IntervalVar) Value() int { return v.lb.Get() }

// DomainSize implements IntVar.
func (v *IntervalVar) DomainSize() int { return v.size.Get() }

// IsInstantiated implements IntVar.
func (v *IntervalVar) IsInstantiated() bool { return v.size.Get() == 1 }

// IsInstantiatedTo implements IntVar.
func (v *IntervalVar) IsInstantiatedTo(value int) bool {
	return v.IsInstantiated() && v.Contains(value)
}

// HasEnumeratedDomain implements IntVar.
func (v *IntervalVar) HasEnumeratedDomain() bool { return false }

// RemoveValue implements IntVar.
//
// Only removals at an extreme can succeed; they shift the matching bound
// by one. Removing an interior value is a no-op because a pure interval
// cannot represent the hole.
func (v *IntervalVar) RemoveValue(value int, cause Cause) (bool, error) {
	inf, sup := v.lb.Get(), v.ub.Get()
	if value == inf && value == sup {
		return false, v.fail(KindRemove, cause)
	}
	if value != inf && value != sup {
		return false, nil
	}

	var evt event
	if value == inf {
		if v.delta != nil {
			v.delta.add(value, value, cause)
		}
		v.size.Add(-1)
		v.lb.Set(value + 1)
		evt = event{mask: LowerRaised, promoted: true}
	} else {
		if v.delta != nil {
			v.delta.add(value, value, cause)
		}
		v.size.Add(-1)
		v.ub.Set(value - 1)
		evt = event{mask: UpperLowered, promoted: true}
	}
	if v.size.Get() == 0 {
		return false, v.fail(KindEmpty, cause)
	}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	v.eng.recordRemoval(v, value, cause)
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// RemoveInterval implements IntVar. Intervals touching a bound delegate to
// the matching bound update; strictly interior intervals are no-ops.
func (v *IntervalVar) RemoveInterval(from, to int, cause Cause) (bool, error) {
	if from > to {
		return false, nil
	}
	if from <= v.lb.Get() {
		return v.UpdateLowerBound(to+1, cause)
	}
	if v.ub.Get() <= to {
		return v.UpdateUpperBound(from-1, cause)
	}
	return false, nil
}

// InstantiateTo implements IntVar.
func (v *IntervalVar) InstantiateTo(value int, cause Cause) (bool, error) {
	if v.IsInstantiated() {
		if value != v.Value() {
			return false, v.fail(KindInstantiate, cause)
		}
		return false, nil
	}
	if !v.Contains(value) {
		return false, v.fail(KindUnknown, cause)
	}

	lb, ub := v.lb.Get(), v.ub.Get()
	if v.delta != nil {
		if lb <= value-1 {
			v.delta.add(lb, value-1, cause)
		}
		if value+1 <= ub {
			v.delta.add(value+1, ub, cause)
		}
	}
	if v.eng.explainer != nil {
		for w := lb; w <= ub; w++ {
			if w != value {
				v.eng.recordRemoval(v, w, cause)
			}
		}
	}
	v.lb.Set(value)
	v.ub.Set(value)
	v.size.Set(1)

	notifySubscribers(v.subs, event{mask: Instantiated}, cause)
	return true, nil
}

// UpdateLowerBound implements IntVar. SIZE maintenance is O(1) arithmetic.
func (v *IntervalVar) UpdateLowerBound(value int, cause Cause) (bool, error) {
	old := v.lb.Get()
	if old >= value {
		return false, nil
	}
	if v.ub.Get() < value {
		return false, v.fail(KindLow, cause)
	}

	if v.delta != nil {
		v.delta.add(old, value-1, cause)
	}
	if v.eng.explainer != nil {
		for w := old; w < value; w++ {
			v.eng.recordRemoval(v, w, cause)
		}
	}
	v.size.Add(old - value)
	v.lb.Set(value)

	evt := event{mask: LowerRaised}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// UpdateUpperBound implements IntVar.
func (v *IntervalVar) UpdateUpperBound(value int, cause Cause) (bool, error) {
	old := v.ub.Get()
	if old <= value {
		return false, nil
	}
	if v.lb.Get() > value {
		return false, v.fail(KindUpp, cause)
	}

	if v.delta != nil {
		v.delta.add(value+1, old, cause)
	}
	if v.eng.explainer != nil {
		for w := value + 1; w <= old; w++ {
			v.eng.recordRemoval(v, w, cause)
		}
	}
	v.size.Add(value - old)
	v.ub.Set(value)

	evt := event{mask: UpperLowered}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// NextValue implements IntVar: arithmetic successor within [lb, ub].
func (v *IntervalVar) NextValue(value int) int {
	lb := v.lb.Get()
	if value < lb {
		return lb
	}
	if value < v.ub.Get() {
		return value + 1
	}
	return math.MaxInt
}

// PreviousValue implements IntVar: arithmetic predecessor within [lb, ub].
func (v *IntervalVar) PreviousValue(value int) int {
	ub := v.ub.Get()
	if value > ub {
		return ub
	}
	if value > v.lb.Get() {
		return value - 1
	}
	return math.MinInt
}

// MonitorDelta implements IntVar.
func (v *IntervalVar) MonitorDelta(owner Cause) DeltaMonitor {
	if v.delta == nil {
		v.delta = newIntervalDelta(v.eng.Trail())
	}
	return &intervalDeltaMonitor{delta: v.delta, owner: owner, next: v.delta.size.Get()}
}

// String renders the variable as "name = value" or "name = [lb,ub]".
func (v *IntervalVar) String() string {
	if v.IsInstantiated() {
		return fmt.Sprintf("%s = %d", v.name, v.Value())
	}
	return fmt.Sprintf("%s = [%d,%d]", v.name, v.lb.Get(), v.ub.Get())
}

func (v *IntervalVar) subscribe(s *subscription) {
	v.subs = append(v.subs, s)
	if s.mask&ValueRemoved != 0 && v.delta == nil {
		v.delta = newIntervalDelta(v.eng.Trail())
	}
}

func (v *IntervalVar) fail(kind ContradictionKind, cause Cause) error {
	return &Contradiction{Kind: kind, Var: v, Cause: cause}
}
