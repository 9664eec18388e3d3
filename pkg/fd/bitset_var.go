// Enumerated integer variable backed by a trailed bit-vector.
//
// The representation keeps four mutually consistent bookkeeping fields:
// the bit-vector of present values, the lower and upper bounds (stored
// offset-relative, always positions of set bits), and the cardinality.
// Every mutator commits the full field update before dispatching, so no
// subscriber ever observes a half-updated domain.

package fd

import (
	"fmt"
	"math"
	"strings"
)

// BitsetVar is the enumerated domain representation: bit i of the vector
// is set iff value i+offset is present. It supports holes and value-level
// delta tracking, at the price of a full cardinality rescan on bound
// updates.
type BitsetVar struct {
	name   string
	eng    *Engine
	offset int

	values *StoredBitSet
	// lb and ub are offset-relative bit positions.
	lb, ub *StoredInt
	size   *StoredInt

	// delta stays nil until a subscriber asks for value-level events;
	// once installed it is never removed.
	delta *delta

	subs []*subscription
}

// NewBitsetVar creates an enumerated variable with initial domain
// [min, max]. Storage is allocated once to the domain's exact capacity.
func NewBitsetVar(eng *Engine, name string, min, max int) (*BitsetVar, error) {
	if eng == nil {
		return nil, fmt.Errorf("NewBitsetVar: nil engine")
	}
	if min > max {
		return nil, fmt.Errorf("NewBitsetVar: empty initial domain [%d, %d]", min, max)
	}
	t := eng.Trail()
	capacity := max - min + 1
	v := &BitsetVar{
		name:   name,
		eng:    eng,
		offset: min,
		values: t.MakeBitSet(capacity),
		lb:     t.MakeInt(0),
		ub:     t.MakeInt(capacity - 1),
		size:   t.MakeInt(capacity),
	}
	for i := 0; i < capacity; i++ {
		v.values.Set(i, true)
	}
	return v, nil
}

// NewBitsetVarFromValues creates an enumerated variable whose initial
// domain is exactly the given strictly increasing value list.
func NewBitsetVarFromValues(eng *Engine, name string, sortedValues []int) (*BitsetVar, error) {
	if eng == nil {
		return nil, fmt.Errorf("NewBitsetVarFromValues: nil engine")
	}
	if len(sortedValues) == 0 {
		return nil, fmt.Errorf("NewBitsetVarFromValues: empty initial domain")
	}
	for i := 1; i < len(sortedValues); i++ {
		if sortedValues[i] <= sortedValues[i-1] {
			return nil, fmt.Errorf("NewBitsetVarFromValues: values must be strictly increasing (index %d)", i)
		}
	}
	t := eng.Trail()
	offset := sortedValues[0]
	capacity := sortedValues[len(sortedValues)-1] - offset + 1
	v := &BitsetVar{
		name:   name,
		eng:    eng,
		offset: offset,
		values: t.MakeBitSet(capacity),
		lb:     t.MakeInt(0),
		ub:     t.MakeInt(capacity - 1),
		size:   t.MakeInt(len(sortedValues)),
	}
	for _, val := range sortedValues {
		v.values.Set(val-offset, true)
	}
	return v, nil
}

// NewBoolVar creates an enumerated 0/1 variable.
func NewBoolVar(eng *Engine, name string) (*BitsetVar, error) {
	return NewBitsetVar(eng, name, 0, 1)
}

// Name implements IntVar.
func (v *BitsetVar) Name() string { return v.name }

// Contains implements IntVar. O(1) bit test after offset translation;
// values outside the allocated capacity are never contained.
func (v *BitsetVar) Contains(value int) bool {
	return v.values.Get(value - v.offset)
}

// LB implements IntVar.
func (v *BitsetVar) LB() int { return v.lb.Get() + v.offset }

// UB implements IntVar.
func (v *BitsetVar) UB() int { return v.ub.Get() + v.offset }

// Value implements IntVar.
func (v *BitsetVar) Value() int { return v.LB() }

// DomainSize implements IntVar.
func (v *BitsetVar) DomainSize() int { return v.size.Get() }

// IsInstantiated implements IntVar.
func (v *BitsetVar) IsInstantiated() bool { return v.size.Get() == 1 }

// IsInstantiatedTo implements IntVar.
func (v *BitsetVar) IsInstantiatedTo(value int) bool {
	return v.IsInstantiated() && v.Contains(value)
}

// HasEnumeratedDomain implements IntVar.
func (v *BitsetVar) HasEnumeratedDomain() bool { return true }

// RemoveValue implements IntVar.
//
// Removing the sole remaining value raises KindRemove; emptying the domain
// raises KindEmpty. A removal that moves a bound rescans to the next set
// bit and dispatches the corresponding bound event instead of ValueRemoved.
func (v *BitsetVar) RemoveValue(value int, cause Cause) (bool, error) {
	inf, sup := v.LB(), v.UB()
	if value == inf && value == sup {
		return false, v.fail(KindRemove, cause)
	}
	if value < inf || value > sup {
		return false, nil
	}
	a := value - v.offset
	if !v.values.Get(a) {
		return false, nil
	}

	v.values.Set(a, false)
	v.size.Add(-1)
	if v.delta != nil {
		v.delta.add(value, cause)
	}

	evt := event{mask: ValueRemoved}
	if value == inf {
		v.lb.Set(v.values.NextSetBit(a))
		evt = event{mask: LowerRaised, promoted: true}
	} else if value == sup {
		v.ub.Set(v.values.PrevSetBit(a))
		evt = event{mask: UpperLowered, promoted: true}
	}
	if v.values.IsEmpty() {
		return false, v.fail(KindEmpty, cause)
	}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	v.eng.recordRemoval(v, value, cause)
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// RemoveInterval implements IntVar.
//
// An interval touching a bound delegates to the matching bound update;
// interior intervals fall back to one removal per contained value, since a
// bit-vector has no cheaper bulk path that keeps the bookkeeping exact.
func (v *BitsetVar) RemoveInterval(from, to int, cause Cause) (bool, error) {
	if from > to {
		return false, nil
	}
	if from <= v.LB() {
		return v.UpdateLowerBound(to+1, cause)
	}
	if v.UB() <= to {
		return v.UpdateUpperBound(from-1, cause)
	}
	anyChange := false
	for val := v.NextValue(from - 1); val <= to; val = v.NextValue(val) {
		changed, err := v.RemoveValue(val, cause)
		if err != nil {
			return anyChange, err
		}
		anyChange = anyChange || changed
	}
	return anyChange, nil
}

// InstantiateTo implements IntVar.
//
// The rest of the domain is discarded atomically; with an active delta log
// every discarded value is logged, since a consumer draining the log must
// see the same removals it would have seen value by value.
func (v *BitsetVar) InstantiateTo(value int, cause Cause) (bool, error) {
	if v.IsInstantiated() {
		if value != v.Value() {
			return false, v.fail(KindInstantiate, cause)
		}
		return false, nil
	}
	if !v.Contains(value) {
		return false, v.fail(KindUnknown, cause)
	}

	a := value - v.offset
	if v.delta != nil {
		for i := v.values.NextSetBit(v.lb.Get()); i >= 0 && i < a; i = v.values.NextSetBit(i + 1) {
			v.delta.add(i+v.offset, cause)
		}
		for i := v.values.NextSetBit(a + 1); i >= 0; i = v.values.NextSetBit(i + 1) {
			v.delta.add(i+v.offset, cause)
		}
	}
	if v.eng.explainer != nil {
		for i := v.values.NextSetBit(0); i >= 0; i = v.values.NextSetBit(i + 1) {
			if i != a {
				v.eng.recordRemoval(v, i+v.offset, cause)
			}
		}
	}
	v.values.Clear(0, v.values.Capacity())
	v.values.Set(a, true)
	v.lb.Set(a)
	v.ub.Set(a)
	v.size.Set(1)

	notifySubscribers(v.subs, event{mask: Instantiated}, cause)
	return true, nil
}

// UpdateLowerBound implements IntVar.
//
// The cardinality is recomputed by a full scan; on large enumerated
// domains this scan dominates the cost of bound updates.
func (v *BitsetVar) UpdateLowerBound(value int, cause Cause) (bool, error) {
	old := v.LB()
	if old >= value {
		return false, nil
	}
	if v.UB() < value {
		return false, v.fail(KindLow, cause)
	}

	a := value - v.offset
	if v.delta != nil {
		for i := old - v.offset; i >= 0 && i < a; i = v.values.NextSetBit(i + 1) {
			v.delta.add(i+v.offset, cause)
		}
	}
	if v.eng.explainer != nil {
		for i := old - v.offset; i >= 0 && i < a; i = v.values.NextSetBit(i + 1) {
			v.eng.recordRemoval(v, i+v.offset, cause)
		}
	}
	v.values.Clear(old-v.offset, a)
	v.lb.Set(v.values.NextSetBit(a))
	v.size.Set(v.values.Cardinality())

	evt := event{mask: LowerRaised}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// UpdateUpperBound implements IntVar.
func (v *BitsetVar) UpdateUpperBound(value int, cause Cause) (bool, error) {
	old := v.UB()
	if old <= value {
		return false, nil
	}
	if v.LB() > value {
		return false, v.fail(KindUpp, cause)
	}

	a := value - v.offset
	if v.delta != nil {
		for i := old - v.offset; i >= 0 && i > a; i = v.values.PrevSetBit(i - 1) {
			v.delta.add(i+v.offset, cause)
		}
	}
	if v.eng.explainer != nil {
		for i := old - v.offset; i >= 0 && i > a; i = v.values.PrevSetBit(i - 1) {
			v.eng.recordRemoval(v, i+v.offset, cause)
		}
	}
	v.values.Clear(a+1, old-v.offset+1)
	v.ub.Set(v.values.PrevSetBit(a))
	v.size.Set(v.values.Cardinality())

	evt := event{mask: UpperLowered}
	if v.IsInstantiated() {
		evt = event{mask: Instantiated, promoted: true}
	}
	notifySubscribers(v.subs, evt, cause)
	return true, nil
}

// NextValue implements IntVar.
func (v *BitsetVar) NextValue(value int) int {
	lb := v.LB()
	if value < lb {
		return lb
	}
	if value >= v.UB() {
		return math.MaxInt
	}
	n := v.values.NextSetBit(value - v.offset + 1)
	if n >= 0 {
		return n + v.offset
	}
	return math.MaxInt
}

// PreviousValue implements IntVar.
func (v *BitsetVar) PreviousValue(value int) int {
	ub := v.UB()
	if value > ub {
		return ub
	}
	if value <= v.LB() {
		return math.MinInt
	}
	p := v.values.PrevSetBit(value - v.offset - 1)
	if p >= 0 {
		return p + v.offset
	}
	return math.MinInt
}

// MonitorDelta implements IntVar.
func (v *BitsetVar) MonitorDelta(owner Cause) DeltaMonitor {
	if v.delta == nil {
		v.delta = newDelta(v.eng.Trail())
	}
	return &valueDeltaMonitor{delta: v.delta, owner: owner, next: v.delta.size.Get()}
}

// String renders the variable as "name = value" when instantiated,
// otherwise "name = {lb,...,ub}" with at most a handful of values listed.
func (v *BitsetVar) String() string {
	if v.IsInstantiated() {
		return fmt.Sprintf("%s = %d", v.name, v.Value())
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s = {%d", v.name, v.LB())
	listed := 0
	for val := v.NextValue(v.LB()); val != math.MaxInt; val = v.NextValue(val) {
		if listed >= 5 {
			fmt.Fprintf(&b, ",...,%d", v.UB())
			break
		}
		fmt.Fprintf(&b, ",%d", val)
		listed++
	}
	b.WriteString("}")
	return b.String()
}

func (v *BitsetVar) subscribe(s *subscription) {
	v.subs = append(v.subs, s)
	if s.mask&ValueRemoved != 0 && v.delta == nil {
		v.delta = newDelta(v.eng.Trail())
	}
}

func (v *BitsetVar) fail(kind ContradictionKind, cause Cause) error {
	return &Contradiction{Kind: kind, Var: v, Cause: cause}
}
