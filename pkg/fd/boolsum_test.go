package fd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boolSumFixture builds n boolean operands and a sum variable over
// [0, n], posts the constraint and runs the initial synchronization.
func boolSumFixture(t *testing.T, n int) (*Engine, []IntVar, *BitsetVar, *BoolSum) {
	t.Helper()
	eng := NewEngine()
	operands := make([]IntVar, n)
	for i := range operands {
		b, err := NewBoolVar(eng, "b"+string(rune('0'+i)))
		require.NoError(t, err)
		operands[i] = b
	}
	s, err := NewBitsetVar(eng, "s", 0, n)
	require.NoError(t, err)
	p, err := NewBoolSum(eng, operands, s)
	require.NoError(t, err)
	require.NoError(t, eng.Post(p))
	require.NoError(t, eng.Propagate())
	return eng, operands, s, p
}

func TestBoolSumValidation(t *testing.T) {
	eng := NewEngine()
	b, err := NewBoolVar(eng, "b")
	require.NoError(t, err)
	s, err := NewBitsetVar(eng, "s", 0, 1)
	require.NoError(t, err)
	wide, err := NewBitsetVar(eng, "w", 0, 5)
	require.NoError(t, err)

	_, err = NewBoolSum(nil, []IntVar{b}, s)
	assert.Error(t, err)
	_, err = NewBoolSum(eng, nil, s)
	assert.Error(t, err)
	_, err = NewBoolSum(eng, []IntVar{b}, nil)
	assert.Error(t, err)
	_, err = NewBoolSum(eng, []IntVar{b, wide}, s)
	assert.Error(t, err)
	_, err = NewBoolSum(eng, []IntVar{b, nil}, s)
	assert.Error(t, err)
}

func TestBoolSumFullSynchronization(t *testing.T) {
	eng := NewEngine()
	b0, err := NewBoolVar(eng, "b0")
	require.NoError(t, err)
	b1, err := NewBoolVar(eng, "b1")
	require.NoError(t, err)
	s, err := NewBitsetVar(eng, "s", 0, 5)
	require.NoError(t, err)
	_, err = b0.InstantiateTo(1, NoCause)
	require.NoError(t, err)

	p, err := NewBoolSum(eng, []IntVar{b0, b1}, s)
	require.NoError(t, err)
	require.NoError(t, eng.Post(p))
	require.NoError(t, eng.Propagate())

	// The linear pass sees b0 already fixed: sum range becomes [1, 2].
	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 2, p.max.Get())
	assert.Equal(t, 1, s.LB())
	assert.Equal(t, 2, s.UB())
}

func TestBoolSumMaxCollapseForcesFreeOperandsToOne(t *testing.T) {
	eng, operands, s, _ := boolSumFixture(t, 3)

	_, err := s.InstantiateTo(3, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())

	for _, b := range operands {
		assert.True(t, b.IsInstantiatedTo(1), "%s must be forced to 1", b.Name())
	}
}

func TestBoolSumMinCollapseForcesFreeOperandsToZero(t *testing.T) {
	eng, operands, s, _ := boolSumFixture(t, 3)

	_, err := operands[0].InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 1, s.LB())

	_, err = s.InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())

	assert.True(t, operands[1].IsInstantiatedTo(0))
	assert.True(t, operands[2].IsInstantiatedTo(0))
}

func TestBoolSumIncrementalAggregates(t *testing.T) {
	eng, operands, s, p := boolSumFixture(t, 4)
	assert.Equal(t, 0, p.min.Get())
	assert.Equal(t, 4, p.max.Get())

	// One instantiation moves exactly one aggregate by one unit.
	_, err := operands[0].InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 4, p.max.Get())

	_, err = operands[1].InstantiateTo(0, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 3, p.max.Get())

	assert.Equal(t, 1, s.LB())
	assert.Equal(t, 3, s.UB())
}

func TestBoolSumDecisionBeforeFirstPropagation(t *testing.T) {
	eng := NewEngine()
	x, err := NewBoolVar(eng, "x")
	require.NoError(t, err)
	y, err := NewBoolVar(eng, "y")
	require.NoError(t, err)
	s, err := NewBitsetVar(eng, "s", 0, 2)
	require.NoError(t, err)
	p, err := NewBoolSum(eng, []IntVar{x, y}, s)
	require.NoError(t, err)
	require.NoError(t, eng.Post(p))

	// A decision taken before the first propagation cycle must be
	// counted once, by the full pass, not a second time incrementally.
	_, err = x.InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())

	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 2, p.max.Get())
	assert.Equal(t, 1, s.LB())
	assert.Equal(t, 2, s.UB())

	// The assignment x=1, y=0, s=1 stays feasible.
	_, err = y.InstantiateTo(0, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.True(t, s.IsInstantiatedTo(1))
}

func TestBoolSumContradiction(t *testing.T) {
	eng := NewEngine()
	b0, err := NewBoolVar(eng, "b0")
	require.NoError(t, err)
	b1, err := NewBoolVar(eng, "b1")
	require.NoError(t, err)
	// The sum is fixed above anything two booleans can reach.
	s, err := NewBitsetVar(eng, "s", 3, 3)
	require.NoError(t, err)
	p, err := NewBoolSum(eng, []IntVar{b0, b1}, s)
	require.NoError(t, err)
	require.NoError(t, eng.Post(p))

	err = eng.Propagate()
	var c *Contradiction
	require.ErrorAs(t, err, &c)
	assert.Equal(t, KindUpp, c.Kind)
	assert.Same(t, s, c.Var)
}

func TestBoolSumAggregatesRollBackWithTrail(t *testing.T) {
	eng, operands, s, p := boolSumFixture(t, 2)
	trail := eng.Trail()

	mark := trail.Snapshot()
	_, err := operands[0].InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 1, s.LB())

	trail.Restore(mark)
	assert.Equal(t, 0, p.min.Get())
	assert.False(t, operands[0].IsInstantiated())
	assert.Equal(t, 0, s.LB())

	// The restored state supports a fresh decision on the other operand.
	_, err = operands[1].InstantiateTo(1, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 1, p.min.Get())
	assert.Equal(t, 2, p.max.Get())
	assert.Equal(t, 1, s.LB())
}

func TestBoolSumEntailment(t *testing.T) {
	eng := NewEngine()
	b0, err := NewBoolVar(eng, "b0")
	require.NoError(t, err)
	b1, err := NewBoolVar(eng, "b1")
	require.NoError(t, err)
	s, err := NewBitsetVar(eng, "s", 0, 2)
	require.NoError(t, err)
	p, err := NewBoolSum(eng, []IntVar{b0, b1}, s)
	require.NoError(t, err)

	assert.Equal(t, EntailUndefined, p.IsEntailed())

	_, err = b0.InstantiateTo(0, NoCause)
	require.NoError(t, err)
	_, err = b1.InstantiateTo(0, NoCause)
	require.NoError(t, err)
	_, err = s.InstantiateTo(2, NoCause)
	require.NoError(t, err)
	assert.Equal(t, EntailFalse, p.IsEntailed())
}

func TestBoolSumString(t *testing.T) {
	_, _, _, p := boolSumFixture(t, 3)
	assert.Equal(t, "b0 + b1 + b2 = s", p.String())
}
