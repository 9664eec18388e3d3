package fd

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// boundedFixture builds a [1,10] bounded variable with a probe subscribed
// to every event class, already synchronized.
func boundedFixture(t *testing.T) (*Engine, *IntervalVar, *probe) {
	t.Helper()
	eng := NewEngine()
	v, err := NewIntervalVar(eng, "y", 1, 10)
	require.NoError(t, err)
	p := newProbe(AllEvents(), v)
	require.NoError(t, eng.Post(p))
	require.NoError(t, p.drain(eng))
	return eng, v, p
}

func TestIntervalVarInitialState(t *testing.T) {
	_, v, _ := boundedFixture(t)

	assert.Equal(t, 1, v.LB())
	assert.Equal(t, 10, v.UB())
	assert.Equal(t, 10, v.DomainSize())
	assert.False(t, v.HasEnumeratedDomain())
	assert.True(t, v.Contains(5))
	assert.False(t, v.Contains(0))
}

func TestIntervalVarInteriorRemovalIsNoOp(t *testing.T) {
	eng, v, p := boundedFixture(t)

	// A pure interval cannot represent a hole; interior removal is
	// rejected as a no-op, not an error.
	changed, err := v.RemoveValue(5, NoCause)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 10, v.DomainSize())
	assert.True(t, v.Contains(5))

	changed, err = v.RemoveInterval(3, 5, NoCause)
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, eng.Propagate())
	assert.Empty(t, p.wakeups)
}

func TestIntervalVarBoundRemoval(t *testing.T) {
	eng, v, p := boundedFixture(t)

	changed, err := v.RemoveValue(1, NoCause)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 2, v.LB())
	assert.Equal(t, 9, v.DomainSize())
	require.Len(t, p.wakeups, 1)
	assert.Equal(t, LowerRaised, p.wakeups[0].mask)

	p.wakeups = nil
	changed, err = v.RemoveValue(10, NoCause)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 9, v.UB())
	require.Len(t, p.wakeups, 1)
	assert.Equal(t, UpperLowered, p.wakeups[0].mask)
}

func TestIntervalVarRemoveLastValueFails(t *testing.T) {
	_, v, _ := boundedFixture(t)

	_, err := v.InstantiateTo(4, NoCause)
	require.NoError(t, err)

	_, err = v.RemoveValue(4, NoCause)
	var c *Contradiction
	require.ErrorAs(t, err, &c)
	assert.Equal(t, KindRemove, c.Kind)
}

func TestIntervalVarInstantiatePromotion(t *testing.T) {
	eng, v, p := boundedFixture(t)

	changed, err := v.InstantiateTo(7, NoCause)
	require.NoError(t, err)
	require.True(t, changed)
	require.NoError(t, eng.Propagate())

	assert.Equal(t, 7, v.LB())
	assert.Equal(t, 7, v.UB())
	assert.Equal(t, 1, v.DomainSize())
	require.Len(t, p.wakeups, 1)
	assert.Equal(t, Instantiated, p.wakeups[0].mask)
}

func TestIntervalVarBoundUpdatePromotion(t *testing.T) {
	eng, v, p := boundedFixture(t)

	_, err := v.UpdateLowerBound(6, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.Equal(t, 5, v.DomainSize())

	p.wakeups = nil
	_, err = v.UpdateUpperBound(6, NoCause)
	require.NoError(t, err)
	require.NoError(t, eng.Propagate())
	assert.True(t, v.IsInstantiatedTo(6))
	require.Len(t, p.wakeups, 1)
	assert.Equal(t, Instantiated, p.wakeups[0].mask)
}

func TestIntervalVarBoundContradictions(t *testing.T) {
	tests := []struct {
		name string
		op   func(v *IntervalVar) error
		kind ContradictionKind
	}{
		{
			name: "lower crosses upper",
			op: func(v *IntervalVar) error {
				_, err := v.UpdateLowerBound(11, NoCause)
				return err
			},
			kind: KindLow,
		},
		{
			name: "upper crosses lower",
			op: func(v *IntervalVar) error {
				_, err := v.UpdateUpperBound(0, NoCause)
				return err
			},
			kind: KindUpp,
		},
		{
			name: "instantiate outside domain",
			op: func(v *IntervalVar) error {
				_, err := v.InstantiateTo(11, NoCause)
				return err
			},
			kind: KindUnknown,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, v, _ := boundedFixture(t)
			err := tt.op(v)
			var c *Contradiction
			require.ErrorAs(t, err, &c)
			assert.Equal(t, tt.kind, c.Kind)
		})
	}
}

func TestIntervalVarIteration(t *testing.T) {
	_, v, _ := boundedFixture(t)
	_, err := v.UpdateLowerBound(4, NoCause)
	require.NoError(t, err)
	_, err = v.UpdateUpperBound(7, NoCause)
	require.NoError(t, err)

	var walk []int
	for val := v.NextValue(0); val != math.MaxInt; val = v.NextValue(val) {
		walk = append(walk, val)
	}
	assert.Equal(t, []int{4, 5, 6, 7}, walk)

	assert.Equal(t, math.MaxInt, v.NextValue(7))
	assert.Equal(t, math.MinInt, v.PreviousValue(4))
	assert.Equal(t, 7, v.PreviousValue(42), "above the interval clamps to UB")
}

func TestIntervalVarNoOpLeavesStateUntouched(t *testing.T) {
	eng, v, _ := boundedFixture(t)

	depth := eng.Trail().Depth()
	changed, err := v.UpdateLowerBound(1, NoCause)
	require.NoError(t, err)
	assert.False(t, changed)
	changed, err = v.UpdateUpperBound(10, NoCause)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, depth, eng.Trail().Depth())
}

func TestIntervalVarTrailRoundTrip(t *testing.T) {
	eng, v, _ := boundedFixture(t)
	trail := eng.Trail()

	mark := trail.Snapshot()
	_, err := v.UpdateLowerBound(3, NoCause)
	require.NoError(t, err)
	_, err = v.InstantiateTo(8, NoCause)
	require.NoError(t, err)

	trail.Restore(mark)
	assert.Equal(t, 1, v.LB())
	assert.Equal(t, 10, v.UB())
	assert.Equal(t, 10, v.DomainSize())
}

func TestIntervalVarString(t *testing.T) {
	eng := NewEngine()
	v, err := NewIntervalVar(eng, "y", 2, 9)
	require.NoError(t, err)
	assert.Equal(t, "y = [2,9]", v.String())

	_, err = v.InstantiateTo(5, NoCause)
	require.NoError(t, err)
	assert.Equal(t, "y = 5", v.String())
}
