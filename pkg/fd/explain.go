// Optional explanation hook. When installed on an engine it observes
// every committed value removal as a (variable, value, cause) triple.
// Conflict-explanation engines consume this record to derive the reasons
// behind a contradiction; the hook itself never influences propagation.

package fd

// Explainer receives every committed value removal.
type Explainer interface {
	// OnRemoval is called once per value that left a domain, after the
	// variable's bookkeeping is consistent.
	OnRemoval(v IntVar, value int, cause Cause)
}

// removal is one recorded (value, cause) pair.
type removal struct {
	value int
	cause Cause
}

// RemovalRecorder is a minimal Explainer that keeps, per variable, the
// ordered list of removed values and their causes. It answers the two
// queries an explanation engine needs: which values a variable lost, and
// who removed a given value.
type RemovalRecorder struct {
	removed map[IntVar][]removal
}

// NewRemovalRecorder creates an empty recorder.
func NewRemovalRecorder() *RemovalRecorder {
	return &RemovalRecorder{removed: make(map[IntVar][]removal)}
}

// OnRemoval implements Explainer.
func (r *RemovalRecorder) OnRemoval(v IntVar, value int, cause Cause) {
	r.removed[v] = append(r.removed[v], removal{value: value, cause: cause})
}

// RemovedValues returns the values removed from v, in removal order.
func (r *RemovalRecorder) RemovedValues(v IntVar) []int {
	rs := r.removed[v]
	out := make([]int, len(rs))
	for i, rm := range rs {
		out[i] = rm.value
	}
	return out
}

// CauseOf returns the cause attributed to the removal of value from v,
// or nil if that removal was never recorded.
func (r *RemovalRecorder) CauseOf(v IntVar, value int) Cause {
	for _, rm := range r.removed[v] {
		if rm.value == value {
			return rm.cause
		}
	}
	return nil
}
