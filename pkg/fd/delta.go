// Delta logs: lazily-activated, append-only records of the values removed
// from a domain since a given propagator last looked.
//
// A variable starts without a log. The first subscription that needs
// value-level granularity installs one, and it stays installed for the
// variable's lifetime - maintaining it is a measurable cost, so bound-only
// models never pay it. The log's length is a trailed cell: entries
// appended within an undone search branch disappear with the trail's own
// rollback, no compaction required.

package fd

// delta is the shared append-only log of an enumerated variable:
// (removed value, cause) pairs.
type delta struct {
	size   *StoredInt
	values []int
	causes []Cause
}

func newDelta(t *Trail) *delta {
	return &delta{size: t.MakeInt(0)}
}

func (d *delta) add(value int, cause Cause) {
	n := d.size.Get()
	if n < len(d.values) {
		// Slots beyond the trailed size are stale entries from an
		// undone branch; overwrite in place.
		d.values[n] = value
		d.causes[n] = cause
	} else {
		d.values = append(d.values, value)
		d.causes = append(d.causes, cause)
	}
	d.size.Add(1)
}

// valueDeltaMonitor is a private cursor over a delta.
type valueDeltaMonitor struct {
	delta *delta
	owner Cause
	next  int
}

// ForEachValue implements DeltaMonitor.
func (m *valueDeltaMonitor) ForEachValue(f func(value int)) {
	n := m.delta.size.Get()
	if m.next > n {
		// The trail rolled the log back past the cursor.
		m.next = n
	}
	for i := m.next; i < n; i++ {
		if m.owner != nil && m.owner != NoCause && m.delta.causes[i] == m.owner {
			continue
		}
		f(m.delta.values[i])
	}
	m.next = n
}

// ForEachRange implements DeltaMonitor; every enumerated entry is a run of
// length one.
func (m *valueDeltaMonitor) ForEachRange(f func(from, to int)) {
	m.ForEachValue(func(v int) { f(v, v) })
}

// intervalDelta is the shared append-only log of a bounded variable:
// (removed sub-interval, cause) triples.
type intervalDelta struct {
	size   *StoredInt
	froms  []int
	tos    []int
	causes []Cause
}

func newIntervalDelta(t *Trail) *intervalDelta {
	return &intervalDelta{size: t.MakeInt(0)}
}

func (d *intervalDelta) add(from, to int, cause Cause) {
	n := d.size.Get()
	if n < len(d.froms) {
		d.froms[n] = from
		d.tos[n] = to
		d.causes[n] = cause
	} else {
		d.froms = append(d.froms, from)
		d.tos = append(d.tos, to)
		d.causes = append(d.causes, cause)
	}
	d.size.Add(1)
}

// intervalDeltaMonitor is a private cursor over an intervalDelta.
type intervalDeltaMonitor struct {
	delta *intervalDelta
	owner Cause
	next  int
}

// ForEachRange implements DeltaMonitor.
func (m *intervalDeltaMonitor) ForEachRange(f func(from, to int)) {
	n := m.delta.size.Get()
	if m.next > n {
		m.next = n
	}
	for i := m.next; i < n; i++ {
		if m.owner != nil && m.owner != NoCause && m.delta.causes[i] == m.owner {
			continue
		}
		f(m.delta.froms[i], m.delta.tos[i])
	}
	m.next = n
}

// ForEachValue implements DeltaMonitor by expanding each run.
func (m *intervalDeltaMonitor) ForEachValue(f func(value int)) {
	m.ForEachRange(func(from, to int) {
		for v := from; v <= to; v++ {
			f(v)
		}
	})
}
