// Trailed storage: versioned scalar and bit-vector cells that roll back to
// their pre-branch value when the search controller abandons a branch.
//
// The trail is an explicit arena handed to every cell at construction time.
// Cells record undo entries on every destructive write; Snapshot captures
// the current trail length and Restore pops entries back to a mark. The
// propagation core never widens a domain itself - widening is exclusively
// the trail's job during Restore.

package fd

import "math/bits"

// Mark identifies a point in the trail that can later be restored.
// Marks must be restored in LIFO order.
type Mark int

// undoEntry records one overwritten cell value. Exactly one of cell or set
// is non-nil: cell undoes a StoredInt write, set undoes one word of a
// StoredBitSet.
type undoEntry struct {
	cell *StoredInt
	set  *StoredBitSet
	word int
	old  uint64
}

// Trail is the versioned arena backing all checkpointable state.
// All cells of one variable graph must share a single Trail.
//
// Trail is not safe for concurrent use; the whole propagation core is
// single-threaded (see package doc).
type Trail struct {
	undo []undoEntry
}

// NewTrail creates an empty trail.
func NewTrail() *Trail {
	return &Trail{undo: make([]undoEntry, 0, 1024)}
}

// Snapshot returns a mark for the current version of every cell created on
// this trail. The mark stays valid until a Restore to an earlier mark.
func (t *Trail) Snapshot() Mark {
	return Mark(len(t.undo))
}

// Restore rewinds every cell to its value at the given mark, undoing all
// writes recorded since. Entries appended to delta logs within the undone
// span disappear with the rollback as well.
func (t *Trail) Restore(m Mark) {
	for i := len(t.undo) - 1; i >= int(m); i-- {
		e := t.undo[i]
		if e.cell != nil {
			e.cell.v = int(int64(e.old))
		} else {
			e.set.words[e.word] = e.old
		}
	}
	t.undo = t.undo[:m]
}

// Depth returns the number of undo entries currently recorded.
// Exposed for search statistics.
func (t *Trail) Depth() int {
	return len(t.undo)
}

// MakeInt creates a trailed integer cell initialized to v.
func (t *Trail) MakeInt(v int) *StoredInt {
	return &StoredInt{trail: t, v: v}
}

// MakeBitSet creates a trailed bit-vector with the given fixed capacity.
// All bits start clear. Capacity never grows.
func (t *Trail) MakeBitSet(capacity int) *StoredBitSet {
	return &StoredBitSet{
		trail:    t,
		capacity: capacity,
		words:    make([]uint64, (capacity+63)/64),
	}
}

// StoredInt is a trailed integer cell.
type StoredInt struct {
	trail *Trail
	v     int
}

// Get returns the current value.
func (s *StoredInt) Get() int {
	return s.v
}

// Set writes v, recording the previous value on the trail.
// Writing the current value records nothing.
func (s *StoredInt) Set(v int) {
	if v == s.v {
		return
	}
	s.trail.undo = append(s.trail.undo, undoEntry{cell: s, old: uint64(int64(s.v))})
	s.v = v
}

// Add increments the cell by delta.
func (s *StoredInt) Add(delta int) {
	s.Set(s.v + delta)
}

// StoredBitSet is a trailed fixed-capacity bit-vector. Bit indices run
// from 0 to capacity-1; the scan operations return -1 when no bit
// qualifies, mirroring the usual bitset convention.
type StoredBitSet struct {
	trail    *Trail
	capacity int
	words    []uint64
}

// Capacity returns the fixed number of addressable bits.
func (b *StoredBitSet) Capacity() int {
	return b.capacity
}

// Get reports whether bit i is set. Out-of-range indices read as clear.
func (b *StoredBitSet) Get(i int) bool {
	if i < 0 || i >= b.capacity {
		return false
	}
	return (b.words[i>>6]>>(uint(i)&63))&1 == 1
}

// Set writes bit i, recording the overwritten word on the trail.
// A write that does not change the bit records nothing.
func (b *StoredBitSet) Set(i int, on bool) {
	if i < 0 || i >= b.capacity {
		return
	}
	w := i >> 6
	mask := uint64(1) << (uint(i) & 63)
	old := b.words[w]
	var next uint64
	if on {
		next = old | mask
	} else {
		next = old &^ mask
	}
	if next == old {
		return
	}
	b.trail.undo = append(b.trail.undo, undoEntry{set: b, word: w, old: old})
	b.words[w] = next
}

// Clear clears bits in [from, to), trailing each modified word once.
func (b *StoredBitSet) Clear(from, to int) {
	if from < 0 {
		from = 0
	}
	if to > b.capacity {
		to = b.capacity
	}
	if from >= to {
		return
	}
	first := from >> 6
	last := (to - 1) >> 6
	for w := first; w <= last; w++ {
		mask := ^uint64(0)
		if w == first {
			mask &^= (uint64(1) << (uint(from) & 63)) - 1
		}
		if w == last && to&63 != 0 {
			mask &= (uint64(1) << (uint(to) & 63)) - 1
		}
		old := b.words[w]
		next := old &^ mask
		if next == old {
			continue
		}
		b.trail.undo = append(b.trail.undo, undoEntry{set: b, word: w, old: old})
		b.words[w] = next
	}
}

// NextSetBit returns the index of the first set bit at or after from,
// or -1 if there is none.
func (b *StoredBitSet) NextSetBit(from int) int {
	if from < 0 {
		from = 0
	}
	if from >= b.capacity {
		return -1
	}
	w := from >> 6
	cur := b.words[w] >> (uint(from) & 63)
	if cur != 0 {
		return from + bits.TrailingZeros64(cur)
	}
	for w++; w < len(b.words); w++ {
		if b.words[w] != 0 {
			return w<<6 + bits.TrailingZeros64(b.words[w])
		}
	}
	return -1
}

// PrevSetBit returns the index of the last set bit at or before from,
// or -1 if there is none.
func (b *StoredBitSet) PrevSetBit(from int) int {
	if from >= b.capacity {
		from = b.capacity - 1
	}
	if from < 0 {
		return -1
	}
	w := from >> 6
	cur := b.words[w] << (63 - (uint(from) & 63))
	if cur != 0 {
		return from - bits.LeadingZeros64(cur)
	}
	for w--; w >= 0; w-- {
		if b.words[w] != 0 {
			return w<<6 + 63 - bits.LeadingZeros64(b.words[w])
		}
	}
	return -1
}

// Cardinality returns the number of set bits using hardware popcount.
func (b *StoredBitSet) Cardinality() int {
	n := 0
	for _, w := range b.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// IsEmpty reports whether no bit is set.
func (b *StoredBitSet) IsEmpty() bool {
	for _, w := range b.words {
		if w != 0 {
			return false
		}
	}
	return true
}
