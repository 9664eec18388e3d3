// The IntVar capability interface shared by the two domain
// representations. The two implementations are independent concrete types
// with no shared mutable state; what they share is this contract and the
// dispatch helper at the bottom of the file.

package fd

// IntVar is an integer variable of the propagation core. A variable is
// created once at model-build time with a fixed initial domain and fixed
// storage capacity; from then on its domain only shrinks, except when the
// trail restores it on backtrack.
//
// The five mutators (RemoveValue, RemoveInterval, InstantiateTo,
// UpdateLowerBound, UpdateUpperBound) share one outcome contract:
//
//   - (false, nil): no-op, the domain already satisfied the request.
//     Bookkeeping and delta logs are byte-for-byte untouched.
//   - (true, nil): the domain was narrowed, bookkeeping is consistent,
//     and subscribed propagators have been scheduled.
//   - (false, *Contradiction): the mutation is infeasible. Effects
//     committed before the failing check remain until Trail.Restore.
type IntVar interface {
	// Name returns the variable's model name.
	Name() string

	// Contains reports whether value is currently in the domain.
	Contains(value int) bool

	// RemoveValue removes value from the domain.
	RemoveValue(value int, cause Cause) (bool, error)

	// RemoveInterval removes every value in [from, to] from the domain.
	RemoveInterval(from, to int, cause Cause) (bool, error)

	// InstantiateTo reduces the domain to exactly value.
	InstantiateTo(value int, cause Cause) (bool, error)

	// UpdateLowerBound tightens the lower bound to value (included).
	UpdateLowerBound(value int, cause Cause) (bool, error)

	// UpdateUpperBound tightens the upper bound to value (included).
	UpdateUpperBound(value int, cause Cause) (bool, error)

	// LB returns the smallest value still in the domain.
	LB() int

	// UB returns the largest value still in the domain.
	UB() int

	// Value returns the instantiated value. It must only be called when
	// IsInstantiated is true; it returns the lower bound otherwise.
	Value() int

	// DomainSize returns the current cardinality of the domain.
	DomainSize() int

	// IsInstantiated reports whether the domain is a singleton.
	IsInstantiated() bool

	// IsInstantiatedTo reports whether the domain is exactly {value}.
	IsInstantiatedTo(value int) bool

	// NextValue returns the smallest domain value strictly greater than
	// value, or math.MaxInt when none exists. Safe to call repeatedly to
	// drain a full domain walk.
	NextValue(value int) int

	// PreviousValue returns the largest domain value strictly smaller
	// than value, or math.MinInt when none exists.
	PreviousValue(value int) int

	// HasEnumeratedDomain reports whether the representation can encode
	// holes (bit-vector) as opposed to a pure interval.
	HasEnumeratedDomain() bool

	// MonitorDelta activates the variable's delta log if necessary and
	// returns a fresh private cursor over it for the given owner. Entries
	// the owner caused itself are skipped when draining.
	MonitorDelta(owner Cause) DeltaMonitor

	// String renders the variable and its current domain.
	String() string

	// subscribe wires a propagator subscription into the variable,
	// activating the delta log when the mask requires value-level
	// granularity. Variables are a closed set within this package.
	subscribe(s *subscription)
}

// DeltaMonitor is a private cursor into a variable's delta log. Each drain
// yields exactly the entries appended since the previous drain by causes
// other than the cursor's owner, in append order; entries are never
// re-delivered and never reordered. Entries undone by a trail restore
// silently vanish from the cursor's view.
type DeltaMonitor interface {
	// ForEachValue calls f once per removed value.
	ForEachValue(f func(value int))

	// ForEachRange calls f once per removed run [from, to]. For
	// enumerated variables every run is a single value.
	ForEachRange(f func(from, to int))
}

// notifySubscribers performs the dispatch of one committed mutation. The
// receiving variable's bookkeeping must already be fully consistent.
// Subscribers whose mask excludes the event class are skipped entirely.
// The subscriber identical to the cause is skipped too, unless the event
// was promoted and the cause reacts on promotion.
func notifySubscribers(subs []*subscription, evt event, cause Cause) {
	for _, s := range subs {
		if s.mask&evt.mask == 0 {
			continue
		}
		if cause != nil && cause != NoCause && Cause(s.prop) == cause {
			if !evt.promoted || !cause.ReactsOnPromotion() {
				continue
			}
		}
		s.eng.schedule(s, evt.mask)
	}
}
