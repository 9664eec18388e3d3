// Package fd implements the propagation core of a finite-domain constraint
// solver: trailed (backtrackable) storage, two integer domain
// representations, the event and promotion protocol that wakes constraint
// propagators, incremental delta logs, and the contradiction signal that
// drives backtracking search.
//
// The package deliberately stops at the propagation layer. It provides the
// machinery a search controller needs - variables, events, a fixpoint
// engine, snapshot/restore - but no search strategy, no modeling language,
// and only one illustrative propagator (BoolSum). Search controllers drive
// it like this:
//
//	eng := fd.NewEngine()
//	x, _ := fd.NewBitsetVar(eng, "x", 1, 10)
//	prop, _ := fd.NewBoolSum(eng, operands, total)
//	eng.Post(prop)
//
//	mark := eng.Trail().Snapshot()
//	_, err := x.InstantiateTo(7, fd.NoCause)
//	if err == nil {
//		err = eng.Propagate()
//	}
//	if err != nil {
//		eng.Trail().Restore(mark) // abandon the branch
//	}
//
// All mutation operations follow one contract: they return (false, nil)
// when nothing changed, (true, nil) when the domain was narrowed and
// subscribed propagators were scheduled, and (false, *Contradiction) when
// the mutation would wipe the domain out or conflict with an existing
// instantiation. Contradictions are fatal to the current branch; no
// operation rolls back its own partial effects - consistency is restored
// wholesale by Trail.Restore.
//
// The package is single-threaded by design. One propagation cycle runs to
// a fixpoint before control returns to the caller, and a variable's
// bookkeeping is always fully consistent before any subscriber is
// notified. Parallel search strategies must give each worker its own
// Engine and variable graph.
package fd
