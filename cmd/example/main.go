// This example walks through the building blocks of the propagation
// core: domain representations, event dispatch, contradictions, and
// backtracking through the trail.
package main

import (
	"errors"
	"fmt"

	"github.com/gitrdm/gofd/pkg/fd"
)

func main() {
	fmt.Printf("=== gofd Examples (v%s) ===\n", fd.Version)
	fmt.Println()

	domainRepresentations()
	boundTightening()
	contradictionAndBacktracking()
	deltaDraining()
}

// must discards the changed flag of a mutator expected to succeed and
// panics on contradiction.
func must(_ bool, err error) {
	if err != nil {
		panic(err)
	}
}

// domainRepresentations contrasts the enumerated and bounded variants.
func domainRepresentations() {
	fmt.Println("1. Domain Representations:")

	eng := fd.NewEngine()
	x, _ := fd.NewBitsetVar(eng, "x", 1, 10)
	y, _ := fd.NewIntervalVar(eng, "y", 1, 10)

	// The enumerated variable can carve holes into its domain.
	must(x.RemoveValue(5, fd.NoCause))
	fmt.Printf("   %s (size %d, contains 5: %v)\n", x, x.DomainSize(), x.Contains(5))

	// The bounded variable ignores interior removals entirely.
	must(y.RemoveValue(5, fd.NoCause))
	fmt.Printf("   %s (size %d, contains 5: %v)\n", y, y.DomainSize(), y.Contains(5))
	fmt.Println()
}

// boundTightening shows bound updates collapsing a domain to a value.
func boundTightening() {
	fmt.Println("2. Bound Tightening:")

	eng := fd.NewEngine()
	x, _ := fd.NewBitsetVarFromValues(eng, "x", []int{2, 3, 5, 7, 11})

	must(x.UpdateLowerBound(4, fd.NoCause))
	fmt.Printf("   after lb >= 4:  %s\n", x)

	must(x.UpdateUpperBound(6, fd.NoCause))
	fmt.Printf("   after ub <= 6:  %s (instantiated: %v)\n", x, x.IsInstantiated())
	fmt.Println()
}

// contradictionAndBacktracking drives a branch into failure and recovers
// by restoring the trail.
func contradictionAndBacktracking() {
	fmt.Println("3. Contradiction and Backtracking:")

	eng := fd.NewEngine()
	trail := eng.Trail()
	x, _ := fd.NewBitsetVar(eng, "x", 1, 3)

	mark := trail.Snapshot()
	must(x.InstantiateTo(2, fd.NoCause))
	fmt.Printf("   decision:       %s\n", x)

	// A conflicting instantiation fails without corrupting anything.
	_, err := x.InstantiateTo(3, fd.NoCause)
	var c *fd.Contradiction
	if errors.As(err, &c) {
		fmt.Printf("   conflict:       %v\n", c)
	}

	trail.Restore(mark)
	fmt.Printf("   after restore:  %s\n", x)
	fmt.Println()
}

// deltaDraining replays the removals a mutation produced through a
// private delta cursor.
func deltaDraining() {
	fmt.Println("4. Delta Draining:")

	eng := fd.NewEngine()
	x, _ := fd.NewBitsetVar(eng, "x", 1, 10)
	mon := x.MonitorDelta(fd.NoCause)

	must(x.RemoveInterval(3, 6, fd.NoCause))
	fmt.Print("   removed by [3,6]:")
	mon.ForEachValue(func(v int) { fmt.Printf(" %d", v) })
	fmt.Println()

	// The cursor is drained; a second pass yields nothing new.
	count := 0
	mon.ForEachValue(func(int) { count++ })
	fmt.Printf("   second drain: %d values\n", count)
	fmt.Println()
}
