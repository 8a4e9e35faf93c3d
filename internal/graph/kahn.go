package graph

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrCycleDetected is returned when collections reference each other in a loop.
var ErrCycleDetected = errors.New("cycle detected in relation graph")

// CycleError lists the collections that could not be ordered.
type CycleError struct {
	Unprocessed []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s", ErrCycleDetected, strings.Join(e.Unprocessed, ", "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}

// CalculateInDegrees returns, per collection, how many collections it references.
func (g *Graph) CalculateInDegrees() map[string]int {
	inDegree := make(map[string]int, len(g.Nodes))
	for name := range g.Nodes {
		inDegree[name] = 0
	}
	for _, children := range g.Children {
		for _, child := range children {
			inDegree[child]++
		}
	}
	return inDegree
}

// ResolutionOrder returns collections so that every referenced collection
// precedes the collections referencing it. Ties are broken by name, so the
// order is stable across runs.
func (g *Graph) ResolutionOrder() ([]string, error) {
	inDegree := g.CalculateInDegrees()

	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.Nodes))
	for len(ready) > 0 {
		node := ready[0]
		ready = ready[1:]
		order = append(order, node)

		var released []string
		for _, child := range g.GetChildren(node) {
			inDegree[child]--
			if inDegree[child] == 0 {
				released = append(released, child)
			}
		}
		if len(released) > 0 {
			ready = append(ready, released...)
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.Nodes) {
		var unprocessed []string
		for name, degree := range inDegree {
			if degree > 0 {
				unprocessed = append(unprocessed, name)
			}
		}
		sort.Strings(unprocessed)
		return nil, &CycleError{Unprocessed: unprocessed}
	}

	return order, nil
}
