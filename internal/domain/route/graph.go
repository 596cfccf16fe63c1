package route

import (
	"bytes"
	"slices"

	"github.com/transit-planner/service-route/internal/domain/transportation"
)

// Graph maps a location code to the legs departing from it.
// Locations with no departing legs have no entry.
type Graph map[string][]*transportation.Transportation

// BuildGraph groups legs by origin code. Each adjacency list is sorted by leg ID
// so that traversal order does not depend on the order the legs were fetched in.
func BuildGraph(legs []*transportation.Transportation) Graph {
	g := make(Graph)
	for _, t := range legs {
		code := t.Origin().Code()
		g[code] = append(g[code], t)
	}
	for _, out := range g {
		slices.SortFunc(out, func(a, b *transportation.Transportation) int {
			idA, idB := a.ID(), b.ID()
			return bytes.Compare(idA[:], idB[:])
		})
	}
	return g
}

// Outgoing returns the legs departing from code.
func (g Graph) Outgoing(code string) []*transportation.Transportation {
	return g[code]
}
