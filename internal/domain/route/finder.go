package route

import (
	"slices"

	"github.com/transit-planner/service-route/internal/domain/transportation"
)

// RouteFinder enumerates the valid itineraries within a search context.
type RouteFinder interface {
	// FindRoutes returns every valid route; an empty result is not an error.
	FindRoutes(sc SearchContext) []Route
}

// DepthFirstRouteFinder walks the candidate graph depth-first with an explicit
// stack, bounded by MaxLegs and never revisiting a destination within a path.
type DepthFirstRouteFinder struct {
	maxLegs int
}

// NewDepthFirstRouteFinder creates a DepthFirstRouteFinder limited to MaxLegs.
func NewDepthFirstRouteFinder() *DepthFirstRouteFinder {
	return &DepthFirstRouteFinder{maxLegs: MaxLegs}
}

type searchState struct {
	code string
	path []*transportation.Transportation
}

// FindRoutes implements RouteFinder. Results are sorted by leg count and then
// by leg IDs, so the same context always yields the same slice.
func (f *DepthFirstRouteFinder) FindRoutes(sc SearchContext) []Route {
	routes := []Route{}
	if sc.Origin() == nil || sc.Destination() == nil {
		return routes
	}

	graph := BuildGraph(sc.Candidates())
	destination := sc.Destination().Code()

	stack := []searchState{{code: sc.Origin().Code()}}
	for len(stack) > 0 {
		state := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if state.code == destination {
			if containsFlight(state.path) {
				routes = append(routes, NewRoute(state.path))
			}
			continue
		}

		if len(state.path) >= f.maxLegs {
			continue
		}

		for _, leg := range graph.Outgoing(state.code) {
			next := leg.Destination().Code()
			if visitedAsDestination(state.path, next) {
				continue
			}
			path := make([]*transportation.Transportation, len(state.path), len(state.path)+1)
			copy(path, state.path)
			stack = append(stack, searchState{code: next, path: append(path, leg)})
		}
	}

	slices.SortFunc(routes, compareRoutes)
	return routes
}

func visitedAsDestination(path []*transportation.Transportation, code string) bool {
	for _, leg := range path {
		if leg.Destination().Code() == code {
			return true
		}
	}
	return false
}
