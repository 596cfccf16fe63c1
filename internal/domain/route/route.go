package route

import (
	"bytes"
	"slices"

	"github.com/transit-planner/service-route/internal/domain/transportation"
)

// MaxLegs is the largest number of legs an itinerary may have.
const MaxLegs = 3

// Route is an immutable, ordered sequence of contiguous legs from a search origin
// to a search destination that contains at least one flight.
type Route struct {
	steps []*transportation.Transportation
}

// NewRoute wraps an edge sequence. The slice is copied.
func NewRoute(steps []*transportation.Transportation) Route {
	return Route{steps: slices.Clone(steps)}
}

// Steps returns a copy of the legs in travel order.
func (r Route) Steps() []*transportation.Transportation {
	return slices.Clone(r.steps)
}

// Len returns the number of legs.
func (r Route) Len() int {
	return len(r.steps)
}

// ContainsFlight reports whether any leg is a flight.
func (r Route) ContainsFlight() bool {
	return containsFlight(r.steps)
}

func containsFlight(path []*transportation.Transportation) bool {
	return slices.ContainsFunc(path, (*transportation.Transportation).IsFlight)
}

// compareRoutes orders routes by leg count, then by leg IDs position by position.
func compareRoutes(a, b Route) int {
	if a.Len() != b.Len() {
		return a.Len() - b.Len()
	}
	for i := range a.steps {
		idA, idB := a.steps[i].ID(), b.steps[i].ID()
		if c := bytes.Compare(idA[:], idB[:]); c != 0 {
			return c
		}
	}
	return 0
}
