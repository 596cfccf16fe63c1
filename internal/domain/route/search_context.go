package route

import (
	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/domain/location"
	"github.com/transit-planner/service-route/internal/domain/transportation"
)

// SearchContext is the per-request input to a route search: the two endpoints and
// the candidate legs. It is built, searched and discarded by a single request.
type SearchContext struct {
	origin      *location.Location
	destination *location.Location
	candidates  []*transportation.Transportation
}

// NewSearchContext builds a context from one or more candidate slices, keeping
// the first occurrence of each leg ID.
func NewSearchContext(origin, destination *location.Location, candidateSets ...[]*transportation.Transportation) SearchContext {
	seen := make(map[uuid.UUID]struct{})
	var candidates []*transportation.Transportation
	for _, set := range candidateSets {
		for _, t := range set {
			if _, dup := seen[t.ID()]; dup {
				continue
			}
			seen[t.ID()] = struct{}{}
			candidates = append(candidates, t)
		}
	}
	return SearchContext{
		origin:      origin,
		destination: destination,
		candidates:  candidates,
	}
}

func (c SearchContext) Origin() *location.Location      { return c.origin }
func (c SearchContext) Destination() *location.Location { return c.destination }

// Candidates returns the deduplicated candidate legs.
func (c SearchContext) Candidates() []*transportation.Transportation {
	return c.candidates
}
