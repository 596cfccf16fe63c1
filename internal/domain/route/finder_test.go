package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transit-planner/service-route/internal/domain/transportation"
)

func TestFindRoutes_FlightThenBus(t *testing.T) {
	a, b, c := loc("A", "X"), loc("B", "X"), loc("C", "X")
	flight := leg(t, 1, a, b, transportation.TypeFlight)
	bus := leg(t, 2, b, c, transportation.TypeBus)

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(a, c, []*transportation.Transportation{flight, bus}))

	require.Len(t, routes, 1)
	assert.Equal(t, []*transportation.Transportation{flight, bus}, routes[0].Steps())
}

func TestFindRoutes_NoFlightMeansNoRoute(t *testing.T) {
	a, b, c := loc("A", "X"), loc("B", "X"), loc("C", "X")
	bus1 := leg(t, 1, a, b, transportation.TypeBus)
	bus2 := leg(t, 2, b, c, transportation.TypeBus)

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(a, c, []*transportation.Transportation{bus1, bus2}))

	assert.Empty(t, routes)
}

func TestFindRoutes_ChainLongerThanMaxLegs(t *testing.T) {
	a, b, c, d, e, f := loc("A", "X"), loc("B", "X"), loc("C", "X"), loc("D", "X"), loc("E", "X"), loc("F", "X")
	legs := []*transportation.Transportation{
		leg(t, 1, a, b, transportation.TypeFlight),
		leg(t, 2, b, c, transportation.TypeBus),
		leg(t, 3, c, d, transportation.TypeBus),
		leg(t, 4, d, e, transportation.TypeBus),
		leg(t, 5, e, f, transportation.TypeBus),
	}

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(a, f, legs))

	assert.Empty(t, routes)
}

func TestFindRoutes_EmptyCandidates(t *testing.T) {
	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(loc("A", "X"), loc("B", "X")))

	assert.NotNil(t, routes)
	assert.Empty(t, routes)
}

func TestFindRoutes_ThreeLegsAllowed(t *testing.T) {
	home, ist, lhr, hotel := loc("HOME", "TR"), loc("IST", "TR"), loc("LHR", "UK"), loc("HOTEL", "UK")
	legs := []*transportation.Transportation{
		leg(t, 1, home, ist, transportation.TypeUber),
		leg(t, 2, ist, lhr, transportation.TypeFlight),
		leg(t, 3, lhr, hotel, transportation.TypeSubway),
	}

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(home, hotel, legs))

	require.Len(t, routes, 1)
	assert.Equal(t, 3, routes[0].Len())
	assertRouteInvariants(t, routes[0], "HOME", "HOTEL")
}

func TestFindRoutes_StopsAtDestination(t *testing.T) {
	// A -> B (flight) reaches B; the B -> C -> B loop must not produce extra routes.
	a, b, c := loc("A", "X"), loc("B", "Y"), loc("C", "Y")
	legs := []*transportation.Transportation{
		leg(t, 1, a, b, transportation.TypeFlight),
		leg(t, 2, b, c, transportation.TypeBus),
		leg(t, 3, c, b, transportation.TypeBus),
	}

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(a, b, legs))

	require.Len(t, routes, 1)
	assert.Equal(t, 1, routes[0].Len())
}

func TestFindRoutes_CycleGuard(t *testing.T) {
	// A -> B -> C -> B would revisit B as a destination and is pruned; only the
	// direct A -> B -> D walk survives.
	a, b, c, d := loc("A", "X"), loc("B", "Y"), loc("C", "Y"), loc("D", "Y")
	legs := []*transportation.Transportation{
		leg(t, 1, a, b, transportation.TypeFlight),
		leg(t, 2, b, c, transportation.TypeBus),
		leg(t, 3, c, b, transportation.TypeBus),
		leg(t, 4, b, d, transportation.TypeBus),
	}

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(a, d, legs))

	require.Len(t, routes, 1)
	for _, r := range routes {
		assertRouteInvariants(t, r, "A", "D")
	}
}

func TestFindRoutes_ParallelLegsProduceDistinctRoutes(t *testing.T) {
	home, ist, lhr := loc("HOME", "TR"), loc("IST", "TR"), loc("LHR", "UK")
	legs := []*transportation.Transportation{
		leg(t, 1, home, ist, transportation.TypeBus),
		leg(t, 2, home, ist, transportation.TypeUber),
		leg(t, 3, ist, lhr, transportation.TypeFlight),
		leg(t, 4, home, lhr, transportation.TypeFlight),
	}

	routes := NewDepthFirstRouteFinder().FindRoutes(NewSearchContext(home, lhr, legs))

	require.Len(t, routes, 3)
	assert.Equal(t, 1, routes[0].Len(), "shortest route sorts first")
	for _, r := range routes {
		assertRouteInvariants(t, r, "HOME", "LHR")
	}
}

func TestFindRoutes_IsDeterministic(t *testing.T) {
	home, ist, saw, lhr, hotel := loc("HOME", "TR"), loc("IST", "TR"), loc("SAW", "TR"), loc("LHR", "UK"), loc("HOTEL", "UK")
	legs := []*transportation.Transportation{
		leg(t, 1, home, ist, transportation.TypeBus),
		leg(t, 2, home, saw, transportation.TypeUber),
		leg(t, 3, ist, lhr, transportation.TypeFlight),
		leg(t, 4, saw, lhr, transportation.TypeFlight),
		leg(t, 5, lhr, hotel, transportation.TypeSubway),
		leg(t, 6, ist, hotel, transportation.TypeFlight),
	}
	reversed := make([]*transportation.Transportation, len(legs))
	for i, l := range legs {
		reversed[len(legs)-1-i] = l
	}

	finder := NewDepthFirstRouteFinder()
	first := finder.FindRoutes(NewSearchContext(home, hotel, legs))
	second := finder.FindRoutes(NewSearchContext(home, hotel, reversed))

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	for _, r := range first {
		assertRouteInvariants(t, r, "HOME", "HOTEL")
	}
}

func TestNewSearchContext_DeduplicatesByID(t *testing.T) {
	a, b := loc("A", "X"), loc("B", "Y")
	flight := leg(t, 1, a, b, transportation.TypeFlight)

	sc := NewSearchContext(a, b, []*transportation.Transportation{flight}, []*transportation.Transportation{flight})

	assert.Len(t, sc.Candidates(), 1)
	assert.Len(t, NewDepthFirstRouteFinder().FindRoutes(sc), 1)
}

func TestRoute_StepsIsACopy(t *testing.T) {
	a, b := loc("A", "X"), loc("B", "Y")
	r := NewRoute([]*transportation.Transportation{leg(t, 1, a, b, transportation.TypeFlight)})

	steps := r.Steps()
	steps[0] = nil

	assert.NotNil(t, r.Steps()[0])
}
