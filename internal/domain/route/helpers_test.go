package route

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/domain/location"
	"github.com/transit-planner/service-route/internal/domain/transportation"
)

var monday = transportation.OperatingDays{time.Monday}

func loc(code, country string) *location.Location {
	now := time.Now().UTC()
	return location.Reconstruct(uuid.New(), code+" name", country, code+" city", code, now, now)
}

// leg builds a leg with a deterministic ID derived from seq so that tests can
// reason about ordering.
func leg(t *testing.T, seq byte, from, to *location.Location, tt transportation.TransportationType) *transportation.Transportation {
	t.Helper()
	var id uuid.UUID
	id[15] = seq
	now := time.Now().UTC()
	return transportation.Reconstruct(id, from, to, tt, monday, now, now)
}

func assertRouteInvariants(t *testing.T, r Route, origin, destination string) {
	t.Helper()
	steps := r.Steps()
	if len(steps) < 1 || len(steps) > MaxLegs {
		t.Fatalf("route length %d outside [1,%d]", len(steps), MaxLegs)
	}
	if steps[0].Origin().Code() != origin {
		t.Fatalf("route starts at %s, want %s", steps[0].Origin().Code(), origin)
	}
	if steps[len(steps)-1].Destination().Code() != destination {
		t.Fatalf("route ends at %s, want %s", steps[len(steps)-1].Destination().Code(), destination)
	}
	if !r.ContainsFlight() {
		t.Fatalf("route has no flight")
	}
	seen := map[string]bool{}
	for i, s := range steps {
		if i > 0 && steps[i-1].Destination().Code() != s.Origin().Code() {
			t.Fatalf("route not contiguous at step %d", i)
		}
		if seen[s.Destination().Code()] {
			t.Fatalf("route visits %s twice", s.Destination().Code())
		}
		seen[s.Destination().Code()] = true
	}
}
