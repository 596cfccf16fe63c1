package route

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/transit-planner/service-route/internal/domain/location"
	"github.com/transit-planner/service-route/internal/domain/transportation"
)

// LocationDirectory resolves location codes.
type LocationDirectory interface {
	FindByCode(ctx context.Context, code string) (*location.Location, error)
}

// TransportationCatalog answers the filtered leg queries used to narrow a search.
type TransportationCatalog interface {
	FindFlightsBetweenCountries(ctx context.Context, originCountry, destinationCountry string, day time.Weekday) ([]*transportation.Transportation, error)
	FindFromLocationToCodes(ctx context.Context, originCode string, destinationCodes []string, day time.Weekday) ([]*transportation.Transportation, error)
	FindFromCodesToLocation(ctx context.Context, originCodes []string, destinationCode string, day time.Weekday) ([]*transportation.Transportation, error)
}

// OperatingDay returns the weekday of instant as observed in zone.
// A nil zone means the process local zone.
func OperatingDay(instant time.Time, zone *time.Location) time.Weekday {
	if zone == nil {
		zone = time.Local
	}
	return instant.In(zone).Weekday()
}

// CandidatePolicy narrows the leg universe to the legs that can appear in a
// valid itinerary: flights between the endpoint countries, plus ground or air
// legs that connect the origin to a flight departure and a flight arrival to
// the destination.
type CandidatePolicy struct {
	catalog TransportationCatalog
}

// NewCandidatePolicy creates a CandidatePolicy over catalog.
func NewCandidatePolicy(catalog TransportationCatalog) *CandidatePolicy {
	return &CandidatePolicy{catalog: catalog}
}

// Collect runs the three catalog queries in order and returns a search context
// over their deduplicated union. Any query error aborts the collection.
func (p *CandidatePolicy) Collect(ctx context.Context, origin, destination *location.Location, day time.Weekday) (SearchContext, error) {
	flights, err := p.catalog.FindFlightsBetweenCountries(ctx, origin.Country(), destination.Country(), day)
	if err != nil {
		return SearchContext{}, fmt.Errorf("find flights %s->%s: %w", origin.Country(), destination.Country(), err)
	}
	if len(flights) == 0 {
		return NewSearchContext(origin, destination), nil
	}

	feederCodes := make([]string, 0, len(flights))
	arrivalCodes := make([]string, 0, len(flights))
	for _, f := range flights {
		feederCodes = append(feederCodes, f.Origin().Code())
		arrivalCodes = append(arrivalCodes, f.Destination().Code())
	}
	feederCodes = uniqueSorted(feederCodes)
	arrivalCodes = uniqueSorted(arrivalCodes)

	toFlights, err := p.catalog.FindFromLocationToCodes(ctx, origin.Code(), feederCodes, day)
	if err != nil {
		return SearchContext{}, fmt.Errorf("find legs from %s: %w", origin.Code(), err)
	}

	fromFlights, err := p.catalog.FindFromCodesToLocation(ctx, arrivalCodes, destination.Code(), day)
	if err != nil {
		return SearchContext{}, fmt.Errorf("find legs to %s: %w", destination.Code(), err)
	}

	return NewSearchContext(origin, destination, flights, toFlights, fromFlights), nil
}

func uniqueSorted(codes []string) []string {
	slices.Sort(codes)
	return slices.Compact(codes)
}
