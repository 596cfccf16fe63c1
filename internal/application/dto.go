package application

import (
	"time"

	"github.com/google/uuid"

	locationDomain "github.com/transit-planner/service-route/internal/domain/location"
	"github.com/transit-planner/service-route/internal/domain/route"
	transportDomain "github.com/transit-planner/service-route/internal/domain/transportation"
)

// LocationDTO is the API representation of a location.
type LocationDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Code      string    `json:"location_code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransportationDTO is the API representation of a transportation leg.
// OperatingDays use Sunday = 0 through Saturday = 6.
type TransportationDTO struct {
	ID                  uuid.UUID   `json:"id"`
	OriginLocation      LocationDTO `json:"origin_location"`
	DestinationLocation LocationDTO `json:"destination_location"`
	TransportationType  string      `json:"transportation_type"`
	OperatingDays       []int       `json:"operating_days"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// RouteDTO is one itinerary: its legs in travel order.
type RouteDTO struct {
	Steps []TransportationDTO `json:"steps"`
}

func toLocationDTO(l *locationDomain.Location) LocationDTO {
	return LocationDTO{
		ID:        l.ID(),
		Name:      l.Name(),
		Country:   l.Country(),
		City:      l.City(),
		Code:      l.Code(),
		CreatedAt: l.CreatedAt(),
		UpdatedAt: l.UpdatedAt(),
	}
}

func toTransportationDTO(t *transportDomain.Transportation) TransportationDTO {
	return TransportationDTO{
		ID:                  t.ID(),
		OriginLocation:      toLocationDTO(t.Origin()),
		DestinationLocation: toLocationDTO(t.Destination()),
		TransportationType:  t.TransportationType().String(),
		OperatingDays:       t.OperatingDays().Ints(),
		CreatedAt:           t.CreatedAt(),
		UpdatedAt:           t.UpdatedAt(),
	}
}

func toRouteDTOs(routes []route.Route) []RouteDTO {
	out := make([]RouteDTO, len(routes))
	for i, r := range routes {
		steps := r.Steps()
		dto := RouteDTO{Steps: make([]TransportationDTO, len(steps))}
		for j, s := range steps {
			dto.Steps[j] = toTransportationDTO(s)
		}
		out[i] = dto
	}
	return out
}
