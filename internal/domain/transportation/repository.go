package transportation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TransportationRepository defines the persistence contract for transportation legs,
// including the three filtered queries that feed route search.
type TransportationRepository interface {
	// FindByID retrieves a leg by its identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Transportation, error)

	// List retrieves legs with pagination.
	List(ctx context.Context, page, limit int) ([]*Transportation, int64, error)

	// FindFlightsBetweenCountries returns FLIGHT legs whose origin is in
	// originCountry and destination is in destinationCountry, running on day.
	FindFlightsBetweenCountries(ctx context.Context, originCountry, destinationCountry string, day time.Weekday) ([]*Transportation, error)

	// FindFromLocationToCodes returns legs of any type from originCode to any
	// of destinationCodes, running on day.
	FindFromLocationToCodes(ctx context.Context, originCode string, destinationCodes []string, day time.Weekday) ([]*Transportation, error)

	// FindFromCodesToLocation returns legs of any type from any of originCodes
	// to destinationCode, running on day.
	FindFromCodesToLocation(ctx context.Context, originCodes []string, destinationCode string, day time.Weekday) ([]*Transportation, error)

	// CountByLocation returns how many legs start or end at the location.
	CountByLocation(ctx context.Context, locationID uuid.UUID) (int64, error)

	// CountByType returns leg counts grouped by transportation type.
	CountByType(ctx context.Context) (map[string]int64, error)

	// Save persists a new leg.
	Save(ctx context.Context, t *Transportation) error

	// Update persists changes to an existing leg.
	Update(ctx context.Context, t *Transportation) error

	// Delete removes a leg.
	Delete(ctx context.Context, id uuid.UUID) error
}
