package transportation

import (
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/common/domain"
	"github.com/transit-planner/service-route/internal/domain/location"
)

// Transportation is a directed, scheduled leg between two locations.
// Two legs are the same leg exactly when their IDs are equal.
type Transportation struct {
	id                 uuid.UUID
	origin             *location.Location
	destination        *location.Location
	transportationType TransportationType
	operatingDays      OperatingDays
	createdAt          time.Time
	updatedAt          time.Time
}

// NewTransportation creates a validated Transportation.
func NewTransportation(
	origin, destination *location.Location,
	transportationType TransportationType,
	operatingDays OperatingDays,
) (*Transportation, error) {
	if err := validate(origin, destination, transportationType, operatingDays); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Transportation{
		id:                 uuid.New(),
		origin:             origin,
		destination:        destination,
		transportationType: transportationType,
		operatingDays:      slices.Clone(operatingDays),
		createdAt:          now,
		updatedAt:          now,
	}, nil
}

// Reconstruct rebuilds a Transportation from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	origin, destination *location.Location,
	transportationType TransportationType,
	operatingDays OperatingDays,
	createdAt, updatedAt time.Time,
) *Transportation {
	return &Transportation{
		id:                 id,
		origin:             origin,
		destination:        destination,
		transportationType: transportationType,
		operatingDays:      operatingDays,
		createdAt:          createdAt,
		updatedAt:          updatedAt,
	}
}

// --- Getters ---

func (t *Transportation) ID() uuid.UUID                          { return t.id }
func (t *Transportation) Origin() *location.Location             { return t.origin }
func (t *Transportation) Destination() *location.Location        { return t.destination }
func (t *Transportation) TransportationType() TransportationType { return t.transportationType }
func (t *Transportation) OperatingDays() OperatingDays           { return slices.Clone(t.operatingDays) }
func (t *Transportation) CreatedAt() time.Time                   { return t.createdAt }
func (t *Transportation) UpdatedAt() time.Time                   { return t.updatedAt }

// --- Behavior ---

// IsFlight returns true if this leg is a flight.
func (t *Transportation) IsFlight() bool {
	return t.transportationType.IsFlight()
}

// OperatesOn reports whether the leg runs on day.
func (t *Transportation) OperatesOn(day time.Weekday) bool {
	return t.operatingDays.Contains(day)
}

// Update replaces endpoints, type and days after validation.
func (t *Transportation) Update(
	origin, destination *location.Location,
	transportationType TransportationType,
	operatingDays OperatingDays,
) error {
	if err := validate(origin, destination, transportationType, operatingDays); err != nil {
		return err
	}
	t.origin = origin
	t.destination = destination
	t.transportationType = transportationType
	t.operatingDays = slices.Clone(operatingDays)
	t.updatedAt = time.Now().UTC()
	return nil
}

func validate(origin, destination *location.Location, tt TransportationType, days OperatingDays) error {
	if origin == nil || destination == nil {
		return domain.NewValidationError("origin and destination are required")
	}
	if origin.Code() == destination.Code() {
		return domain.NewValidationError("origin code and destination code cannot be the same")
	}
	if !tt.IsValid() {
		return domain.NewValidationError("invalid transportation type: " + string(tt))
	}
	if len(days) == 0 {
		return domain.NewValidationError("at least one operating day is required")
	}
	return nil
}
