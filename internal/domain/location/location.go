package location

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/common/domain"
)

// Location is the aggregate root for a named place that transportation legs connect.
// Code is the unique business key used by searches.
type Location struct {
	id        uuid.UUID
	name      string
	country   string
	city      string
	code      string
	createdAt time.Time
	updatedAt time.Time
}

// NewLocation creates a validated Location. The code is normalised to upper case.
func NewLocation(name, country, city, code string) (*Location, error) {
	name, country, city, code, err := validate(name, country, city, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &Location{
		id:        uuid.New(),
		name:      name,
		country:   country,
		city:      city,
		code:      code,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Location from persistence data (no validation).
func Reconstruct(id uuid.UUID, name, country, city, code string, createdAt, updatedAt time.Time) *Location {
	return &Location{
		id:        id,
		name:      name,
		country:   country,
		city:      city,
		code:      code,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// --- Getters ---

func (l *Location) ID() uuid.UUID        { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) Country() string      { return l.country }
func (l *Location) City() string         { return l.city }
func (l *Location) Code() string         { return l.code }
func (l *Location) CreatedAt() time.Time { return l.createdAt }
func (l *Location) UpdatedAt() time.Time { return l.updatedAt }

// --- Behavior ---

// Update replaces all mutable fields after validation.
func (l *Location) Update(name, country, city, code string) error {
	name, country, city, code, err := validate(name, country, city, code)
	if err != nil {
		return err
	}
	l.name = name
	l.country = country
	l.city = city
	l.code = code
	l.updatedAt = time.Now().UTC()
	return nil
}

// NormalizeCode trims and upper-cases a location code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func validate(name, country, city, code string) (string, string, string, string, error) {
	name = strings.TrimSpace(name)
	country = strings.TrimSpace(country)
	city = strings.TrimSpace(city)
	code = NormalizeCode(code)

	switch {
	case name == "":
		return "", "", "", "", domain.NewValidationError("location name is required")
	case country == "":
		return "", "", "", "", domain.NewValidationError("location country is required")
	case city == "":
		return "", "", "", "", domain.NewValidationError("location city is required")
	case code == "":
		return "", "", "", "", domain.NewValidationError("location code is required")
	case len(code) > 16:
		return "", "", "", "", domain.NewValidationError("location code must be at most 16 characters")
	}
	return name, country, city, code, nil
}
