package location

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is a serialisable copy of a Location, used for caching.
type Snapshot struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	City      string    `json:"city"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToSnapshot copies the location into a Snapshot.
func (l *Location) ToSnapshot() Snapshot {
	return Snapshot{
		ID:        l.id,
		Name:      l.name,
		Country:   l.country,
		City:      l.city,
		Code:      l.code,
		CreatedAt: l.createdAt,
		UpdatedAt: l.updatedAt,
	}
}

// FromSnapshot rebuilds a Location from a Snapshot.
func FromSnapshot(s Snapshot) *Location {
	return Reconstruct(s.ID, s.Name, s.Country, s.City, s.Code, s.CreatedAt, s.UpdatedAt)
}
