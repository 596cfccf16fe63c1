package transportation

import (
	"time"

	"github.com/google/uuid"

	"github.com/transit-planner/service-route/internal/domain/location"
)

// Snapshot is a serialisable copy of a Transportation, used for caching.
type Snapshot struct {
	ID                 uuid.UUID         `json:"id"`
	Origin             location.Snapshot `json:"origin"`
	Destination        location.Snapshot `json:"destination"`
	TransportationType string            `json:"transportation_type"`
	OperatingDays      []int             `json:"operating_days"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// ToSnapshot copies the leg into a Snapshot.
func (t *Transportation) ToSnapshot() Snapshot {
	return Snapshot{
		ID:                 t.id,
		Origin:             t.origin.ToSnapshot(),
		Destination:        t.destination.ToSnapshot(),
		TransportationType: string(t.transportationType),
		OperatingDays:      t.operatingDays.Ints(),
		CreatedAt:          t.createdAt,
		UpdatedAt:          t.updatedAt,
	}
}

// FromSnapshot rebuilds a Transportation from a Snapshot.
func FromSnapshot(s Snapshot) *Transportation {
	days := make(OperatingDays, len(s.OperatingDays))
	for i, d := range s.OperatingDays {
		days[i] = time.Weekday(d)
	}
	return Reconstruct(
		s.ID,
		location.FromSnapshot(s.Origin),
		location.FromSnapshot(s.Destination),
		TransportationType(s.TransportationType),
		days,
		s.CreatedAt,
		s.UpdatedAt,
	)
}

// ToSnapshots copies a slice of legs.
func ToSnapshots(ts []*Transportation) []Snapshot {
	out := make([]Snapshot, len(ts))
	for i, t := range ts {
		out[i] = t.ToSnapshot()
	}
	return out
}

// FromSnapshots rebuilds a slice of legs.
func FromSnapshots(ss []Snapshot) []*Transportation {
	out := make([]*Transportation, len(ss))
	for i, s := range ss {
		out[i] = FromSnapshot(s)
	}
	return out
}
