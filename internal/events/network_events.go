package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicNetworkEvents carries every change to the transport network.
const TopicNetworkEvents = "transport-network.events"

// CloudEvent types published on TopicNetworkEvents.
const (
	TransportationCreated = "transportation.created"
	TransportationUpdated = "transportation.updated"
	TransportationDeleted = "transportation.deleted"
	LocationUpdated       = "location.updated"
	LocationDeleted       = "location.deleted"
)

// TransportationChangedEvent is the payload of the transportation.* events.
type TransportationChangedEvent struct {
	TransportationID   uuid.UUID `json:"transportation_id"`
	OriginCode         string    `json:"origin_code,omitempty"`
	DestinationCode    string    `json:"destination_code,omitempty"`
	TransportationType string    `json:"transportation_type,omitempty"`
	OperatingDays      []int     `json:"operating_days,omitempty"`
	OccurredAt         time.Time `json:"occurred_at"`
}

// LocationChangedEvent is the payload of the location.* events.
type LocationChangedEvent struct {
	LocationID   uuid.UUID `json:"location_id"`
	Code         string    `json:"location_code"`
	PreviousCode string    `json:"previous_location_code,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
