package transportation

import (
	"fmt"
	"strings"
)

// TransportationType is the mode of a transportation leg.
type TransportationType string

const (
	TypeFlight TransportationType = "FLIGHT"
	TypeBus    TransportationType = "BUS"
	TypeSubway TransportationType = "SUBWAY"
	TypeUber   TransportationType = "UBER"
)

var validTypes = map[TransportationType]struct{}{
	TypeFlight: {},
	TypeBus:    {},
	TypeSubway: {},
	TypeUber:   {},
}

// IsValid returns true if the type is a recognized transportation type.
func (t TransportationType) IsValid() bool {
	_, ok := validTypes[t]
	return ok
}

// IsFlight returns true for air legs.
func (t TransportationType) IsFlight() bool {
	return t == TypeFlight
}

// String returns the string representation of the type.
func (t TransportationType) String() string {
	return string(t)
}

// ParseTransportationType converts a case-insensitive string to a TransportationType.
func ParseTransportationType(s string) (TransportationType, error) {
	t := TransportationType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid transportation type: %s", s)
	}
	return t, nil
}
