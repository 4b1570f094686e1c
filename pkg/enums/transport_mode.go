package enums

import "fmt"

// TransportMode selects the freight pricing path. Groupage bills partial
// pallets on consolidated per-kg rates and is only open to eligible origins.
type TransportMode string

const (
	TransportModeRoad     TransportMode = "road"
	TransportModeGroupage TransportMode = "groupage"
)

var validTransportModes = []TransportMode{
	TransportModeRoad,
	TransportModeGroupage,
}

// String implements fmt.Stringer.
func (t TransportMode) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TransportMode.
func (t TransportMode) IsValid() bool {
	for _, candidate := range validTransportModes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransportMode converts raw input into a TransportMode. Empty input
// defaults to road.
func ParseTransportMode(value string) (TransportMode, error) {
	if value == "" {
		return TransportModeRoad, nil
	}
	for _, candidate := range validTransportModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transport mode %q", value)
}
