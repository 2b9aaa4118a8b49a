package types

import "fmt"

// ReadingKind is the type of a condition-monitoring measurement
type ReadingKind string

const (
	// ReadingKindThermography is a surface temperature in °C
	ReadingKindThermography ReadingKind = "THERMOGRAPHY"
	// ReadingKindVibration is an RMS vibration velocity in mm/s
	ReadingKindVibration ReadingKind = "VIBRATION"
)

// IsValid checks if the reading kind is valid
func (k ReadingKind) IsValid() bool {
	switch k {
	case ReadingKindThermography, ReadingKindVibration:
		return true
	default:
		return false
	}
}

// Unit returns the measurement unit of the kind
func (k ReadingKind) Unit() string {
	switch k {
	case ReadingKindThermography:
		return "°C"
	case ReadingKindVibration:
		return "mm/s"
	default:
		return ""
	}
}

func (k ReadingKind) String() string {
	return string(k)
}

// ParseReadingKind parses a string into a ReadingKind
func ParseReadingKind(s string) (ReadingKind, error) {
	kind := ReadingKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid reading kind: %s", s)
	}
	return kind, nil
}

// ReadingLevel is the condition zone of a measurement
type ReadingLevel string

const (
	ReadingLevelGood           ReadingLevel = "GOOD"
	ReadingLevelSatisfactory   ReadingLevel = "SATISFACTORY"
	ReadingLevelUnsatisfactory ReadingLevel = "UNSATISFACTORY"
	ReadingLevelUnacceptable   ReadingLevel = "UNACCEPTABLE"
)

func (l ReadingLevel) String() string {
	return string(l)
}
