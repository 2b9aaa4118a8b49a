package model

import (
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// EquipmentID identifies an equipment asset
type EquipmentID string

// NewEquipmentID generates a new EquipmentID
func NewEquipmentID() EquipmentID {
	return EquipmentID(uuid.Must(uuid.NewV7()).String())
}

func (id EquipmentID) String() string {
	return string(id)
}

// Equipment is a monitored plant asset such as a pump, blower or digester agitator
type Equipment struct {
	ID        EquipmentID
	Tag       string // plant tag, e.g. BIODIGESTOR-01
	Name      string
	Area      string
	Kind      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks required equipment fields
func (e *Equipment) Validate() error {
	if strings.TrimSpace(e.Tag) == "" {
		return goerr.Wrap(ErrValidation, "equipment tag is required")
	}
	if strings.TrimSpace(e.Name) == "" {
		return goerr.Wrap(ErrValidation, "equipment name is required", goerr.V("tag", e.Tag))
	}
	return nil
}

// ReadingID identifies a measurement
type ReadingID string

// NewReadingID generates a new ReadingID
func NewReadingID() ReadingID {
	return ReadingID(uuid.Must(uuid.NewV7()).String())
}

// DefaultAmbientTemperature is used when a thermography reading has no reference
const DefaultAmbientTemperature = 25.0

// Reading is a thermography or vibration measurement taken on equipment
type Reading struct {
	ID          ReadingID
	EquipmentID EquipmentID
	Kind        types.ReadingKind
	Value       float64
	// Ambient is the reference temperature for thermography; zero means DefaultAmbientTemperature
	Ambient float64
	TakenAt time.Time
	Note    string
}

// Validate checks the reading kind and value range
func (r *Reading) Validate() error {
	if !r.Kind.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid reading kind", goerr.V("kind", r.Kind))
	}
	if r.Kind == types.ReadingKindVibration && r.Value < 0 {
		return goerr.Wrap(ErrValidation, "vibration must not be negative", goerr.V(ValueKey, r.Value))
	}
	if r.EquipmentID == "" {
		return goerr.Wrap(ErrValidation, "equipment ID is required")
	}
	return nil
}

// Level classifies the reading. Vibration follows ISO 10816 class II
// zones; thermography uses the temperature rise over ambient.
func (r *Reading) Level() types.ReadingLevel {
	switch r.Kind {
	case types.ReadingKindVibration:
		switch {
		case r.Value <= 1.8:
			return types.ReadingLevelGood
		case r.Value <= 4.5:
			return types.ReadingLevelSatisfactory
		case r.Value <= 11.2:
			return types.ReadingLevelUnsatisfactory
		default:
			return types.ReadingLevelUnacceptable
		}
	case types.ReadingKindThermography:
		ambient := r.Ambient
		if ambient == 0 {
			ambient = DefaultAmbientTemperature
		}
		switch delta := r.Value - ambient; {
		case delta < 10:
			return types.ReadingLevelGood
		case delta < 20:
			return types.ReadingLevelSatisfactory
		case delta < 40:
			return types.ReadingLevelUnsatisfactory
		default:
			return types.ReadingLevelUnacceptable
		}
	default:
		return ""
	}
}
