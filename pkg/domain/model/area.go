package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// AreaID identifies a plant area
type AreaID string

// NewAreaID generates a new AreaID
func NewAreaID() AreaID {
	return AreaID(uuid.Must(uuid.NewV7()).String())
}

func (id AreaID) String() string {
	return string(id)
}

// PlantArea is a user-managed label grouping risk records by plant
// subsystem. Risk records store the area name, not the ID, so renaming
// an area leaves existing records pointing at the old name.
type PlantArea struct {
	ID        AreaID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeAreaName trims surrounding whitespace and rejects empty names
func NormalizeAreaName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", goerr.Wrap(ErrValidation, "area name is required")
	}
	return trimmed, nil
}
