package interfaces

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

type AreaRepository interface {
	Create(ctx context.Context, area *model.PlantArea) (*model.PlantArea, error)
	Get(ctx context.Context, id model.AreaID) (*model.PlantArea, error)
	// List returns areas ordered by name
	List(ctx context.Context) ([]*model.PlantArea, error)
	// Rename changes the area name only; risk records are not touched
	Rename(ctx context.Context, id model.AreaID, name string) (*model.PlantArea, error)
	Delete(ctx context.Context, id model.AreaID) error
}
