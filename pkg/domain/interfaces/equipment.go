package interfaces

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

type EquipmentRepository interface {
	Create(ctx context.Context, eq *model.Equipment) (*model.Equipment, error)
	Get(ctx context.Context, id model.EquipmentID) (*model.Equipment, error)
	// List returns equipment ordered by tag
	List(ctx context.Context) ([]*model.Equipment, error)
	Delete(ctx context.Context, id model.EquipmentID) error
}

type ReadingRepository interface {
	Create(ctx context.Context, reading *model.Reading) (*model.Reading, error)
	// ListByEquipment returns readings newest first. limit <= 0 means no limit.
	ListByEquipment(ctx context.Context, equipmentID model.EquipmentID, limit int) ([]*model.Reading, error)
	// DeleteByEquipment removes every reading of the equipment
	DeleteByEquipment(ctx context.Context, equipmentID model.EquipmentID) error
}
