package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type equipmentRepository struct {
	mu        sync.RWMutex
	equipment map[model.EquipmentID]*model.Equipment
}

func newEquipmentRepository() *equipmentRepository {
	return &equipmentRepository{
		equipment: make(map[model.EquipmentID]*model.Equipment),
	}
}

func copyEquipment(e *model.Equipment) *model.Equipment {
	copied := *e
	return &copied
}

func (r *equipmentRepository) Create(ctx context.Context, eq *model.Equipment) (*model.Equipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyEquipment(eq)
	if created.ID == "" {
		created.ID = model.NewEquipmentID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.equipment[created.ID] = created
	return copyEquipment(created), nil
}

func (r *equipmentRepository) Get(ctx context.Context, id model.EquipmentID) (*model.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eq, exists := r.equipment[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "equipment not found", goerr.V(model.EquipmentIDKey, id))
	}
	return copyEquipment(eq), nil
}

func (r *equipmentRepository) List(ctx context.Context) ([]*model.Equipment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Equipment, 0, len(r.equipment))
	for _, eq := range r.equipment {
		result = append(result, copyEquipment(eq))
	}
	slices.SortFunc(result, func(a, b *model.Equipment) int {
		return strings.Compare(a.Tag, b.Tag)
	})
	return result, nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id model.EquipmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.equipment[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "equipment not found", goerr.V(model.EquipmentIDKey, id))
	}
	delete(r.equipment, id)
	return nil
}
