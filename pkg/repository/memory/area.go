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

type areaRepository struct {
	mu    sync.RWMutex
	areas map[model.AreaID]*model.PlantArea
}

func newAreaRepository() *areaRepository {
	return &areaRepository{
		areas: make(map[model.AreaID]*model.PlantArea),
	}
}

func copyArea(a *model.PlantArea) *model.PlantArea {
	copied := *a
	return &copied
}

func (r *areaRepository) Create(ctx context.Context, area *model.PlantArea) (*model.PlantArea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyArea(area)
	if created.ID == "" {
		created.ID = model.NewAreaID()
	}
	now := time.Now().UTC()
	created.CreatedAt = now
	created.UpdatedAt = now

	r.areas[created.ID] = created
	return copyArea(created), nil
}

func (r *areaRepository) Get(ctx context.Context, id model.AreaID) (*model.PlantArea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	area, exists := r.areas[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
	}
	return copyArea(area), nil
}

func (r *areaRepository) List(ctx context.Context) ([]*model.PlantArea, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	areas := make([]*model.PlantArea, 0, len(r.areas))
	for _, area := range r.areas {
		areas = append(areas, copyArea(area))
	}
	slices.SortFunc(areas, func(a, b *model.PlantArea) int {
		return strings.Compare(a.Name, b.Name)
	})
	return areas, nil
}

func (r *areaRepository) Rename(ctx context.Context, id model.AreaID, name string) (*model.PlantArea, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	area, exists := r.areas[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
	}

	area.Name = name
	area.UpdatedAt = time.Now().UTC()
	return copyArea(area), nil
}

func (r *areaRepository) Delete(ctx context.Context, id model.AreaID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.areas[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "area not found", goerr.V(model.AreaIDKey, id))
	}
	delete(r.areas, id)
	return nil
}
