package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

type readingRepository struct {
	mu       sync.RWMutex
	readings map[model.EquipmentID][]*model.Reading
}

func newReadingRepository() *readingRepository {
	return &readingRepository{
		readings: make(map[model.EquipmentID][]*model.Reading),
	}
}

func copyReading(r *model.Reading) *model.Reading {
	copied := *r
	return &copied
}

func (r *readingRepository) Create(ctx context.Context, reading *model.Reading) (*model.Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyReading(reading)
	if created.ID == "" {
		created.ID = model.NewReadingID()
	}
	if created.TakenAt.IsZero() {
		created.TakenAt = time.Now().UTC()
	}

	r.readings[created.EquipmentID] = append(r.readings[created.EquipmentID], created)
	return copyReading(created), nil
}

func (r *readingRepository) ListByEquipment(ctx context.Context, equipmentID model.EquipmentID, limit int) ([]*model.Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.readings[equipmentID]
	result := make([]*model.Reading, 0, len(stored))
	for _, reading := range stored {
		result = append(result, copyReading(reading))
	}
	slices.SortStableFunc(result, func(a, b *model.Reading) int {
		return b.TakenAt.Compare(a.TakenAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *readingRepository) DeleteByEquipment(ctx context.Context, equipmentID model.EquipmentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.readings, equipmentID)
	return nil
}
