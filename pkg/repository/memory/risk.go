package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type riskRepository struct {
	mu    sync.RWMutex
	risks map[model.RiskID]*model.RiskRecord
}

func newRiskRepository() *riskRepository {
	return &riskRepository{
		risks: make(map[model.RiskID]*model.RiskRecord),
	}
}

func (r *riskRepository) Create(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := risk.Copy()
	if created.ID == "" {
		created.ID = model.NewRiskID()
	}
	if _, exists := r.risks[created.ID]; exists {
		return nil, goerr.Wrap(model.ErrConflict, "risk already exists", goerr.V(model.RiskIDKey, created.ID))
	}

	now := time.Now().UTC()
	if created.CreatedAt.IsZero() {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.risks[created.ID] = created
	return created.Copy(), nil
}

func (r *riskRepository) Get(ctx context.Context, id model.RiskID) (*model.RiskRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risk, exists := r.risks[id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}

	return risk.Copy(), nil
}

func (r *riskRepository) List(ctx context.Context) ([]*model.RiskRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	risks := make([]*model.RiskRecord, 0, len(r.risks))
	for _, risk := range r.risks {
		risks = append(risks, risk.Copy())
	}

	slices.SortFunc(risks, func(a, b *model.RiskRecord) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	return risks, nil
}

func (r *riskRepository) Update(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.risks[risk.ID]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, risk.ID))
	}

	updated := risk.Copy()
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()

	r.risks[updated.ID] = updated
	return updated.Copy(), nil
}

func (r *riskRepository) Delete(ctx context.Context, id model.RiskID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.risks[id]; !exists {
		return goerr.Wrap(model.ErrNotFound, "risk not found", goerr.V(model.RiskIDKey, id))
	}

	delete(r.risks, id)
	return nil
}
