package interfaces

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

type RiskRepository interface {
	// Create stores a new risk. ID and CreatedAt are assigned by the caller.
	Create(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error)

	// Get retrieves a risk by ID
	Get(ctx context.Context, id model.RiskID) (*model.RiskRecord, error)

	// List retrieves all risks ordered by score descending, then creation time ascending
	List(ctx context.Context) ([]*model.RiskRecord, error)

	// Update replaces an existing risk. CreatedAt is preserved.
	Update(ctx context.Context, risk *model.RiskRecord) (*model.RiskRecord, error)

	// Delete deletes a risk by ID. Missing IDs return model.ErrNotFound.
	Delete(ctx context.Context, id model.RiskID) error
}
