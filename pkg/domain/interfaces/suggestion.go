package interfaces

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
)

// SuggestionProvider proposes GUT scores and reviews resolutions.
// Callers treat every error as a soft failure.
type SuggestionProvider interface {
	Suggest(ctx context.Context, title, description, area string) (*model.Suggestion, error)
	EvaluateResolution(ctx context.Context, risk *model.RiskRecord, narrative string) (*model.ResolutionEvaluation, error)
}
