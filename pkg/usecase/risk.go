package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/async"
	"github.com/biogas-ops/gutboard/pkg/utils/errutil"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type RiskUseCase struct {
	repo        interfaces.Repository
	suggester   interfaces.SuggestionProvider
	storage     interfaces.FileStorage
	notifier    interfaces.Notifier
	autoSuggest bool
	topN        int
}

// CreateRiskInput carries a new report. Zero factors mean "not scored"
// and default to 1, or to the AI suggestion when auto-suggest is on.
type CreateRiskInput struct {
	Title           string
	Description     string
	Area            string
	Gravity         int
	Urgency         int
	Tendency        int
	ImmediateAction string
}

func (in CreateRiskInput) unscored() bool {
	return in.Gravity == 0 && in.Urgency == 0 && in.Tendency == 0
}

// UpdateRiskInput holds optional changes; nil fields are left as they are
type UpdateRiskInput struct {
	Title           *string
	Description     *string
	Area            *string
	Gravity         *int
	Urgency         *int
	Tendency        *int
	ImmediateAction *string
}

func (uc *RiskUseCase) CreateRisk(ctx context.Context, input CreateRiskInput) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}

	risk := model.NewRiskRecord(strings.TrimSpace(input.Title), input.Description, strings.TrimSpace(input.Area))
	risk.ImmediateAction = input.ImmediateAction
	risk.ReporterID = reporterID(ctx)

	if !input.unscored() {
		if err := risk.SetFactors(input.Gravity, input.Urgency, input.Tendency); err != nil {
			return nil, err
		}
	}
	if err := risk.Validate(); err != nil {
		return nil, err
	}

	if input.unscored() && uc.autoSuggest {
		uc.applySuggestion(ctx, risk)
	}

	created, err := uc.repo.Risk().Create(ctx, risk)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create risk")
	}

	logging.From(ctx).Info("risk created",
		slog.String("risk_id", created.ID.String()),
		slog.Int("score", created.Score),
		slog.String("area", created.Area),
	)

	uc.notifyIfCritical(ctx, nil, created)
	return created, nil
}

// applySuggestion fills factors and reasoning from the provider. Any
// failure leaves the record as it is.
func (uc *RiskUseCase) applySuggestion(ctx context.Context, risk *model.RiskRecord) {
	if uc.suggester == nil {
		return
	}

	s, err := uc.suggester.Suggest(ctx, risk.Title, risk.Description, risk.Area)
	if err != nil {
		logging.From(ctx).Warn("AI suggestion unavailable, saving without it", slog.Any("error", err))
		return
	}

	if s.Valid() {
		if err := risk.SetFactors(s.Gravity, s.Urgency, s.Tendency); err != nil {
			return
		}
	}
	risk.AIReasoning = s.Reasoning
}

func (uc *RiskUseCase) GetRisk(ctx context.Context, id model.RiskID) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}

	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}
	return risk, nil
}

// ListRisks returns the records matching filter ranked by score
func (uc *RiskUseCase) ListRisks(ctx context.Context, filter model.RiskFilter) ([]*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}
	for _, s := range filter.Statuses {
		if !s.IsValid() {
			return nil, goerr.Wrap(model.ErrValidation, "invalid status filter", goerr.V("status", s))
		}
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}

	return model.Rank(filter.Apply(risks)), nil
}

func (uc *RiskUseCase) UpdateRisk(ctx context.Context, id model.RiskID, input UpdateRiskInput) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if input.Title != nil && strings.TrimSpace(*input.Title) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "risk title is required", goerr.V(model.RiskIDKey, id))
	}
	for name, v := range map[string]*int{"gravity": input.Gravity, "urgency": input.Urgency, "tendency": input.Tendency} {
		if v == nil {
			continue
		}
		if err := model.ValidateFactor(name, *v); err != nil {
			return nil, goerr.Wrap(err, "invalid factor", goerr.V(model.RiskIDKey, id))
		}
	}

	return uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		if input.Title != nil {
			risk.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			risk.Description = *input.Description
		}
		if input.Area != nil {
			risk.Area = strings.TrimSpace(*input.Area)
		}
		if input.ImmediateAction != nil {
			risk.ImmediateAction = *input.ImmediateAction
		}

		g, u, t := risk.Gravity, risk.Urgency, risk.Tendency
		if input.Gravity != nil {
			g = *input.Gravity
		}
		if input.Urgency != nil {
			u = *input.Urgency
		}
		if input.Tendency != nil {
			t = *input.Tendency
		}
		return risk.SetFactors(g, u, t)
	})
}

func (uc *RiskUseCase) UpdateRiskStatus(ctx context.Context, id model.RiskID, status types.RiskStatus) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, goerr.Wrap(model.ErrValidation, "invalid risk status", goerr.V(model.RiskIDKey, id), goerr.V("status", status))
	}

	return uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		risk.Status = status
		return nil
	})
}

func (uc *RiskUseCase) UpdateRiskFactors(ctx context.Context, id model.RiskID, gravity, urgency, tendency int) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if _, err := model.ComputeScore(gravity, urgency, tendency); err != nil {
		return nil, goerr.Wrap(err, "invalid factors", goerr.V(model.RiskIDKey, id))
	}

	return uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		return risk.SetFactors(gravity, urgency, tendency)
	})
}

// ResolveRisk closes the record with a resolution narrative. When
// evaluate is set the narrative is reviewed by the suggestion provider;
// a failed review leaves the evaluation blank.
func (uc *RiskUseCase) ResolveRisk(ctx context.Context, id model.RiskID, narrative string, evaluate bool) (*model.RiskRecord, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	narrative = strings.TrimSpace(narrative)
	if narrative == "" {
		return nil, goerr.Wrap(model.ErrValidation, "resolution narrative is required", goerr.V(model.RiskIDKey, id))
	}

	return uc.modify(ctx, id, func(risk *model.RiskRecord) error {
		risk.Status = types.RiskStatusResolved
		risk.Resolution = narrative
		risk.ResolutionEvaluation = ""

		if evaluate && uc.suggester != nil {
			eval, err := uc.suggester.EvaluateResolution(ctx, risk, narrative)
			if err != nil {
				logging.From(ctx).Warn("resolution evaluation unavailable", slog.Any("error", err), slog.String("risk_id", id.String()))
				return nil
			}
			risk.ResolutionEvaluation = formatEvaluation(eval)
		}
		return nil
	})
}

func formatEvaluation(eval *model.ResolutionEvaluation) string {
	verdict := "INSUFICIENTE"
	if eval.Effective {
		verdict = "EFICAZ"
	}
	if eval.Assessment == "" {
		return verdict
	}
	return verdict + ": " + eval.Assessment
}

// Suggest asks the provider for factors without saving anything. A nil
// suggestion with a nil error means the provider is not available.
func (uc *RiskUseCase) Suggest(ctx context.Context, title, description, area string) (*model.Suggestion, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}
	if strings.TrimSpace(title) == "" {
		return nil, goerr.Wrap(model.ErrValidation, "title is required")
	}
	if uc.suggester == nil {
		return nil, nil
	}

	s, err := uc.suggester.Suggest(ctx, title, description, area)
	if err != nil {
		logging.From(ctx).Warn("AI suggestion unavailable", slog.Any("error", err))
		return nil, nil
	}
	return s, nil
}

// SuggestForRisk runs Suggest on a stored record
func (uc *RiskUseCase) SuggestForRisk(ctx context.Context, id model.RiskID) (*model.Suggestion, error) {
	risk, err := uc.GetRisk(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.Suggest(ctx, risk.Title, risk.Description, risk.Area)
}

// DeleteRisk removes the record. Its attachments are deleted in the
// background after the record is gone.
func (uc *RiskUseCase) DeleteRisk(ctx context.Context, id model.RiskID) error {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return err
	}

	risk, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	if err := uc.repo.Risk().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete risk", goerr.V(model.RiskIDKey, id))
	}

	logging.From(ctx).Info("risk deleted", slog.String("risk_id", id.String()))

	if uc.storage != nil && len(risk.Attachments) > 0 {
		attachments := risk.Attachments
		async.Dispatch(ctx, func(ctx context.Context) error {
			for _, a := range attachments {
				if err := uc.storage.Delete(ctx, a.URL); err != nil {
					_ = errutil.Handle(ctx, goerr.Wrap(err, "failed to delete attachment", goerr.V(model.RiskIDKey, id), goerr.V(URLKey, a.URL)), "attachment cleanup failed")
				}
			}
			return nil
		})
	}
	return nil
}

// Dashboard aggregates every record
func (uc *RiskUseCase) Dashboard(ctx context.Context) (*model.Dashboard, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}

	risks, err := uc.repo.Risk().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list risks")
	}
	return model.BuildDashboard(risks, uc.topN), nil
}

// modify loads the record, applies fn, validates and stores it. The
// stored record is unchanged when any step fails.
func (uc *RiskUseCase) modify(ctx context.Context, id model.RiskID, fn func(risk *model.RiskRecord) error) (*model.RiskRecord, error) {
	current, err := uc.repo.Risk().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get risk", goerr.V(model.RiskIDKey, id))
	}

	next := current.Copy()
	if err := fn(next); err != nil {
		return nil, goerr.Wrap(err, "failed to apply change", goerr.V(model.RiskIDKey, id))
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	updated, err := uc.repo.Risk().Update(ctx, next)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update risk", goerr.V(model.RiskIDKey, id))
	}

	uc.notifyIfCritical(ctx, current, updated)
	return updated, nil
}

// notifyIfCritical posts risks that just entered the CRITICAL row level
func (uc *RiskUseCase) notifyIfCritical(ctx context.Context, before, after *model.RiskRecord) {
	if uc.notifier == nil || after.RowLevel() != types.RowLevelCritical {
		return
	}
	if before != nil && before.RowLevel() == types.RowLevelCritical {
		return
	}
	if !after.Status.IsActive() {
		return
	}

	risk := after.Copy()
	async.Dispatch(ctx, func(ctx context.Context) error {
		if err := uc.notifier.NotifyCritical(ctx, risk); err != nil {
			return goerr.Wrap(err, "failed to notify critical risk", goerr.V(model.RiskIDKey, risk.ID))
		}
		return nil
	})
}
