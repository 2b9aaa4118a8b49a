package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type AreaUseCase struct {
	repo interfaces.Repository
}

func (uc *AreaUseCase) CreateArea(ctx context.Context, name string) (*model.PlantArea, error) {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := model.NormalizeAreaName(name)
	if err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, "", name); err != nil {
		return nil, err
	}

	area, err := uc.repo.Area().Create(ctx, &model.PlantArea{ID: model.NewAreaID(), Name: name})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create area", goerr.V("name", name))
	}

	logging.From(ctx).Info("area created", slog.String("area_id", area.ID.String()), slog.String("name", area.Name))
	return area, nil
}

func (uc *AreaUseCase) ListAreas(ctx context.Context) ([]*model.PlantArea, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}
	areas, err := uc.repo.Area().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list areas")
	}
	return areas, nil
}

// RenameArea changes the area label. Risk records keep the old name.
func (uc *AreaUseCase) RenameArea(ctx context.Context, id model.AreaID, name string) (*model.PlantArea, error) {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := model.NormalizeAreaName(name)
	if err != nil {
		return nil, err
	}
	if err := uc.checkDuplicate(ctx, id, name); err != nil {
		return nil, err
	}

	area, err := uc.repo.Area().Rename(ctx, id, name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to rename area", goerr.V(model.AreaIDKey, id))
	}
	return area, nil
}

func (uc *AreaUseCase) DeleteArea(ctx context.Context, id model.AreaID) error {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return err
	}
	if err := uc.repo.Area().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete area", goerr.V(model.AreaIDKey, id))
	}
	return nil
}

// SeedAreas creates the named areas that do not exist yet
func (uc *AreaUseCase) SeedAreas(ctx context.Context, names []string) error {
	existing, err := uc.repo.Area().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list areas")
	}
	known := make(map[string]bool, len(existing))
	for _, a := range existing {
		known[strings.ToLower(a.Name)] = true
	}

	for _, raw := range names {
		name, err := model.NormalizeAreaName(raw)
		if err != nil {
			continue
		}
		if known[strings.ToLower(name)] {
			continue
		}
		if _, err := uc.repo.Area().Create(ctx, &model.PlantArea{ID: model.NewAreaID(), Name: name}); err != nil {
			return goerr.Wrap(err, "failed to seed area", goerr.V("name", name))
		}
		known[strings.ToLower(name)] = true
		logging.From(ctx).Debug("seeded area", slog.String("name", name))
	}
	return nil
}

func (uc *AreaUseCase) checkDuplicate(ctx context.Context, self model.AreaID, name string) error {
	areas, err := uc.repo.Area().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list areas")
	}
	for _, a := range areas {
		if a.ID != self && strings.EqualFold(a.Name, name) {
			return goerr.Wrap(model.ErrConflict, "area already exists", goerr.V("name", name), goerr.V(model.AreaIDKey, a.ID))
		}
	}
	return nil
}
