package usecase

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type EquipmentUseCase struct {
	repo interfaces.Repository
}

type CreateEquipmentInput struct {
	Tag  string
	Name string
	Area string
	Kind string
}

func (uc *EquipmentUseCase) CreateEquipment(ctx context.Context, input CreateEquipmentInput) (*model.Equipment, error) {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return nil, err
	}

	eq := &model.Equipment{
		ID:   model.NewEquipmentID(),
		Tag:  strings.ToUpper(strings.TrimSpace(input.Tag)),
		Name: strings.TrimSpace(input.Name),
		Area: strings.TrimSpace(input.Area),
		Kind: strings.TrimSpace(input.Kind),
	}
	if err := eq.Validate(); err != nil {
		return nil, err
	}

	all, err := uc.repo.Equipment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list equipment")
	}
	for _, e := range all {
		if e.Tag == eq.Tag {
			return nil, goerr.Wrap(model.ErrConflict, "equipment tag already exists", goerr.V("tag", eq.Tag), goerr.V(model.EquipmentIDKey, e.ID))
		}
	}

	created, err := uc.repo.Equipment().Create(ctx, eq)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create equipment", goerr.V("tag", eq.Tag))
	}

	logging.From(ctx).Info("equipment created", slog.String("equipment_id", created.ID.String()), slog.String("tag", created.Tag))
	return created, nil
}

func (uc *EquipmentUseCase) ListEquipment(ctx context.Context) ([]*model.Equipment, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}
	list, err := uc.repo.Equipment().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list equipment")
	}
	return list, nil
}

// DeleteEquipment removes the equipment and all of its readings
func (uc *EquipmentUseCase) DeleteEquipment(ctx context.Context, id model.EquipmentID) error {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return err
	}

	if _, err := uc.repo.Equipment().Get(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to get equipment", goerr.V(model.EquipmentIDKey, id))
	}
	if err := uc.repo.Reading().DeleteByEquipment(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete readings", goerr.V(model.EquipmentIDKey, id))
	}
	if err := uc.repo.Equipment().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete equipment", goerr.V(model.EquipmentIDKey, id))
	}
	return nil
}

type RecordReadingInput struct {
	Kind    types.ReadingKind
	Value   float64
	Ambient float64
	TakenAt time.Time
	Note    string
}

// RecordReading stores a measurement. A zero TakenAt means now.
func (uc *EquipmentUseCase) RecordReading(ctx context.Context, id model.EquipmentID, input RecordReadingInput) (*model.Reading, error) {
	if err := authorize(ctx, types.RoleOperator); err != nil {
		return nil, err
	}

	reading := &model.Reading{
		ID:          model.NewReadingID(),
		EquipmentID: id,
		Kind:        input.Kind,
		Value:       input.Value,
		Ambient:     input.Ambient,
		TakenAt:     input.TakenAt,
		Note:        input.Note,
	}
	if reading.TakenAt.IsZero() {
		reading.TakenAt = time.Now().UTC()
	}
	if err := reading.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.repo.Equipment().Get(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to get equipment", goerr.V(model.EquipmentIDKey, id))
	}

	created, err := uc.repo.Reading().Create(ctx, reading)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to record reading", goerr.V(model.EquipmentIDKey, id))
	}

	if level := created.Level(); level == types.ReadingLevelUnacceptable {
		logging.From(ctx).Warn("reading in unacceptable zone",
			slog.String("equipment_id", id.String()),
			slog.String("kind", created.Kind.String()),
			slog.Float64("value", created.Value),
		)
	}
	return created, nil
}

// ListReadings returns readings newest first. limit <= 0 returns all.
func (uc *EquipmentUseCase) ListReadings(ctx context.Context, id model.EquipmentID, limit int) ([]*model.Reading, error) {
	if err := authorize(ctx, types.RoleViewer); err != nil {
		return nil, err
	}
	if _, err := uc.repo.Equipment().Get(ctx, id); err != nil {
		return nil, goerr.Wrap(err, "failed to get equipment", goerr.V(model.EquipmentIDKey, id))
	}

	readings, err := uc.repo.Reading().ListByEquipment(ctx, id, limit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list readings", goerr.V(model.EquipmentIDKey, id))
	}
	return readings, nil
}

// EquipmentStatus pairs equipment with its most recent reading of each kind
type EquipmentStatus struct {
	Equipment *model.Equipment
	Latest    map[types.ReadingKind]*model.Reading
}

// LatestReadings returns the newest reading per kind for every equipment
func (uc *EquipmentUseCase) LatestReadings(ctx context.Context) ([]*EquipmentStatus, error) {
	list, err := uc.ListEquipment(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*EquipmentStatus, 0, len(list))
	for _, eq := range list {
		readings, err := uc.repo.Reading().ListByEquipment(ctx, eq.ID, 0)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list readings", goerr.V(model.EquipmentIDKey, eq.ID))
		}

		status := &EquipmentStatus{Equipment: eq, Latest: make(map[types.ReadingKind]*model.Reading)}
		for _, r := range readings {
			if _, ok := status.Latest[r.Kind]; !ok {
				status.Latest[r.Kind] = r
			}
		}
		result = append(result, status)
	}
	return result, nil
}
