package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/interfaces"
	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

type UserUseCase struct {
	repo        interfaces.Repository
	noAuthEmail string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Resolve returns the user for an authenticated e-mail. Unknown users
// are viewers and are not stored. In no-auth mode every caller is the
// configured admin.
func (uc *UserUseCase) Resolve(ctx context.Context, email string) (*model.User, error) {
	if uc.noAuthEmail != "" {
		return &model.User{ID: normalizeEmail(uc.noAuthEmail), Name: "no-auth", Role: types.RoleAdmin}, nil
	}

	id := normalizeEmail(email)
	if id == "" {
		return nil, goerr.Wrap(model.ErrPermissionDenied, "no authenticated user")
	}

	user, err := uc.repo.User().Get(ctx, id)
	if errors.Is(err, model.ErrNotFound) {
		return &model.User{ID: id, Role: types.RoleViewer}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, id))
	}
	return user, nil
}

// Authorize checks the caller in ctx against the required role
func (uc *UserUseCase) Authorize(ctx context.Context, required types.Role) error {
	return authorize(ctx, required)
}

// PutUser creates or replaces a user
func (uc *UserUseCase) PutUser(ctx context.Context, email, name string, role types.Role) (*model.User, error) {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return nil, err
	}

	user := &model.User{ID: normalizeEmail(email), Name: strings.TrimSpace(name), Role: role}
	if err := user.Validate(); err != nil {
		return nil, err
	}

	if caller := model.UserFromContext(ctx); caller != nil && caller.ID == user.ID && role != types.RoleAdmin {
		return nil, goerr.Wrap(model.ErrValidation, "cannot remove own admin role", goerr.V(model.UserIDKey, user.ID))
	}

	stored, err := uc.repo.User().Put(ctx, user)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to put user", goerr.V(model.UserIDKey, user.ID))
	}

	logging.From(ctx).Info("user updated", slog.String("user_id", stored.ID), slog.String("role", stored.Role.String()))
	return stored, nil
}

func (uc *UserUseCase) ListUsers(ctx context.Context) ([]*model.User, error) {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}
	return users, nil
}

func (uc *UserUseCase) DeleteUser(ctx context.Context, email string) error {
	if err := authorize(ctx, types.RoleAdmin); err != nil {
		return err
	}
	id := normalizeEmail(email)
	if caller := model.UserFromContext(ctx); caller != nil && caller.ID == id {
		return goerr.Wrap(model.ErrValidation, "cannot delete own user", goerr.V(model.UserIDKey, id))
	}

	if err := uc.repo.User().Delete(ctx, id); err != nil {
		return goerr.Wrap(err, "failed to delete user", goerr.V(model.UserIDKey, id))
	}
	return nil
}

// SeedUsers stores users that do not exist yet. Existing users keep
// their current role.
func (uc *UserUseCase) SeedUsers(ctx context.Context, users []*model.User) error {
	for _, u := range users {
		seed := &model.User{ID: normalizeEmail(u.ID), Name: u.Name, Role: u.Role}
		if err := seed.Validate(); err != nil {
			return err
		}

		_, err := uc.repo.User().Get(ctx, seed.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, model.ErrNotFound) {
			return goerr.Wrap(err, "failed to get user", goerr.V(model.UserIDKey, seed.ID))
		}

		if _, err := uc.repo.User().Put(ctx, seed); err != nil {
			return goerr.Wrap(err, "failed to seed user", goerr.V(model.UserIDKey, seed.ID))
		}
		logging.From(ctx).Debug("seeded user", slog.String("user_id", seed.ID))
	}
	return nil
}
