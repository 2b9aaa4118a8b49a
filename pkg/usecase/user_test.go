package usecase_test

import (
	"context"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/repository/memory"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestUserUseCase(t *testing.T) {
	t.Run("unknown user resolves as viewer", func(t *testing.T) {
		uc := usecase.New(memory.New())

		user, err := uc.User.Resolve(context.Background(), "Tecnico@Plant.example ")
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal("tecnico@plant.example")
		gt.Value(t, user.Role).Equal(types.RoleViewer)
	})

	t.Run("stored role is used", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.User.PutUser(ctx, "op@plant.example", "Operador", types.RoleOperator)
		gt.NoError(t, err).Required()

		user, err := uc.User.Resolve(ctx, "OP@plant.example")
		gt.NoError(t, err).Required()
		gt.Value(t, user.Role).Equal(types.RoleOperator)
		gt.Value(t, user.Name).Equal("Operador")
	})

	t.Run("empty identity is denied", func(t *testing.T) {
		uc := usecase.New(memory.New())
		_, err := uc.User.Resolve(context.Background(), "")
		gt.Error(t, err).Is(model.ErrPermissionDenied)
	})

	t.Run("no-auth resolves to admin", func(t *testing.T) {
		uc := usecase.New(memory.New(), usecase.WithNoAuth("dev@localhost"))
		gt.Bool(t, uc.IsNoAuthn()).True()

		user, err := uc.User.Resolve(context.Background(), "")
		gt.NoError(t, err).Required()
		gt.Value(t, user.ID).Equal("dev@localhost")
		gt.Value(t, user.Role).Equal(types.RoleAdmin)
	})

	t.Run("only admin manages users", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := withRole(context.Background(), types.RoleOperator)

		_, err := uc.User.PutUser(ctx, "x@plant.example", "", types.RoleAdmin)
		gt.Error(t, err).Is(model.ErrPermissionDenied)
		_, err = uc.User.ListUsers(ctx)
		gt.Error(t, err).Is(model.ErrPermissionDenied)
		gt.Error(t, uc.User.Authorize(ctx, types.RoleAdmin)).Is(model.ErrPermissionDenied)
		gt.NoError(t, uc.User.Authorize(ctx, types.RoleOperator))
	})

	t.Run("invalid user", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.User.PutUser(ctx, "not-an-email", "", types.RoleViewer)
		gt.Error(t, err).Is(model.ErrValidation)
		_, err = uc.User.PutUser(ctx, "a@plant.example", "", "ROOT")
		gt.Error(t, err).Is(model.ErrValidation)
	})

	t.Run("admin cannot demote or delete self", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := model.ContextWithUser(context.Background(), &model.User{ID: "admin@plant.example", Role: types.RoleAdmin})

		_, err := uc.User.PutUser(ctx, "admin@plant.example", "", types.RoleViewer)
		gt.Error(t, err).Is(model.ErrValidation)
		gt.Error(t, uc.User.DeleteUser(ctx, "ADMIN@plant.example")).Is(model.ErrValidation)
	})

	t.Run("delete", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.User.PutUser(ctx, "a@plant.example", "", types.RoleViewer)
		gt.NoError(t, err).Required()
		gt.NoError(t, uc.User.DeleteUser(ctx, "a@plant.example")).Required()
		gt.Error(t, uc.User.DeleteUser(ctx, "a@plant.example")).Is(model.ErrNotFound)
	})

	t.Run("seed keeps existing roles", func(t *testing.T) {
		uc := usecase.New(memory.New())
		ctx := context.Background()

		_, err := uc.User.PutUser(ctx, "a@plant.example", "", types.RoleAdmin)
		gt.NoError(t, err).Required()

		err = uc.User.SeedUsers(ctx, []*model.User{
			{ID: "a@plant.example", Role: types.RoleViewer},
			{ID: "b@plant.example", Role: types.RoleOperator},
		})
		gt.NoError(t, err).Required()

		users, err := uc.User.ListUsers(ctx)
		gt.NoError(t, err).Required()
		gt.Array(t, users).Length(2).Required()
		gt.Value(t, users[0].Role).Equal(types.RoleAdmin)
		gt.Value(t, users[1].Role).Equal(types.RoleOperator)
	})
}
