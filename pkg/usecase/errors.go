package usecase

import (
	"context"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Context keys for error values
const (
	RoleKey     = "role"
	RequiredKey = "required_role"
	URLKey      = "url"
)

// authorize checks the caller in ctx against the required role. Calls
// without a user in ctx come from the CLI and are trusted.
func authorize(ctx context.Context, required types.Role) error {
	user := model.UserFromContext(ctx)
	if user == nil {
		return nil
	}
	if !user.Role.Allows(required) {
		return goerr.Wrap(model.ErrPermissionDenied, "insufficient role",
			goerr.V(model.UserIDKey, user.ID),
			goerr.V(RoleKey, user.Role),
			goerr.V(RequiredKey, required),
		)
	}
	return nil
}

func reporterID(ctx context.Context) string {
	if user := model.UserFromContext(ctx); user != nil {
		return user.ID
	}
	return ""
}
