package model

import (
	"context"
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// User is a dashboard user. ID is the e-mail address asserted by the
// identity-aware proxy.
type User struct {
	ID        string
	Name      string
	Role      types.Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the user ID and role
func (u *User) Validate() error {
	if !strings.Contains(u.ID, "@") {
		return goerr.Wrap(ErrValidation, "user ID must be an e-mail address", goerr.V(UserIDKey, u.ID))
	}
	if !u.Role.IsValid() {
		return goerr.Wrap(ErrValidation, "invalid role", goerr.V(UserIDKey, u.ID), goerr.V("role", u.Role))
	}
	return nil
}

type ctxUserKey struct{}

// ContextWithUser embeds the authenticated user into ctx
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ctxUserKey{}, user)
}

// UserFromContext returns the authenticated user, or nil
func UserFromContext(ctx context.Context) *User {
	user, _ := ctx.Value(ctxUserKey{}).(*User)
	return user
}
