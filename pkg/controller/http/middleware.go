package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/go-chi/chi/v5/middleware"
)

// identityPrefix is prepended to the e-mail by the proxy
const identityPrefix = "accounts.google.com:"

type userResolver interface {
	Resolve(ctx context.Context, email string) (*model.User, error)
}

// identityMiddleware resolves the caller from the proxy header and puts
// the user and a request scoped logger into the request context
func identityMiddleware(users userResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email := strings.TrimPrefix(r.Header.Get(IdentityHeader), identityPrefix)

			user, err := users.Resolve(r.Context(), email)
			if errors.Is(err, model.ErrPermissionDenied) {
				writeJSON(w, r, http.StatusUnauthorized, errorResponse{Error: "Authentication required"})
				return
			}
			if err != nil {
				handleError(w, r, err)
				return
			}

			logger := logging.From(r.Context()).With(
				"user", user.ID,
				"request_id", middleware.GetReqID(r.Context()),
			)
			ctx := logging.With(r.Context(), logger)
			ctx = model.ContextWithUser(ctx, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
