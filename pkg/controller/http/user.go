package http

import (
	"net/http"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/go-chi/chi/v5"
)

type userResponse struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Role      types.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Role: u.Role, CreatedAt: u.CreatedAt}
}

type meResponse struct {
	User     userResponse `json:"user"`
	Features struct {
		AISuggestion bool `json:"ai_suggestion"`
		Attachments  bool `json:"attachments"`
		NoAuth       bool `json:"no_auth"`
	} `json:"features"`
}

func (s *Server) getMe(w http.ResponseWriter, r *http.Request) {
	user := model.UserFromContext(r.Context())

	var resp meResponse
	resp.User = toUserResponse(user)
	resp.Features.AISuggestion = s.uc.AISuggestionEnabled()
	resp.Features.Attachments = s.uc.AttachmentsEnabled()
	resp.Features.NoAuth = s.uc.IsNoAuthn()
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.uc.User.ListUsers(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]userResponse, len(users))
	for i, u := range users {
		resp[i] = toUserResponse(u)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"users": resp})
}

func (s *Server) putUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string     `json:"email"`
		Name  string     `json:"name"`
		Role  types.Role `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	user, err := s.uc.User.PutUser(r.Context(), req.Email, req.Name, req.Role)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toUserResponse(user))
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.User.DeleteUser(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}
