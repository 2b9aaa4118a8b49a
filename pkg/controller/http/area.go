package http

import (
	"net/http"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/go-chi/chi/v5"
)

type areaResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func toAreaResponse(a *model.PlantArea) areaResponse {
	return areaResponse{ID: a.ID.String(), Name: a.Name, CreatedAt: a.CreatedAt}
}

type areaRequest struct {
	Name string `json:"name"`
}

func (s *Server) listAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := s.uc.Area.ListAreas(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]areaResponse, len(areas))
	for i, a := range areas {
		resp[i] = toAreaResponse(a)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"areas": resp})
}

func (s *Server) createArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	area, err := s.uc.Area.CreateArea(r.Context(), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toAreaResponse(area))
}

func (s *Server) renameArea(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	area, err := s.uc.Area.RenameArea(r.Context(), model.AreaID(chi.URLParam(r, "id")), req.Name)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toAreaResponse(area))
}

func (s *Server) deleteArea(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Area.DeleteArea(r.Context(), model.AreaID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}
