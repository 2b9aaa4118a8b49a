package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type readingResponse struct {
	ID      string             `json:"id"`
	Kind    types.ReadingKind  `json:"kind"`
	Value   float64            `json:"value"`
	Unit    string             `json:"unit"`
	Ambient float64            `json:"ambient,omitempty"`
	Level   types.ReadingLevel `json:"level"`
	TakenAt time.Time          `json:"taken_at"`
	Note    string             `json:"note,omitempty"`
}

func toReadingResponse(rd *model.Reading) *readingResponse {
	if rd == nil {
		return nil
	}
	return &readingResponse{
		ID:      string(rd.ID),
		Kind:    rd.Kind,
		Value:   rd.Value,
		Unit:    rd.Kind.Unit(),
		Ambient: rd.Ambient,
		Level:   rd.Level(),
		TakenAt: rd.TakenAt,
		Note:    rd.Note,
	}
}

type equipmentResponse struct {
	ID                 string           `json:"id"`
	Tag                string           `json:"tag"`
	Name               string           `json:"name"`
	Area               string           `json:"area"`
	Kind               string           `json:"kind"`
	CreatedAt          time.Time        `json:"created_at"`
	LatestVibration    *readingResponse `json:"latest_vibration,omitempty"`
	LatestThermography *readingResponse `json:"latest_thermography,omitempty"`
}

func toEquipmentResponse(e *model.Equipment) equipmentResponse {
	return equipmentResponse{
		ID:        e.ID.String(),
		Tag:       e.Tag,
		Name:      e.Name,
		Area:      e.Area,
		Kind:      e.Kind,
		CreatedAt: e.CreatedAt,
	}
}

// listEquipment returns every asset with its latest reading of each kind
func (s *Server) listEquipment(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.uc.Equipment.LatestReadings(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]equipmentResponse, len(statuses))
	for i, st := range statuses {
		resp[i] = toEquipmentResponse(st.Equipment)
		resp[i].LatestVibration = toReadingResponse(st.Latest[types.ReadingKindVibration])
		resp[i].LatestThermography = toReadingResponse(st.Latest[types.ReadingKindThermography])
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"equipment": resp})
}

func (s *Server) createEquipment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tag  string `json:"tag"`
		Name string `json:"name"`
		Area string `json:"area"`
		Kind string `json:"kind"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	eq, err := s.uc.Equipment.CreateEquipment(r.Context(), usecase.CreateEquipmentInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toEquipmentResponse(eq))
}

func (s *Server) deleteEquipment(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Equipment.DeleteEquipment(r.Context(), model.EquipmentID(chi.URLParam(r, "id"))); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) listReadings(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			handleError(w, r, goerr.Wrap(model.ErrValidation, "invalid limit", goerr.V("limit", raw)))
			return
		}
		limit = v
	}

	readings, err := s.uc.Equipment.ListReadings(r.Context(), model.EquipmentID(chi.URLParam(r, "id")), limit)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := make([]*readingResponse, len(readings))
	for i, rd := range readings {
		resp[i] = toReadingResponse(rd)
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"readings": resp})
}

func (s *Server) recordReading(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Kind    types.ReadingKind `json:"kind"`
		Value   float64           `json:"value"`
		Ambient float64           `json:"ambient"`
		TakenAt time.Time         `json:"taken_at"`
		Note    string            `json:"note"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	reading, err := s.uc.Equipment.RecordReading(r.Context(), model.EquipmentID(chi.URLParam(r, "id")), usecase.RecordReadingInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toReadingResponse(reading))
}
