package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/usecase"
	"github.com/biogas-ops/gutboard/pkg/utils/safe"
	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
)

type attachmentResponse struct {
	URL        string    `json:"url"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type riskResponse struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Description          string               `json:"description"`
	Area                 string               `json:"area"`
	Gravity              int                  `json:"gravity"`
	Urgency              int                  `json:"urgency"`
	Tendency             int                  `json:"tendency"`
	Score                int                  `json:"score"`
	RowLevel             types.RowLevel       `json:"row_level"`
	Priority             types.Priority       `json:"priority"`
	Status               types.RiskStatus     `json:"status"`
	ImmediateAction      string               `json:"immediate_action,omitempty"`
	AIReasoning          string               `json:"ai_reasoning,omitempty"`
	Resolution           string               `json:"resolution,omitempty"`
	ResolutionEvaluation string               `json:"resolution_evaluation,omitempty"`
	ReporterID           string               `json:"reporter_id,omitempty"`
	Attachments          []attachmentResponse `json:"attachments"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}

func toRiskResponse(r *model.RiskRecord) riskResponse {
	resp := riskResponse{
		ID:                   r.ID.String(),
		Title:                r.Title,
		Description:          r.Description,
		Area:                 r.Area,
		Gravity:              r.Gravity,
		Urgency:              r.Urgency,
		Tendency:             r.Tendency,
		Score:                r.Score,
		RowLevel:             r.RowLevel(),
		Priority:             r.Priority(),
		Status:               r.Status,
		ImmediateAction:      r.ImmediateAction,
		AIReasoning:          r.AIReasoning,
		Resolution:           r.Resolution,
		ResolutionEvaluation: r.ResolutionEvaluation,
		ReporterID:           r.ReporterID,
		Attachments:          make([]attachmentResponse, len(r.Attachments)),
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
	for i, a := range r.Attachments {
		resp.Attachments[i] = attachmentResponse{URL: a.URL, Name: a.Name, Category: a.Category, UploadedAt: a.UploadedAt}
	}
	return resp
}

func toRiskResponses(risks []*model.RiskRecord) []riskResponse {
	resp := make([]riskResponse, len(risks))
	for i, r := range risks {
		resp[i] = toRiskResponse(r)
	}
	return resp
}

// parseRiskFilter reads area, status (comma separated) and min_score
func parseRiskFilter(r *http.Request) (model.RiskFilter, error) {
	q := r.URL.Query()
	filter := model.RiskFilter{Area: strings.TrimSpace(q.Get("area"))}

	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			status, err := types.ParseRiskStatus(strings.ToUpper(strings.TrimSpace(s)))
			if err != nil {
				return filter, goerr.Wrap(model.ErrValidation, "invalid status filter", goerr.V("status", s))
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	if raw := q.Get("min_score"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return filter, goerr.Wrap(model.ErrValidation, "invalid min_score", goerr.V("min_score", raw))
		}
		filter.MinScore = v
	}
	return filter, nil
}

func riskID(r *http.Request) model.RiskID {
	return model.RiskID(chi.URLParam(r, "id"))
}

func (s *Server) listRisks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRiskFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	risks, err := s.uc.Risk.ListRisks(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"risks": toRiskResponses(risks)})
}

type createRiskRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Area            string `json:"area"`
	Gravity         int    `json:"gravity"`
	Urgency         int    `json:"urgency"`
	Tendency        int    `json:"tendency"`
	ImmediateAction string `json:"immediate_action"`
}

func (s *Server) createRisk(w http.ResponseWriter, r *http.Request) {
	var req createRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.CreateRisk(r.Context(), usecase.CreateRiskInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRiskResponse(risk))
}

func (s *Server) getRisk(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.GetRisk(r.Context(), riskID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

type updateRiskRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Area            *string `json:"area"`
	Gravity         *int    `json:"gravity"`
	Urgency         *int    `json:"urgency"`
	Tendency        *int    `json:"tendency"`
	ImmediateAction *string `json:"immediate_action"`
}

func (s *Server) updateRisk(w http.ResponseWriter, r *http.Request) {
	var req updateRiskRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.UpdateRisk(r.Context(), riskID(r), usecase.UpdateRiskInput(req))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) deleteRisk(w http.ResponseWriter, r *http.Request) {
	if err := s.uc.Risk.DeleteRisk(r.Context(), riskID(r)); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, successResponse{Success: true})
}

func (s *Server) updateRiskStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status types.RiskStatus `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.UpdateRiskStatus(r.Context(), riskID(r), req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) updateRiskFactors(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Gravity  int `json:"gravity"`
		Urgency  int `json:"urgency"`
		Tendency int `json:"tendency"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.UpdateRiskFactors(r.Context(), riskID(r), req.Gravity, req.Urgency, req.Tendency)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

func (s *Server) resolveRisk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Resolution string `json:"resolution"`
		Evaluate   bool   `json:"evaluate"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	risk, err := s.uc.Risk.ResolveRisk(r.Context(), riskID(r), req.Resolution, req.Evaluate)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

type suggestionResponse struct {
	Available bool   `json:"available"`
	Gravity   int    `json:"gravity,omitempty"`
	Urgency   int    `json:"urgency,omitempty"`
	Tendency  int    `json:"tendency,omitempty"`
	Score     int    `json:"score,omitempty"`
	Reasoning string `json:"reasoning,omitempty"`
}

func toSuggestionResponse(sg *model.Suggestion) suggestionResponse {
	if sg == nil {
		return suggestionResponse{}
	}
	resp := suggestionResponse{
		Available: true,
		Gravity:   sg.Gravity,
		Urgency:   sg.Urgency,
		Tendency:  sg.Tendency,
		Reasoning: sg.Reasoning,
	}
	if score, err := model.ComputeScore(sg.Gravity, sg.Urgency, sg.Tendency); err == nil {
		resp.Score = score
	}
	return resp
}

func (s *Server) suggestForRisk(w http.ResponseWriter, r *http.Request) {
	sg, err := s.uc.Risk.SuggestForRisk(r.Context(), riskID(r))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSuggestionResponse(sg))
}

func (s *Server) postSuggest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Area        string `json:"area"`
	}
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	sg, err := s.uc.Risk.Suggest(r.Context(), req.Title, req.Description, req.Area)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSuggestionResponse(sg))
}

func (s *Server) attachFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadSize)
	if err := r.ParseMultipartForm(s.maxUploadSize); err != nil {
		handleError(w, r, goerr.Wrap(model.ErrValidation, "invalid multipart upload", goerr.V("error", err.Error())))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, goerr.Wrap(model.ErrValidation, "file field is required"))
		return
	}
	defer safe.Close(r.Context(), file)

	risk, err := s.uc.Risk.AttachFile(r.Context(), riskID(r), usecase.AttachFileInput{
		Name:        header.Filename,
		Category:    r.FormValue("category"),
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRiskResponse(risk))
}

func (s *Server) detachFile(w http.ResponseWriter, r *http.Request) {
	risk, err := s.uc.Risk.DetachFile(r.Context(), riskID(r), r.URL.Query().Get("url"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
}

type areaTotalResponse struct {
	Area  string `json:"area"`
	Total int    `json:"total"`
}

type dashboardResponse struct {
	Total          int                      `json:"total"`
	ByRowLevel     map[types.RowLevel]int   `json:"by_row_level"`
	ByStatus       map[types.RiskStatus]int `json:"by_status"`
	ScoreByArea    []areaTotalResponse      `json:"score_by_area"`
	CountByArea    []areaTotalResponse      `json:"count_by_area"`
	TopAreaByScore *areaTotalResponse       `json:"top_area_by_score"`
	TopAreaByCount *areaTotalResponse       `json:"top_area_by_count"`
	TopRisks       []riskResponse           `json:"top_risks"`
}

func toAreaTotals(totals []model.AreaTotal) []areaTotalResponse {
	resp := make([]areaTotalResponse, len(totals))
	for i, t := range totals {
		resp[i] = areaTotalResponse(t)
	}
	return resp
}

func toAreaTotal(t *model.AreaTotal) *areaTotalResponse {
	if t == nil {
		return nil
	}
	resp := areaTotalResponse(*t)
	return &resp
}

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := s.uc.Risk.Dashboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dashboardResponse{
		Total:          d.Total,
		ByRowLevel:     d.ByRowLevel,
		ByStatus:       d.ByStatus,
		ScoreByArea:    toAreaTotals(d.ScoreByArea),
		CountByArea:    toAreaTotals(d.CountByArea),
		TopAreaByScore: toAreaTotal(d.TopAreaByScore),
		TopAreaByCount: toAreaTotal(d.TopAreaByCount),
		TopRisks:       toRiskResponses(d.TopRisks),
	})
}
