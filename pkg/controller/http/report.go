package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/biogas-ops/gutboard/pkg/utils/safe"
)

func (s *Server) exportRisks(w http.ResponseWriter, r *http.Request) {
	filter, err := parseRiskFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	format := types.ReportFormat(strings.ToLower(r.URL.Query().Get("format")))
	if format == "" {
		format = types.ReportFormatCSV
	}

	out, err := s.uc.Report.ExportRisks(r.Context(), format, filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Body)))
	w.WriteHeader(http.StatusOK)
	safe.Write(r.Context(), w, out.Body)
}
