package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/utils/errutil"
	"github.com/biogas-ops/gutboard/pkg/utils/logging"
	"github.com/biogas-ops/gutboard/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
)

type errorResponse struct {
	Error string `json:"error"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

// handleError writes err with the status of its sentinel. Server errors
// are reported and their details hidden from the client.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := errutil.StatusCode(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		_ = errutil.Handle(r.Context(), err, "request failed")
		writeJSON(w, r, status, errorResponse{Error: http.StatusText(status)})
		return
	}

	logging.From(r.Context()).Warn("request rejected", "status", status, "error", err.Error())
	writeJSON(w, r, status, errorResponse{Error: err.Error()})
}

// decodeJSON reads the request body into v
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return goerr.Wrap(model.ErrValidation, "request body is required")
		}
		return goerr.Wrap(model.ErrValidation, "invalid request body", goerr.V("error", err.Error()))
	}
	return nil
}
