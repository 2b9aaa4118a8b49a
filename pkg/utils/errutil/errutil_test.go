package errutil_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: goerr.Wrap(model.ErrValidation, "title is required"), want: http.StatusBadRequest},
		{name: "factor out of range", err: goerr.Wrap(model.ErrFactorOutOfRange, "bad gravity"), want: http.StatusBadRequest},
		{name: "permission", err: goerr.Wrap(model.ErrPermissionDenied, "viewer"), want: http.StatusForbidden},
		{name: "not found", err: goerr.Wrap(model.ErrNotFound, "risk not found"), want: http.StatusNotFound},
		{name: "conflict", err: goerr.Wrap(model.ErrConflict, "duplicate"), want: http.StatusConflict},
		{name: "unavailable", err: goerr.Wrap(model.ErrUnavailable, "no storage"), want: http.StatusServiceUnavailable},
		{name: "other", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.N(t, errutil.StatusCode(tt.err)).Equal(tt.want)
		})
	}
}

func TestHandleHTTP(t *testing.T) {
	w := httptest.NewRecorder()
	errutil.HandleHTTP(context.Background(), w, goerr.New("risk not found"), http.StatusNotFound)

	gt.N(t, w.Code).Equal(http.StatusNotFound)
	gt.S(t, w.Body.String()).Contains("risk not found")
}

func TestHandleReturnsSameError(t *testing.T) {
	err := goerr.New("failed")
	gt.V(t, errutil.Handle(context.Background(), err, "oops")).Equal(err)
	gt.NoError(t, errutil.Handle(context.Background(), nil, "nothing"))
}
