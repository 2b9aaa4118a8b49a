package model_test

import (
	"errors"
	"testing"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestNewRiskRecord(t *testing.T) {
	r := model.NewRiskRecord("H2S leak", "sensor above limit", "Biodigestor")

	gt.S(t, r.ID.String()).NotEqual("")
	gt.N(t, r.Gravity).Equal(1)
	gt.N(t, r.Urgency).Equal(1)
	gt.N(t, r.Tendency).Equal(1)
	gt.N(t, r.Score).Equal(1)
	gt.V(t, r.Status).Equal(types.RiskStatusOpen)
	gt.NoError(t, r.Validate())

	other := model.NewRiskRecord("H2S leak", "", "Biodigestor")
	gt.V(t, other.ID).NotEqual(r.ID)
}

func TestRiskRecord_SetFactors(t *testing.T) {
	t.Run("recomputes score", func(t *testing.T) {
		r := model.NewRiskRecord("Compressor noise", "", "Upgrading")
		gt.NoError(t, r.SetFactors(5, 4, 5)).Required()

		gt.N(t, r.Score).Equal(100)
		gt.V(t, r.RowLevel()).Equal(types.RowLevelCritical)
		gt.V(t, r.Priority()).Equal(types.PriorityEmergency)
		gt.NoError(t, r.Validate())
	})

	t.Run("leaves record untouched on invalid factor", func(t *testing.T) {
		r := model.NewRiskRecord("Compressor noise", "", "Upgrading")
		gt.NoError(t, r.SetFactors(3, 3, 3)).Required()

		err := r.SetFactors(3, 0, 3)
		gt.B(t, errors.Is(err, model.ErrFactorOutOfRange)).True()
		gt.N(t, r.Gravity).Equal(3)
		gt.N(t, r.Urgency).Equal(3)
		gt.N(t, r.Tendency).Equal(3)
		gt.N(t, r.Score).Equal(27)
	})
}

func TestRiskRecord_Validate(t *testing.T) {
	t.Run("empty title", func(t *testing.T) {
		r := model.NewRiskRecord("   ", "", "Biodigestor")
		gt.B(t, errors.Is(r.Validate(), model.ErrValidation)).True()
	})

	t.Run("score mismatch", func(t *testing.T) {
		r := model.NewRiskRecord("Flare failure", "", "Flare")
		r.Gravity = 5
		gt.B(t, errors.Is(r.Validate(), model.ErrValidation)).True()
	})

	t.Run("factor out of range", func(t *testing.T) {
		r := model.NewRiskRecord("Flare failure", "", "Flare")
		r.Gravity = 6
		r.Score = 6
		gt.B(t, errors.Is(r.Validate(), model.ErrFactorOutOfRange)).True()
	})

	t.Run("invalid status", func(t *testing.T) {
		r := model.NewRiskRecord("Flare failure", "", "Flare")
		r.Status = "CLOSED"
		gt.B(t, errors.Is(r.Validate(), model.ErrValidation)).True()
	})
}

func TestRiskRecord_Copy(t *testing.T) {
	r := model.NewRiskRecord("Valve", "", "Upgrading")
	r.Attachments = []model.Attachment{{URL: "gs://bucket/a.jpg", Name: "a.jpg"}}

	copied := r.Copy()
	copied.Attachments[0].Name = "changed"
	copied.Title = "changed"

	gt.S(t, r.Attachments[0].Name).Equal("a.jpg")
	gt.S(t, r.Title).Equal("Valve")
}
