package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func newTestRisk(t *testing.T, title, area string, g, u, tend int) *model.RiskRecord {
	t.Helper()
	risk := model.NewRiskRecord(title, "description of "+title, area)
	gt.NoError(t, risk.SetFactors(g, u, tend)).Required()
	return risk
}

func TestRiskRepository(t *testing.T) {
	runBothBackends(t, func(t *testing.T, newRepo newRepoFunc) {
		t.Run("Create and Get round trip", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			risk := newTestRisk(t, "Gas leak at digester valve", "Biodigestor", 5, 4, 3)
			risk.ImmediateAction = "Isolate valve V-12"
			risk.ReporterID = "operator@example.com"
			risk.Attachments = []model.Attachment{
				{URL: "https://storage.example.com/a.jpg", Name: "a.jpg", Category: "photo", UploadedAt: time.Now().UTC().Truncate(time.Millisecond)},
			}

			created, err := repo.Risk().Create(ctx, risk)
			gt.NoError(t, err).Required()
			gt.Value(t, created.ID).Equal(risk.ID)
			gt.Value(t, created.Score).Equal(60)
			gt.Bool(t, created.CreatedAt.IsZero()).False()
			gt.Bool(t, created.UpdatedAt.IsZero()).False()

			got, err := repo.Risk().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Title).Equal("Gas leak at digester valve")
			gt.Value(t, got.Area).Equal("Biodigestor")
			gt.Value(t, got.Gravity).Equal(5)
			gt.Value(t, got.Urgency).Equal(4)
			gt.Value(t, got.Tendency).Equal(3)
			gt.Value(t, got.Score).Equal(60)
			gt.Value(t, got.Status).Equal(types.RiskStatusOpen)
			gt.Value(t, got.ImmediateAction).Equal("Isolate valve V-12")
			gt.Value(t, got.ReporterID).Equal("operator@example.com")
			gt.Array(t, got.Attachments).Length(1).Required()
			gt.Value(t, got.Attachments[0].Name).Equal("a.jpg")
			gt.Value(t, got.Attachments[0].Category).Equal("photo")
		})

		t.Run("Create rejects duplicate ID", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			risk := newTestRisk(t, "Duplicate", "Utilities", 1, 1, 1)
			_, err := repo.Risk().Create(ctx, risk)
			gt.NoError(t, err).Required()

			_, err = repo.Risk().Create(ctx, risk)
			gt.Error(t, err).Is(model.ErrConflict)
		})

		t.Run("Get returns ErrNotFound for unknown ID", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Risk().Get(context.Background(), model.NewRiskID())
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("List orders by score desc then creation asc", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			low := newTestRisk(t, "low", "A", 1, 1, 2)
			highFirst := newTestRisk(t, "high first", "A", 5, 5, 5)
			mid := newTestRisk(t, "mid", "B", 3, 3, 3)
			highSecond := newTestRisk(t, "high second", "B", 5, 5, 5)

			for _, r := range []*model.RiskRecord{low, highFirst, mid, highSecond} {
				_, err := repo.Risk().Create(ctx, r)
				gt.NoError(t, err).Required()
				time.Sleep(2 * time.Millisecond)
			}

			risks, err := repo.Risk().List(ctx)
			gt.NoError(t, err).Required()
			gt.Array(t, risks).Length(4).Required()
			gt.Value(t, risks[0].Title).Equal("high first")
			gt.Value(t, risks[1].Title).Equal("high second")
			gt.Value(t, risks[2].Title).Equal("mid")
			gt.Value(t, risks[3].Title).Equal("low")
		})

		t.Run("List on empty repository returns no records", func(t *testing.T) {
			repo := newRepo(t)
			risks, err := repo.Risk().List(context.Background())
			gt.NoError(t, err).Required()
			gt.Array(t, risks).Length(0)
		})

		t.Run("Update keeps CreatedAt and stores new fields", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, newTestRisk(t, "Blower noise", "Utilities", 2, 2, 2))
			gt.NoError(t, err).Required()

			modified := created.Copy()
			gt.NoError(t, modified.SetFactors(4, 4, 4)).Required()
			modified.Status = types.RiskStatusInProgress
			modified.CreatedAt = time.Now().Add(24 * time.Hour)

			updated, err := repo.Risk().Update(ctx, modified)
			gt.NoError(t, err).Required()
			gt.Value(t, updated.Score).Equal(64)
			gt.Value(t, updated.Status).Equal(types.RiskStatusInProgress)
			gt.Bool(t, updated.CreatedAt.Equal(created.CreatedAt)).True()

			got, err := repo.Risk().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Score).Equal(64)
			gt.Bool(t, got.CreatedAt.Equal(created.CreatedAt)).True()
		})

		t.Run("Update returns ErrNotFound for unknown record", func(t *testing.T) {
			repo := newRepo(t)
			_, err := repo.Risk().Update(context.Background(), newTestRisk(t, "ghost", "A", 1, 1, 1))
			gt.Error(t, err).Is(model.ErrNotFound)
		})

		t.Run("Delete removes record", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, newTestRisk(t, "to delete", "A", 1, 1, 1))
			gt.NoError(t, err).Required()

			gt.NoError(t, repo.Risk().Delete(ctx, created.ID)).Required()

			_, err = repo.Risk().Get(ctx, created.ID)
			gt.Error(t, err).Is(model.ErrNotFound)

			gt.Error(t, repo.Risk().Delete(ctx, created.ID)).Is(model.ErrNotFound)
		})

		t.Run("Delete of unknown ID returns ErrNotFound and keeps others", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			kept, err := repo.Risk().Create(ctx, newTestRisk(t, "kept", "A", 2, 2, 2))
			gt.NoError(t, err).Required()

			gt.Error(t, repo.Risk().Delete(ctx, model.NewRiskID())).Is(model.ErrNotFound)

			got, err := repo.Risk().Get(ctx, kept.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.ID).Equal(kept.ID)
		})

		t.Run("returned records are copies", func(t *testing.T) {
			repo := newRepo(t)
			ctx := context.Background()

			created, err := repo.Risk().Create(ctx, newTestRisk(t, "original", "A", 1, 1, 1))
			gt.NoError(t, err).Required()
			created.Title = "mutated"

			got, err := repo.Risk().Get(ctx, created.ID)
			gt.NoError(t, err).Required()
			gt.Value(t, got.Title).Equal("original")
		})
	})
}
