package model_test

import (
	"testing"

	"github.com/biogas-ops/gutboard/pkg/domain/model"
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func newScored(t *testing.T, title, area string, g, u, tend int) *model.RiskRecord {
	t.Helper()
	r := model.NewRiskRecord(title, "", area)
	gt.NoError(t, r.SetFactors(g, u, tend)).Required()
	return r
}

func titles(records []*model.RiskRecord) []string {
	result := make([]string, len(records))
	for i, r := range records {
		result[i] = r.Title
	}
	return result
}

func TestRank(t *testing.T) {
	a := newScored(t, "a", "Biodigestor", 2, 2, 2) // 8
	b := newScored(t, "b", "Upgrading", 5, 5, 5)   // 125
	c := newScored(t, "c", "Flare", 2, 2, 2)       // 8
	d := newScored(t, "d", "Biodigestor", 4, 4, 4) // 64
	e := newScored(t, "e", "Flare", 1, 4, 2)       // 8

	input := []*model.RiskRecord{a, b, c, d, e}
	ranked := model.Rank(input)

	t.Run("orders by score descending and keeps tie order", func(t *testing.T) {
		gt.A(t, titles(ranked)).Equal([]string{"b", "d", "a", "c", "e"})
	})

	t.Run("does not modify input", func(t *testing.T) {
		gt.A(t, titles(input)).Equal([]string{"a", "b", "c", "d", "e"})
	})

	t.Run("is idempotent", func(t *testing.T) {
		gt.A(t, titles(model.Rank(ranked))).Equal(titles(ranked))
	})

	t.Run("equal scores follow input permutation", func(t *testing.T) {
		permuted := model.Rank([]*model.RiskRecord{e, c, a})
		gt.A(t, titles(permuted)).Equal([]string{"e", "c", "a"})
	})

	t.Run("empty input", func(t *testing.T) {
		gt.A(t, model.Rank(nil)).Length(0)
	})
}

func TestAggregateByArea(t *testing.T) {
	records := []*model.RiskRecord{
		newScored(t, "1", "Biodigestor", 1, 1, 2), // 2
		newScored(t, "2", "Biodigestor", 1, 1, 3), // 3
		newScored(t, "3", "Biodigestor", 1, 1, 1), // 1
		newScored(t, "4", "Upgrading", 5, 5, 4),   // 100
	}

	scores := model.AggregateScoreByArea(records)
	counts := model.AggregateCountByArea(records)

	gt.N(t, scores["Biodigestor"]).Equal(6)
	gt.N(t, scores["Upgrading"]).Equal(100)
	gt.N(t, counts["Biodigestor"]).Equal(3)
	gt.N(t, counts["Upgrading"]).Equal(1)

	t.Run("top areas may differ", func(t *testing.T) {
		topScore, ok := model.TopArea(scores)
		gt.B(t, ok).True()
		gt.S(t, topScore.Area).Equal("Upgrading")

		topCount, ok := model.TopArea(counts)
		gt.B(t, ok).True()
		gt.S(t, topCount.Area).Equal("Biodigestor")
	})

	t.Run("ties broken by area name", func(t *testing.T) {
		top, ok := model.TopArea(map[string]int{"Flare": 10, "Biodigestor": 10, "Upgrading": 3})
		gt.B(t, ok).True()
		gt.S(t, top.Area).Equal("Biodigestor")
	})

	t.Run("empty aggregation", func(t *testing.T) {
		_, ok := model.TopArea(map[string]int{})
		gt.B(t, ok).False()
	})

	t.Run("sorted totals", func(t *testing.T) {
		sorted := model.SortedAreaTotals(counts)
		gt.A(t, sorted).Length(2)
		gt.S(t, sorted[0].Area).Equal("Biodigestor")
		gt.S(t, sorted[1].Area).Equal("Upgrading")
	})
}

func TestFilters(t *testing.T) {
	open := newScored(t, "open", "Biodigestor", 5, 5, 5)
	progress := newScored(t, "progress", "Flare", 3, 3, 3)
	progress.Status = types.RiskStatusInProgress
	resolved := newScored(t, "resolved", "Biodigestor", 1, 1, 1)
	resolved.Status = types.RiskStatusResolved

	records := []*model.RiskRecord{open, progress, resolved}

	gt.A(t, titles(model.FilterByArea(records, "Biodigestor"))).Equal([]string{"open", "resolved"})
	gt.A(t, titles(model.FilterByStatus(records, types.RiskStatusInProgress, types.RiskStatusResolved))).Equal([]string{"progress", "resolved"})
	gt.A(t, titles(model.FilterByMinScore(records, 27))).Equal([]string{"open", "progress"})
	gt.A(t, model.FilterByArea(records, "Unknown")).Length(0)

	t.Run("combined filter", func(t *testing.T) {
		f := model.RiskFilter{Area: "Biodigestor", MinScore: 2}
		gt.A(t, titles(f.Apply(records))).Equal([]string{"open"})
		gt.A(t, model.RiskFilter{}.Apply(records)).Length(3)
	})

	t.Run("filters are pure", func(t *testing.T) {
		_ = model.FilterByMinScore(records, 100)
		gt.A(t, titles(records)).Equal([]string{"open", "progress", "resolved"})
	})
}

func TestBuildDashboard(t *testing.T) {
	records := []*model.RiskRecord{
		newScored(t, "1", "Biodigestor", 1, 1, 2),
		newScored(t, "2", "Biodigestor", 1, 1, 3),
		newScored(t, "3", "Upgrading", 5, 5, 4),
		newScored(t, "4", "Flare", 3, 3, 5),
	}

	d := model.BuildDashboard(records, 2)
	gt.N(t, d.Total).Equal(4)
	gt.N(t, d.ByRowLevel[types.RowLevelCritical]).Equal(1)
	gt.N(t, d.ByRowLevel[types.RowLevelMedium]).Equal(1)
	gt.N(t, d.ByRowLevel[types.RowLevelLow]).Equal(2)
	gt.N(t, d.ByStatus[types.RiskStatusOpen]).Equal(4)
	gt.S(t, d.TopAreaByScore.Area).Equal("Upgrading")
	gt.S(t, d.TopAreaByCount.Area).Equal("Biodigestor")
	gt.A(t, titles(d.TopRisks)).Equal([]string{"3", "4"})

	empty := model.BuildDashboard(nil, 5)
	gt.N(t, empty.Total).Equal(0)
	gt.V(t, empty.TopAreaByScore).Nil()
}
