package model

import "github.com/biogas-ops/gutboard/pkg/domain/types"

// Dashboard is the summary view over all risk records
type Dashboard struct {
	Total          int
	ByRowLevel     map[types.RowLevel]int
	ByStatus       map[types.RiskStatus]int
	ScoreByArea    []AreaTotal
	CountByArea    []AreaTotal
	TopAreaByScore *AreaTotal
	TopAreaByCount *AreaTotal
	TopRisks       []*RiskRecord
}

// BuildDashboard aggregates records. The top area by cumulative score
// and the top area by incident count are computed independently and
// may differ.
func BuildDashboard(records []*RiskRecord, topN int) *Dashboard {
	d := &Dashboard{
		Total:      len(records),
		ByRowLevel: make(map[types.RowLevel]int),
		ByStatus:   make(map[types.RiskStatus]int),
	}

	for _, r := range records {
		d.ByRowLevel[r.RowLevel()]++
		d.ByStatus[r.Status]++
	}

	scores := AggregateScoreByArea(records)
	counts := AggregateCountByArea(records)
	d.ScoreByArea = SortedAreaTotals(scores)
	d.CountByArea = SortedAreaTotals(counts)

	if top, ok := TopArea(scores); ok {
		d.TopAreaByScore = &top
	}
	if top, ok := TopArea(counts); ok {
		d.TopAreaByCount = &top
	}

	ranked := Rank(records)
	if topN > 0 && len(ranked) > topN {
		ranked = ranked[:topN]
	}
	d.TopRisks = ranked

	return d
}
