package model

import (
	"cmp"
	"slices"

	"github.com/biogas-ops/gutboard/pkg/domain/types"
)

// Rank returns a new slice ordered by score descending. Records with
// equal scores keep their input order.
func Rank(records []*RiskRecord) []*RiskRecord {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b *RiskRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

// AggregateScoreByArea sums scores per area
func AggregateScoreByArea(records []*RiskRecord) map[string]int {
	result := make(map[string]int)
	for _, r := range records {
		result[r.Area] += r.Score
	}
	return result
}

// AggregateCountByArea counts records per area
func AggregateCountByArea(records []*RiskRecord) map[string]int {
	result := make(map[string]int)
	for _, r := range records {
		result[r.Area]++
	}
	return result
}

// AreaTotal is one entry of an area aggregation
type AreaTotal struct {
	Area  string
	Total int
}

// TopArea returns the area with the largest total. Ties go to the
// lexically smaller area name. ok is false for an empty aggregation.
func TopArea(totals map[string]int) (top AreaTotal, ok bool) {
	for area, total := range totals {
		if !ok || total > top.Total || (total == top.Total && area < top.Area) {
			top = AreaTotal{Area: area, Total: total}
			ok = true
		}
	}
	return top, ok
}

// SortedAreaTotals returns totals ordered by total descending, then area name
func SortedAreaTotals(totals map[string]int) []AreaTotal {
	result := make([]AreaTotal, 0, len(totals))
	for area, total := range totals {
		result = append(result, AreaTotal{Area: area, Total: total})
	}
	slices.SortFunc(result, func(a, b AreaTotal) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Area, b.Area)
	})
	return result
}

// FilterByArea keeps records whose area equals area
func FilterByArea(records []*RiskRecord, area string) []*RiskRecord {
	return filter(records, func(r *RiskRecord) bool { return r.Area == area })
}

// FilterByStatus keeps records in any of the given statuses
func FilterByStatus(records []*RiskRecord, statuses ...types.RiskStatus) []*RiskRecord {
	return filter(records, func(r *RiskRecord) bool { return slices.Contains(statuses, r.Status) })
}

// FilterByMinScore keeps records whose score is at least threshold
func FilterByMinScore(records []*RiskRecord, threshold int) []*RiskRecord {
	return filter(records, func(r *RiskRecord) bool { return r.Score >= threshold })
}

func filter(records []*RiskRecord, keep func(*RiskRecord) bool) []*RiskRecord {
	result := make([]*RiskRecord, 0, len(records))
	for _, r := range records {
		if keep(r) {
			result = append(result, r)
		}
	}
	return result
}

// RiskFilter combines the filters above. Zero values disable a criterion.
type RiskFilter struct {
	Area     string
	Statuses []types.RiskStatus
	MinScore int
}

// Apply runs all enabled filters on records
func (f RiskFilter) Apply(records []*RiskRecord) []*RiskRecord {
	result := records
	if f.Area != "" {
		result = FilterByArea(result, f.Area)
	}
	if len(f.Statuses) > 0 {
		result = FilterByStatus(result, f.Statuses...)
	}
	if f.MinScore > 0 {
		result = FilterByMinScore(result, f.MinScore)
	}
	return result
}
