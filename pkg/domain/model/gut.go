package model

import (
	"github.com/biogas-ops/gutboard/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// MinFactor and MaxFactor bound each GUT factor
	MinFactor = 1
	MaxFactor = 5

	// MaxScore is the largest possible GUT score (5 x 5 x 5)
	MaxScore = MaxFactor * MaxFactor * MaxFactor
)

// Row colouring thresholds of the risk table
const (
	RowCriticalThreshold = 81
	RowMediumThreshold   = 36
)

// Detail banner thresholds. These do not match the row thresholds;
// each surface keeps its own table.
const (
	PriorityEmergencyThreshold = 100
	PriorityHighThreshold      = 60
	PriorityMediumThreshold    = 20
)

// ValidateFactor checks a single GUT factor. name is used in the error values.
func ValidateFactor(name string, v int) error {
	if v < MinFactor || v > MaxFactor {
		return goerr.Wrap(ErrFactorOutOfRange, "invalid GUT factor",
			goerr.V(FactorKey, name),
			goerr.V(ValueKey, v),
		)
	}
	return nil
}

// ComputeScore returns gravity * urgency * tendency. Inputs outside
// [1,5] are rejected, never clamped.
func ComputeScore(gravity, urgency, tendency int) (int, error) {
	if err := ValidateFactor("gravity", gravity); err != nil {
		return 0, err
	}
	if err := ValidateFactor("urgency", urgency); err != nil {
		return 0, err
	}
	if err := ValidateFactor("tendency", tendency); err != nil {
		return 0, err
	}
	return gravity * urgency * tendency, nil
}

// ClassifyRow buckets a score for table row colouring
func ClassifyRow(score int) types.RowLevel {
	switch {
	case score >= RowCriticalThreshold:
		return types.RowLevelCritical
	case score >= RowMediumThreshold:
		return types.RowLevelMedium
	default:
		return types.RowLevelLow
	}
}

// ClassifyPriority buckets a score for the detail view priority banner
func ClassifyPriority(score int) types.Priority {
	switch {
	case score >= PriorityEmergencyThreshold:
		return types.PriorityEmergency
	case score >= PriorityHighThreshold:
		return types.PriorityHigh
	case score >= PriorityMediumThreshold:
		return types.PriorityMedium
	default:
		return types.PriorityLow
	}
}
