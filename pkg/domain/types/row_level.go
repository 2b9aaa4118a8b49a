package types

// RowLevel is the colour bucket used by the risk table
type RowLevel string

const (
	RowLevelLow      RowLevel = "LOW"
	RowLevelMedium   RowLevel = "MEDIUM"
	RowLevelCritical RowLevel = "CRITICAL"
)

// AllRowLevels returns row levels from least to most severe
func AllRowLevels() []RowLevel {
	return []RowLevel{RowLevelLow, RowLevelMedium, RowLevelCritical}
}

func (l RowLevel) String() string {
	return string(l)
}
