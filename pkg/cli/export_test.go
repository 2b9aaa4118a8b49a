package cli

var (
	PrintRanking    = printRanking
	PrintAreaTotals = printAreaTotals
	GetIndexConfig  = getIndexConfig
)
