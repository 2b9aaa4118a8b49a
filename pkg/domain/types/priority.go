package types

// Priority is the label shown on the risk detail banner.
// Values are the Portuguese labels operators see in the plant.
type Priority string

const (
	PriorityLow       Priority = "Baixa Prioridade"
	PriorityMedium    Priority = "Média Prioridade"
	PriorityHigh      Priority = "Alta Prioridade"
	PriorityEmergency Priority = "Emergência Crítica"
)

// AllPriorities returns priorities from least to most severe
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityEmergency}
}

func (p Priority) String() string {
	return string(p)
}
