package model

// Suggestion is an AI-proposed GUT scoring for a risk
type Suggestion struct {
	Gravity   int
	Urgency   int
	Tendency  int
	Reasoning string
}

// Valid reports whether all three factors are usable
func (s *Suggestion) Valid() bool {
	_, err := ComputeScore(s.Gravity, s.Urgency, s.Tendency)
	return err == nil
}

// ResolutionEvaluation is the AI verdict on a resolution narrative
type ResolutionEvaluation struct {
	Effective  bool
	Assessment string
}
