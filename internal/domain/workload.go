package domain

// ScoredWorkItem pairs a ticket with its urgency score and the reasons behind it.
type ScoredWorkItem struct {
	Ticket  Ticket   `json:"ticket" yaml:"ticket"`
	Score   float64  `json:"score" yaml:"score"`
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// WorkloadAnalysis is the ranked batch plus a short synopsis.
type WorkloadAnalysis struct {
	Ordered []ScoredWorkItem `json:"ordered" yaml:"ordered"`
	Summary string           `json:"summary" yaml:"summary"`
}

// Top returns the highest ranked ticket, if any.
func (a WorkloadAnalysis) Top() (Ticket, bool) {
	if len(a.Ordered) == 0 {
		return Ticket{}, false
	}
	return a.Ordered[0].Ticket, true
}
