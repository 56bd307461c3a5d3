package domain

// ConfidenceBand is the user-facing confidence classification of an answer.
type ConfidenceBand string

const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// Answer is the terminal result of a query turn. For blocked and refused
// turns Text carries the fixed refusal message, Citations is empty and
// MatchedRule names the guardrail rule that decided the verdict, if any.
type Answer struct {
	Text        string         `json:"text"`
	Citations   []Citation     `json:"citations"`
	Confidence  float64        `json:"confidence"`
	Band        ConfidenceBand `json:"confidence_band"`
	State       TurnState      `json:"state"`
	Verdict     VerdictCode    `json:"verdict"`
	MatchedRule string         `json:"matched_rule,omitempty"`
}
