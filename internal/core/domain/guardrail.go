package domain

// VerdictCode is the outcome of a guardrail check.
type VerdictCode string

const (
	VerdictAllow            VerdictCode = "allow"
	VerdictBlockInjection   VerdictCode = "block_injection"
	VerdictRefuseOutOfScope VerdictCode = "refuse_out_of_scope"
)

// Guardrail reason codes.
const (
	ReasonInjectionPattern  = "injection_pattern"
	ReasonQueryTooLong      = "query_too_long"
	ReasonSuspiciousContext = "suspicious_context"
	ReasonNoEvidence        = "no_evidence"
)

// GuardrailVerdict is produced fresh per query and per retrieved context.
// It is never stored beyond the turn it gates.
type GuardrailVerdict struct {
	Allowed     bool        `json:"allowed"`
	Code        VerdictCode `json:"code"`
	ReasonCode  string      `json:"reason_code,omitempty"`
	MatchedRule string      `json:"matched_rule,omitempty"`
}

func Allow() GuardrailVerdict {
	return GuardrailVerdict{Allowed: true, Code: VerdictAllow}
}

// TurnState tracks a query turn through the guardrail state machine.
type TurnState string

const (
	TurnReceived    TurnState = "received"
	TurnPreChecked  TurnState = "pre_checked"
	TurnRetrieved   TurnState = "retrieved"
	TurnPostChecked TurnState = "post_checked"
	TurnAnswered    TurnState = "answered"
	TurnBlocked     TurnState = "blocked"
	TurnRefused     TurnState = "refused"
)

// Terminal reports whether no further transitions are possible for the turn.
func (s TurnState) Terminal() bool {
	switch s {
	case TurnAnswered, TurnBlocked, TurnRefused:
		return true
	default:
		return false
	}
}
