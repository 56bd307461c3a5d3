package usecase

import (
	"strings"

	"github.com/getclever/docqa/internal/core/domain"
)

// GuardrailRule is a named, pure predicate over query text. Rules are
// evaluated in order; the first match decides the verdict.
type GuardrailRule struct {
	Name     string
	Patterns []string
}

func (r GuardrailRule) matches(lowered string) bool {
	for _, pattern := range r.Patterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// DefaultGuardrailRules returns the built-in injection rule set. Deployments
// may replace it via configuration without touching control flow.
func DefaultGuardrailRules() []GuardrailRule {
	return []GuardrailRule{
		{
			Name: "instruction_override",
			Patterns: []string{
				"ignore previous instructions",
				"ignore all previous instructions",
				"forget everything above",
				"disregard the above",
				"ignore the above",
				"forget the previous",
			},
		},
		{
			Name: "role_manipulation",
			Patterns: []string{
				"you are now",
				"act as",
				"pretend to be",
				"roleplay as",
				"assume the role",
			},
		},
		{
			Name: "system_manipulation",
			Patterns: []string{
				"new instructions:",
				"system:",
				"override",
				"jailbreak",
				"break out of",
				"escape from",
				"reveal system prompt",
			},
		},
		{
			Name: "secret_extraction",
			Patterns: []string{
				"tell me the password",
				"what is the secret",
				"reveal the key",
				"show me the code",
				"give me access",
			},
		},
		{
			Name: "instruction_injection",
			Patterns: []string{
				"instead, do this:",
				"actually, ignore that",
			},
		},
		{
			Name: "context_manipulation",
			Patterns: []string{
				"ignore instructions in documents",
				"don't use the documents",
				"forget the context",
				"use your training instead",
			},
		},
	}
}

// GuardrailEngine is the two-point gate of a query turn. A block or refusal
// is final for that turn; no retries happen inside the engine.
type GuardrailEngine struct {
	rules       []GuardrailRule
	maxQueryLen int
}

func NewGuardrailEngine(rules []GuardrailRule, maxQueryLen int) *GuardrailEngine {
	if len(rules) == 0 {
		rules = DefaultGuardrailRules()
	}
	if maxQueryLen <= 0 {
		maxQueryLen = 2000
	}
	return &GuardrailEngine{rules: rules, maxQueryLen: maxQueryLen}
}

// PreCheck runs on the raw query before resolution and retrieval. A match
// means the turn never reaches the generation capability.
func (e *GuardrailEngine) PreCheck(query string) domain.GuardrailVerdict {
	if len(query) > e.maxQueryLen {
		return domain.GuardrailVerdict{
			Allowed:    false,
			Code:       domain.VerdictBlockInjection,
			ReasonCode: domain.ReasonQueryTooLong,
		}
	}

	lowered := strings.ToLower(query)
	for _, rule := range e.rules {
		if rule.matches(lowered) {
			return domain.GuardrailVerdict{
				Allowed:     false,
				Code:        domain.VerdictBlockInjection,
				ReasonCode:  domain.ReasonInjectionPattern,
				MatchedRule: rule.Name,
			}
		}
	}
	return domain.Allow()
}

// PostCheck runs on the reranked candidates before generation. An empty set
// is the out-of-scope outcome; injected content hiding inside retrieved
// chunks refuses the turn as well.
func (e *GuardrailEngine) PostCheck(candidates []domain.Candidate) domain.GuardrailVerdict {
	if len(candidates) == 0 {
		return domain.GuardrailVerdict{
			Allowed:    false,
			Code:       domain.VerdictRefuseOutOfScope,
			ReasonCode: domain.ReasonNoEvidence,
		}
	}

	for _, candidate := range candidates {
		lowered := strings.ToLower(candidate.Text)
		for _, rule := range e.rules {
			if rule.matches(lowered) {
				return domain.GuardrailVerdict{
					Allowed:     false,
					Code:        domain.VerdictRefuseOutOfScope,
					ReasonCode:  domain.ReasonSuspiciousContext,
					MatchedRule: rule.Name,
				}
			}
		}
	}
	return domain.Allow()
}
