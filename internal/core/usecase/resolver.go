package usecase

import (
	"strings"
	"unicode"

	"github.com/getclever/docqa/internal/core/domain"
)

// ContextResolver rewrites follow-up queries that lean on the previous turn
// into self-contained queries. Rewriting is a pure heuristic over the bounded
// history: the same history and query always produce the same resolved query.
type ContextResolver struct {
	continuationPhrases []string
	referringTokens     map[string]struct{}
	topicPrefixes       []string
}

func NewContextResolver() *ContextResolver {
	return &ContextResolver{
		continuationPhrases: []string{
			"tell me more",
			"more about",
			"explain further",
			"what else",
			"more details",
			"expand on",
			"additional information",
			"more info",
			"give me examples",
			"show me more",
			"how does this work",
			"anything else",
		},
		referringTokens: map[string]struct{}{
			"it": {}, "that": {}, "this": {}, "them": {}, "those": {}, "these": {},
		},
		topicPrefixes: []string{
			"can you tell me about",
			"what do you know about",
			"tell me about",
			"what is the",
			"what are the",
			"what is",
			"what are",
			"what was",
			"who is",
			"who are",
			"how does",
			"how do",
			"how can",
			"why is",
			"why are",
			"when did",
			"where is",
			"explain",
			"describe",
			"define",
		},
	}
}

// Resolve returns the query rewritten against the most recent turn, or the
// query unchanged when it carries no referring expression or the history is
// empty.
func (r *ContextResolver) Resolve(history *domain.History, query string) string {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || history == nil || history.Len() == 0 {
		return trimmed
	}
	if !r.isFollowUp(trimmed) {
		return trimmed
	}

	last, ok := history.Last()
	if !ok {
		return trimmed
	}
	referent := r.extractTopic(last.ResolvedQuery)
	if referent == "" {
		return trimmed
	}

	if rewritten, substituted := substituteReferringToken(trimmed, r.referringTokens, referent); substituted {
		return rewritten
	}
	return trimmed + " " + referent
}

func (r *ContextResolver) isFollowUp(query string) bool {
	lowered := strings.ToLower(query)
	for _, phrase := range r.continuationPhrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	for _, token := range splitWords(lowered) {
		if _, ok := r.referringTokens[token]; ok {
			return true
		}
	}
	return false
}

// extractTopic strips interrogative lead-ins and punctuation from the prior
// turn's resolved query, leaving the topic the follow-up refers to.
func (r *ContextResolver) extractTopic(resolvedQuery string) string {
	topic := strings.TrimSpace(resolvedQuery)
	topic = strings.TrimRight(topic, "?!. ")

	lowered := strings.ToLower(topic)
	for _, prefix := range r.topicPrefixes {
		if strings.HasPrefix(lowered, prefix+" ") {
			topic = strings.TrimSpace(topic[len(prefix):])
			break
		}
	}
	return topic
}

// substituteReferringToken replaces the first standalone referring token with
// the referent, preserving surrounding text.
func substituteReferringToken(query string, referringTokens map[string]struct{}, referent string) (string, bool) {
	isWordRune := func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsNumber(r)
	}

	words := strings.Fields(query)
	for i, word := range words {
		core := strings.TrimFunc(word, func(r rune) bool { return !isWordRune(r) })
		if _, ok := referringTokens[strings.ToLower(core)]; !ok || core == "" {
			continue
		}
		start := strings.Index(word, core)
		words[i] = word[:start] + referent + word[start+len(core):]
		return strings.Join(words, " "), true
	}
	return query, false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
